package libinjection

import (
	"bytes"
	"testing"
)

/*
 * the fuzz targets check totality: any byte sequence must produce a
 * valid verdict, deterministically, without ResultError, panics or hangs
 */

var fuzz_seeds = [][]byte{
	[]byte(""),
	[]byte("1' OR '1'='1"),
	[]byte("--1 UNION ALL SELECT * FROM FOO"),
	[]byte("/*! */"),
	[]byte("1; WAITFOR DELAY '0:0:5'"),
	[]byte("<script>alert(1)</script>"),
	[]byte("<img src=javascript:x>"),
	[]byte("<div<div>"),
	[]byte("<!--[if IE]>"),
	[]byte("\x00\xa0'\"`<>=--#/*"),
	bytes.Repeat([]byte("'"), 64),
	bytes.Repeat([]byte("<"), 64),
}

func FuzzIsSqli(f *testing.F) {
	for _, seed := range fuzz_seeds {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		res, fp := IsSqli(data)
		if res == ResultError {
			t.Fatalf("internal error on %q", data)
		}
		if len(fp) > SQLI_FINGERPRINT_SIZE {
			t.Fatalf("fingerprint %q over capacity on %q", fp, data)
		}
		res2, fp2 := IsSqli(data)
		if res2 != res || fp2 != fp {
			t.Fatalf("nondeterministic verdict on %q", data)
		}
	})
}

func FuzzIsXss(f *testing.F) {
	for _, seed := range fuzz_seeds {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		res := IsXss(data)
		if res == ResultError {
			t.Fatalf("internal error on %q", data)
		}
		if IsXss(data) != res {
			t.Fatalf("nondeterministic verdict on %q", data)
		}
	})
}

func FuzzHtml5(f *testing.F) {
	for _, seed := range fuzz_seeds {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		for flags := HTML5_FLAGS_DATA_STATE; flags <= HTML5_FLAGS_VALUE_BACK_QUOTE; flags++ {
			h := NewHtml5(data, flags)
			tokens := 0
			for {
				r := h.Next()
				if r == ResultError {
					t.Fatalf("internal error on %q in context %d", data, flags)
				}
				if r == ResultNone {
					break
				}
				tokens++
				/* a token either consumes input or ends the stream, so
				 * the count is bounded by the input length */
				if tokens > len(data)+2 {
					t.Fatalf("token stream on %q did not terminate", data)
				}
			}
		}
	})
}
