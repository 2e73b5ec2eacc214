package libinjection

import "testing"

func TestBasicSqli(t *testing.T) {
	res, _ := IsSqli([]byte("' or ''='"))
	if !res.Match() {
		t.Error("failed to find sqli")
	}
}

func TestBasicXss(t *testing.T) {
	if !IsXss([]byte("<script>alert(1)</script>")).Match() {
		t.Error("failed to find xss")
	}
	if IsXss([]byte("script")).Match() {
		t.Error("found xss in plain text")
	}
}

/*
 * the numeric encoding is a compatibility contract with older callers
 * that treat the verdict as an int
 */
func TestResultEncoding(t *testing.T) {
	if ResultNone != 0 {
		t.Errorf("ResultNone = %d, want 0", ResultNone)
	}
	if ResultMatch != 1 {
		t.Errorf("ResultMatch = %d, want 1", ResultMatch)
	}
	if ResultError != -1 {
		t.Errorf("ResultError = %d, want -1", ResultError)
	}

	if ResultNone.Match() || ResultError.Match() {
		t.Error("only ResultMatch may be truthy")
	}
	if !ResultMatch.Match() {
		t.Error("ResultMatch must be truthy")
	}
}

func TestResultString(t *testing.T) {
	cases := map[Result]string{
		ResultNone:  "no_match",
		ResultMatch: "match",
		ResultError: "internal_error",
		Result(42):  "invalid_result",
	}
	for r, want := range cases {
		if got := r.String(); got != want {
			t.Errorf("Result(%d).String() = %q, want %q", int(r), got, want)
		}
	}
}
