package libinjection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSqliVectors(t *testing.T) {
	cases := []struct {
		input       string
		fingerprint string
	}{
		{"' or ''='", "s&sos"},
		{"1' OR '1'='1", "s&sos"},
		{`" OR ""="`, "s&sos"},
		{"admin' OR 1=1--", "s&1c"},
		{"--1 UNION ALL SELECT * FROM FOO", "1UEok"},
		{"1 UNION SELECT password FROM users", "1UEnk"},
		{"1; WAITFOR DELAY '0:0:5'", "1;Ts"},
		{"/*! MYSQL SPECIAL */ SELECT 1", "X"},
		{"1234--", "1c"},
	}
	for _, tc := range cases {
		res, fp := IsSqli([]byte(tc.input))
		assert.Equal(t, ResultMatch, res, "input %q not detected", tc.input)
		assert.Equal(t, tc.fingerprint, fp, "wrong fingerprint for %q", tc.input)
	}
}

func TestIsSqliBenign(t *testing.T) {
	cases := []string{
		"",
		"hello world 123",
		"foo 'bar'",
		"SELECT a FROM t",
		"sexy and 17",
		"foo!@#",
		"O'Brien",
		"an order by the court",
	}
	for _, input := range cases {
		res, _ := IsSqli([]byte(input))
		assert.Equal(t, ResultNone, res, "false positive on %q", input)
	}
}

/*
 * 'sexy and 17' folds to the same shape as 'sexy and 17<18' but only the
 * latter needed folding to get there; the token count separates them
 */
func TestIsSqliFoldingSeparatesComparison(t *testing.T) {
	res, _ := IsSqli([]byte("sexy and 17"))
	assert.Equal(t, ResultNone, res)

	res, fp := IsSqli([]byte("sexy and 17<18"))
	assert.Equal(t, ResultMatch, res)
	assert.Equal(t, "n&1", fp)
}

/* fingerprints depend on token shape, never on identifier text */
func TestFingerprintStability(t *testing.T) {
	_, fp1 := IsSqli([]byte("SELECT a FROM t"))
	_, fp2 := IsSqli([]byte("SELECT x FROM y"))
	require.NotEmpty(t, fp1)
	assert.Equal(t, fp1, fp2)
	assert.Equal(t, "Enkn", fp1)
}

/* the fingerprint is reported even when the verdict is clean */
func TestFingerprintPopulatedOnNoMatch(t *testing.T) {
	res, fp := IsSqli([]byte("SELECT a FROM t"))
	assert.Equal(t, ResultNone, res)
	assert.Equal(t, "Enkn", fp)
}

func TestIsSqliNulBytes(t *testing.T) {
	res, fp := IsSqli([]byte("1\x00' OR '1'='1"))
	assert.Equal(t, ResultMatch, res)
	assert.Equal(t, "s&sos", fp)
}

func TestIsSqliAdversarialTermination(t *testing.T) {
	inputs := []string{
		strings.Repeat("'", 10000),
		strings.Repeat(`\`, 10000),
		strings.Repeat("<", 10000),
		strings.Repeat("(", 10000),
		strings.Repeat("-", 10001),
		strings.Repeat("/*", 5000),
		strings.Repeat("`", 10000),
		strings.Repeat("1'\"`", 2500),
	}
	for _, input := range inputs {
		res, _ := IsSqli([]byte(input))
		require.NotEqual(t, ResultError, res, "internal error on %q...", input[:8])
	}
}

func TestIsSqliDeterministic(t *testing.T) {
	inputs := []string{
		"1' OR '1'='1",
		"SELECT a FROM t",
		strings.Repeat("'\"", 500),
	}
	for _, input := range inputs {
		r1, fp1 := IsSqli([]byte(input))
		r2, fp2 := IsSqli([]byte(input))
		assert.Equal(t, r1, r2)
		assert.Equal(t, fp1, fp2)
	}
}

func TestFingerprintDirect(t *testing.T) {
	st := new_sqli_state("SELECT a FROM t", sql_keywords, 0)
	require.NoError(t, st.fingerprint_input())
	assert.Equal(t, "Enkn", st.fingerprint)

	st = new_sqli_state("' or ''='", sql_keywords, FLAG_QUOTE_SINGLE|FLAG_SQL_ANSI)
	require.NoError(t, st.fingerprint_input())
	assert.Equal(t, "s&sos", st.fingerprint)
}

/* '--[not white]' is two operators in MySQL and a comment everywhere else */
func TestDashDashDialectSplit(t *testing.T) {
	st := new_sqli_state("--1 UNION ALL SELECT * FROM FOO", sql_keywords, FLAG_QUOTE_NONE|FLAG_SQL_ANSI)
	require.NoError(t, st.fingerprint_input())
	assert.True(t, st.reparse_as_mysql(), "ddx comment should request a MySQL pass")

	st = new_sqli_state("--1 UNION ALL SELECT * FROM FOO", sql_keywords, FLAG_QUOTE_NONE|FLAG_SQL_MYSQL)
	require.NoError(t, st.fingerprint_input())
	assert.Equal(t, "1UEok", st.fingerprint)
}
