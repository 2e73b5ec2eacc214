package libinjection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicyShared(t *testing.T) {
	assert.Same(t, DefaultPolicy(), DefaultPolicy())
}

func TestPolicyFromYAMLFingerprints(t *testing.T) {
	p, err := PolicyFromYAML([]byte("fingerprints:\n  - nn1\n"))
	require.NoError(t, err)

	/* benign under the default tables */
	res, fp := IsSqli([]byte("hello world 123"))
	assert.Equal(t, ResultNone, res)
	assert.Equal(t, "nn1", fp)

	/* blacklisted under the extended policy */
	res, fp = p.IsSqli([]byte("hello world 123"))
	assert.Equal(t, ResultMatch, res)
	assert.Equal(t, "nn1", fp)
}

func TestPolicyFromYAMLKeywords(t *testing.T) {
	p, err := PolicyFromYAML([]byte("keywords:\n  GET_LOCK: f\n"))
	require.NoError(t, err)

	/* the argument list folds to its left value either way; the override
	 * only changes the outer name from bareword to function */
	st := new_sqli_state("GET_LOCK(a,1)", DefaultPolicy().words, 0)
	require.NoError(t, st.fingerprint_input())
	assert.Equal(t, "n(n)", st.fingerprint)

	st = new_sqli_state("GET_LOCK(a,1)", p.words, 0)
	require.NoError(t, st.fingerprint_input())
	assert.Equal(t, "f(n)", st.fingerprint)
}

/* overrides extend the built-ins rather than replacing them */
func TestPolicyFromYAMLKeepsDefaults(t *testing.T) {
	p, err := PolicyFromYAML([]byte("fingerprints:\n  - nn1\n"))
	require.NoError(t, err)

	res, fp := p.IsSqli([]byte("1' OR '1'='1"))
	assert.Equal(t, ResultMatch, res)
	assert.Equal(t, "s&sos", fp)
}

func TestPolicyFromYAMLRejectsBadInput(t *testing.T) {
	cases := []string{
		"keywords: [unclosed",
		"keywords:\n  FOO: xx\n",      /* type code must be one char */
		"fingerprints:\n  - ssssss\n", /* longer than a fingerprint can be */
		"keywords:\n  FOO: \"\"\n",    /* empty type code */
	}
	for _, doc := range cases {
		_, err := PolicyFromYAML([]byte(doc))
		assert.Error(t, err, "accepted %q", doc)
	}
}

func TestPolicyIsXss(t *testing.T) {
	p, err := PolicyFromYAML([]byte("fingerprints: []\n"))
	require.NoError(t, err)
	assert.Equal(t, ResultMatch, p.IsXss([]byte("<script>x</script>")))
	assert.Equal(t, ResultNone, p.IsXss([]byte("plain text")))
}
