/*
Package libinjection classifies untrusted input as SQL injection or XSS
by structure instead of regular expressions: input is tokenized the way a
database or browser would read it, the token stream is folded to a short
fingerprint, and the fingerprint is checked against a blacklist of known
attack shapes.

Every verdict is a tri-state Result. ResultError marks an internal
inconsistency in the detector itself and is never produced by any input
under correct operation; treat it as a bug to report, and fail whichever
way your threat model requires.
*/
package libinjection

/*
 * IsSqli tests the input for SQL injection under the default policy,
 * trying each supported SQL dialect and quoting context. The returned
 * fingerprint is populated whenever tokenization succeeds, regardless of
 * verdict.
 */
func IsSqli(input []byte) (Result, string) {
	return default_policy.IsSqli(input)
}

/*
 * IsXss tests the input for XSS under the default policy, trying each
 * supported HTML injection context.
 */
func IsXss(input []byte) Result {
	return default_policy.IsXss(input)
}
