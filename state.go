package libinjection

import "strings"

/*
 * sqli_state carries one tokenization pass over one input under one
 * dialect profile. A fresh state is built per profile so that testing the
 * same bytes under quote-none / single-quote / double-quote assumptions
 * never leaks positions or stats between passes.
 */
type sqli_state struct {
	s     string          /* input string */
	slen  int             /* length of input */
	words map[string]byte /* keyword/operator/fingerprint lookup, immutable */
	flags int             /* dialect profile: one FLAG_QUOTE_* plus one FLAG_SQL_* */

	pos     int /* index in input during tokenization */
	current int /* slot in tokenvec receiving the next token */

	stats_comment_ddx  int /* '--[not white]' comments found under ANSI rules */
	stats_comment_hash int /* '#' found (operator, or MySQL EOL comment) */
	stats_folds        int
	stats_tokens       int

	tokenvec    [sqli_tokenvec_size]*Token
	fingerprint string
}

func new_sqli_state(s string, words map[string]byte, flags int) *sqli_state {
	if flags == 0 {
		flags = FLAG_QUOTE_NONE | FLAG_SQL_ANSI
	}
	return &sqli_state{
		s:     s,
		slen:  len(s),
		words: words,
		flags: flags,
	}
}

/*
 * lookup_word maps a word (or a two-char operator, or a compound phrase
 * like "UNION ALL") to its token type. Zero means "not special". The same
 * table stores the fingerprint blacklist under TYPE_FINGERPRINT.
 */
func (st *sqli_state) lookup_word(word string) byte {
	return st.words[strings.ToUpper(word)]
}

func (st *sqli_state) reparse_as_mysql() bool {
	return st.stats_comment_ddx+st.stats_comment_hash > 0
}
