package libinjection

import "strings"

type Token struct {
	Len       int
	Type      byte
	val       string
	pos       int
	count     int /* number of '@' for variables: 1 or 2 */
	str_close byte
	str_open  byte
}

func newToken(stype int, pos int, l int, val string) *Token {
	return &Token{
		Type: byte(stype),
		Len:  l,
		val:  val,
		pos:  pos,
	}
}

func (token *Token) is_arithmetic_op() bool {
	if token.Len == 1 && token.Type == TYPE_OPERATOR {
		ch := token.val[0]
		return ch == '*' || ch == '/' || ch == '-' || ch == '+' || ch == '%'
	}
	return false
}

func (token *Token) is_unary_op() bool {
	if token.Type != TYPE_OPERATOR {
		return false
	}
	str := token.val
	switch token.Len {
	case 1:
		return str[0] == '+' || str[0] == '-' || str[0] == '!' || str[0] == '~'
	case 2:
		return str == "!!"
	case 3:
		return strings.EqualFold(str, "not")
	default:
		return false
	}
}

/*
 * See if two tokens can be merged since they are compound SQL phrases.
 *
 * If both tokens are word-like types, their values are joined with a
 * space and looked up in the phrase table. On a hit the left token is
 * replaced with the merged phrase and everything after the right token
 * shifts down one slot.
 *
 * Example: "UNION" + "ALL" ==> "UNION ALL"
 */
func (a *Token) syntax_merge_words(st *sqli_state, apos int, b *Token, bpos int) bool {
	/* first token must be one of these types */
	if !(a.Type == TYPE_KEYWORD || a.Type == TYPE_BAREWORD || a.Type == TYPE_OPERATOR ||
		a.Type == TYPE_UNION || a.Type == TYPE_FUNCTION || a.Type == TYPE_EXPRESSION ||
		a.Type == TYPE_TSQL || a.Type == TYPE_SQLTYPE) {
		return false
	}

	/* second token must be one of these types */
	if b.Type != TYPE_KEYWORD && b.Type != TYPE_BAREWORD && b.Type != TYPE_OPERATOR &&
		b.Type != TYPE_SQLTYPE && b.Type != TYPE_LOGIC_OPERATOR && b.Type != TYPE_FUNCTION &&
		b.Type != TYPE_UNION && b.Type != TYPE_EXPRESSION && b.Type != TYPE_TSQL {
		return false
	}

	merged := a.val + " " + b.val
	wordtype := st.lookup_word(merged)
	if wordtype == 0x00 {
		return false
	}

	st.tokenvec[apos] = newToken(int(wordtype), a.pos, len(merged), merged)
	/* shift down all tokens after b by one slot */
	for i := bpos; i < len(st.tokenvec)-1; i++ {
		if st.tokenvec[i] == nil {
			break
		}
		st.tokenvec[i] = st.tokenvec[i+1]
	}
	st.tokenvec[len(st.tokenvec)-1] = nil
	return true
}
