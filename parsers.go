package libinjection

import (
	"fmt"
	"strings"
)

/*
 * Each parse_* function consumes one token's worth of bytes starting at
 * st.pos and returns the position of the next unread byte. The produced
 * token, if any, is written into st.tokenvec[st.current]. Whitespace
 * parsers produce no token and just advance.
 *
 * Every function returns a position strictly greater than st.pos; the
 * tokenize loop verifies this so a logic fault here degrades into
 * ResultError instead of an infinite loop.
 */

func parse_white(st *sqli_state) int {
	return st.pos + 1
}

func parse_operator1(st *sqli_state) int {
	pos := st.pos
	st.tokenvec[st.current] = newToken(TYPE_OPERATOR, pos, 1, string(st.s[pos]))
	return pos + 1
}

/* single-character token whose type is the character itself: ( ) , ; { } */
func parse_char(st *sqli_state) int {
	pos := st.pos
	st.tokenvec[st.current] = newToken(int(st.s[pos]), pos, 1, string(st.s[pos]))
	return pos + 1
}

func parse_other(st *sqli_state) int {
	pos := st.pos
	st.tokenvec[st.current] = newToken(TYPE_UNKNOWN, pos, 1, string(st.s[pos]))
	return pos + 1
}

func parse_eol_comment(st *sqli_state) int {
	s, slen, pos := st.s, st.slen, st.pos

	endpos := strings.IndexByte(s[pos:], '\n')
	if endpos == -1 {
		st.tokenvec[st.current] = newToken(TYPE_COMMENT, pos, slen-pos, s[pos:])
		return slen
	}
	end := pos + endpos
	st.tokenvec[st.current] = newToken(TYPE_COMMENT, pos, end-pos, s[pos:end])
	return end + 1
}

func parse_dash(st *sqli_state) int {
	s, slen, pos := st.s, st.slen, st.pos

	/*
	 * five cases:
	 * 1) --[white]    always a SQL comment
	 * 2) --[EOF]      a comment
	 * 3) --[notwhite] MySQL: NOT a comment but two unary operators
	 * 4) --[notwhite] everyone else: a comment
	 * 5) -[not dash]  '-' is a unary operator
	 */
	if pos+2 < slen && s[pos+1] == '-' && char_is_white(s[pos+2]) {
		return parse_eol_comment(st)
	} else if pos+2 == slen && s[pos+1] == '-' {
		return parse_eol_comment(st)
	} else if pos+1 < slen && s[pos+1] == '-' && (st.flags&FLAG_SQL_ANSI) != 0 {
		st.stats_comment_ddx++
		return parse_eol_comment(st)
	}
	st.tokenvec[st.current] = newToken(TYPE_OPERATOR, pos, 1, "-")
	return pos + 1
}

/*
 * In ANSI mode, hash is an operator.
 * In MySQL mode, it's an EOL comment like '--'.
 */
func parse_hash(st *sqli_state) int {
	st.stats_comment_hash++
	if (st.flags & FLAG_SQL_MYSQL) != 0 {
		return parse_eol_comment(st)
	}
	st.tokenvec[st.current] = newToken(TYPE_OPERATOR, st.pos, 1, "#")
	return st.pos + 1
}

func parse_slash(st *sqli_state) int {
	s, slen, pos := st.s, st.slen, st.pos

	/* not a comment */
	if pos+1 == slen || s[pos+1] != '*' {
		return parse_operator1(st)
	}

	ctype := TYPE_COMMENT
	idx := strings.Index(s[pos+2:], "*/")
	if idx == -1 {
		/* unterminated comment runs to end of input */
		if is_mysql_comment(s, slen, pos) {
			ctype = TYPE_EVIL
		}
		st.tokenvec[st.current] = newToken(int(ctype), pos, slen-pos, s[pos:])
		return slen
	}
	end := pos + 2 + idx /* index of '*' in the closing marker */

	/*
	 * postgresql allows nested comments which makes this incompatible
	 * with parsing, so if we find a '/x' inside the comment, make an
	 * evil token. MySQL's "conditional" comments are an automatic
	 * black ban as well.
	 */
	if strings.Contains(s[pos+2:end], "/*") {
		ctype = TYPE_EVIL
	} else if is_mysql_comment(s, slen, pos) {
		ctype = TYPE_EVIL
	}

	clen := end + 2 - pos
	st.tokenvec[st.current] = newToken(int(ctype), pos, clen, s[pos:end+2])
	return pos + clen
}

func parse_backslash(st *sqli_state) int {
	s, slen, pos := st.s, st.slen, st.pos

	/* weird MySQL alias for NULL, "\N" (capital N only) */
	if pos+1 < slen && s[pos+1] == 'N' {
		st.tokenvec[st.current] = newToken(TYPE_NUMBER, pos, 2, s[pos:pos+2])
		return pos + 2
	}
	st.tokenvec[st.current] = newToken(TYPE_BACKSLASH, pos, 1, string(s[pos]))
	return pos + 1
}

func parse_operator2(st *sqli_state) int {
	s, slen, pos := st.s, st.slen, st.pos

	/* single operator at end of input */
	if pos+1 >= slen {
		return parse_operator1(st)
	}

	/* special 3-char operator */
	if pos+2 < slen && s[pos] == '<' && s[pos+1] == '=' && s[pos+2] == '>' {
		st.tokenvec[st.current] = newToken(TYPE_OPERATOR, pos, 3, "<=>")
		return pos + 3
	}

	/* 2-char operators: "!=", ":=", "||", etc. — longest match first */
	operator := s[pos : pos+2]
	ch := st.lookup_word(operator)
	if ch != 0 && ch != TYPE_FINGERPRINT {
		st.tokenvec[st.current] = newToken(int(ch), pos, 2, operator)
		return pos + 2
	}

	if s[pos] == ':' {
		/* ':' alone is not an operator */
		st.tokenvec[st.current] = newToken(TYPE_COLON, pos, 1, ":")
		return pos + 1
	}
	return parse_operator1(st)
}

/*
 * Look forward for doubling of the delimiter:
 *
 * case 'foo''bar' --> foo''bar
 *
 * Backslash escaping is honored only under the MySQL profile; ANSI SQL
 * treats a backslash as an ordinary character inside a string.
 */
func parse_string_core(st *sqli_state, delim byte, offset int) int {
	s, slen, pos := st.s, st.slen, st.pos

	/* real quote if offset > 0, simulated quote if not */
	var str_open byte
	if offset > 0 {
		str_open = delim
	}

	search := pos + offset /* skip over the opening quote */
	for {
		idx := strings.IndexByte(s[search:], delim)
		if idx == -1 {
			/* string ended with no trailing quote: runs to end of input */
			token := newToken(TYPE_STRING, pos+offset, slen-pos-offset, s[pos+offset:])
			token.str_open = str_open
			token.str_close = CHAR_NULL
			st.tokenvec[st.current] = token
			return slen
		}
		qpos := search + idx
		if (st.flags&FLAG_SQL_MYSQL) != 0 && is_backslash_escaped(qpos-1, pos+offset, s) {
			search = qpos + 1
			continue
		}
		if is_double_delim_escaped(qpos, slen, s) {
			search = qpos + 2
			continue
		}
		/* quote is closed: a normal string */
		token := newToken(TYPE_STRING, pos+offset, qpos-(pos+offset), s[pos+offset:qpos])
		token.str_open = str_open
		token.str_close = delim
		st.tokenvec[st.current] = token
		return qpos + 1
	}
}

/* used when first char is ' or " */
func parse_string(st *sqli_state) int {
	return parse_string_core(st, st.s[st.pos], 1)
}

/* used when first char is E: psql "escaped string" */
func parse_estring(st *sqli_state) int {
	s, slen, pos := st.s, st.slen, st.pos

	if pos+2 >= slen || s[pos+1] != CHAR_SINGLE {
		return parse_word(st)
	}
	return parse_string_core(st, CHAR_SINGLE, 2)
}

/* used when first char is N or U: "national character set" strings, U&'...' */
func parse_ustring(st *sqli_state) int {
	s, slen, pos := st.s, st.slen, st.pos

	if pos+2 < slen && s[pos+1] == '&' && s[pos+2] == '\'' {
		st.pos += 2
		end := parse_string(st)
		st.tokenvec[st.current].str_open = 'u'
		if st.tokenvec[st.current].str_close == '\'' {
			st.tokenvec[st.current].str_close = 'u'
		}
		return end
	}
	return parse_word(st)
}

func parse_qstring_core(st *sqli_state, offset int) int {
	s, slen := st.s, st.slen
	pos := st.pos + offset

	/*
	 * if we are already at the end, or the current char is not q or Q,
	 * or we don't have 2 more chars, or char2 is not a single quote,
	 * then just treat it as a word
	 */
	if pos >= slen || (s[pos] != 'q' && s[pos] != 'Q') || pos+2 >= slen || s[pos+1] != '\'' {
		return parse_word(st)
	}

	ch := s[pos+2]
	if ch < 33 {
		return parse_word(st)
	}
	switch ch {
	case '(':
		ch = ')'
	case '[':
		ch = ']'
	case '{':
		ch = '}'
	case '<':
		ch = '>'
	}

	/* find )' or ]' or }' or >' */
	find := string([]byte{ch, '\''})
	idx := strings.Index(s[pos+3:], find)
	if idx == -1 {
		token := newToken(TYPE_STRING, pos+3, slen-pos-3, s[pos+3:])
		token.str_open = 'q'
		token.str_close = CHAR_NULL
		st.tokenvec[st.current] = token
		return slen
	}
	end := pos + 3 + idx
	token := newToken(TYPE_STRING, pos+3, end-(pos+3), s[pos+3:end])
	token.str_open = 'q'
	token.str_close = 'q'
	st.tokenvec[st.current] = token
	return end + 2 /* skip over the closing pair */
}

/* Oracle's q string */
func parse_qstring(st *sqli_state) int {
	return parse_qstring_core(st, 0)
}

/* MySQL's N'STRING', or Oracle's nq string */
func parse_nqstring(st *sqli_state) int {
	s, slen, pos := st.s, st.slen, st.pos
	if pos+2 < slen && s[pos+1] == CHAR_SINGLE {
		return parse_estring(st)
	}
	return parse_qstring_core(st, 1)
}

/* binary literal string, re: [bB]'[01]*' */
func parse_bstring(st *sqli_state) int {
	s, slen, pos := st.s, st.slen, st.pos

	/* need at least 2 more chars; if next char isn't a single quote, it's a word */
	if pos+2 >= slen || s[pos+1] != '\'' {
		return parse_word(st)
	}
	wlen := strlenspn(s[pos+2:], "01")
	if pos+2+wlen >= slen || s[pos+2+wlen] != '\'' {
		return parse_word(st)
	}
	/* +3 for [bB], starting quote, ending quote */
	st.tokenvec[st.current] = newToken(TYPE_NUMBER, pos, wlen+3, s[pos:pos+wlen+3])
	return pos + wlen + 3
}

/*
 * hex literal string, re: [xX]'[0123456789abcdefABCDEF]*'
 * MySQL requires an even number of chars, pgsql does not.
 */
func parse_xstring(st *sqli_state) int {
	s, slen, pos := st.s, st.slen, st.pos

	if pos+2 >= slen || s[pos+1] != '\'' {
		return parse_word(st)
	}
	wlen := strlenspn(s[pos+2:], "0123456789abcdefABCDEF")
	if pos+2+wlen >= slen || s[pos+2+wlen] != '\'' {
		return parse_word(st)
	}
	st.tokenvec[st.current] = newToken(TYPE_NUMBER, pos, wlen+3, s[pos:pos+wlen+3])
	return pos + wlen + 3
}

/*
 * This handles MS SQLSERVER bracket words:
 * [colum name with spaces] is a single identifier.
 */
func parse_bword(st *sqli_state) int {
	s, slen, pos := st.s, st.slen, st.pos
	idx := strings.IndexByte(s[pos:], ']')
	if idx == -1 {
		st.tokenvec[st.current] = newToken(TYPE_BAREWORD, pos, slen-pos, s[pos:])
		return slen
	}
	end := pos + idx
	st.tokenvec[st.current] = newToken(TYPE_BAREWORD, pos, end+1-pos, s[pos:end+1])
	return end + 1
}

const sqli_word_unaccepted = " []{}<>:\\?=@!#~+-*/&|^%(),';\t\n\f\r\"\240\000\v"

func parse_word(st *sqli_state) int {
	s, pos := st.s, st.pos

	wlen := strlencspn(s[pos:], sqli_word_unaccepted)
	word := s[pos : pos+wlen]
	st.tokenvec[st.current] = newToken(TYPE_BAREWORD, pos, wlen, word)

	/* look for characters before "." and "`" and see if they're keywords */
	for i := 0; i < wlen; i++ {
		delim := word[i]
		if delim == '.' || delim == '`' {
			wordtype := st.lookup_word(word[:i])
			if wordtype != 0x00 && wordtype != TYPE_BAREWORD && wordtype != TYPE_FINGERPRINT {
				/* got something like "SELECT.1" or "SELECT`column`" */
				st.tokenvec[st.current] = newToken(int(wordtype), pos, i, word[:i])
				return pos + i
			}
		}
	}

	/* normal lookup with the whole word, including any '.' */
	wordtype := st.lookup_word(word)
	/* a word that happens to collide with a fingerprint entry stays a bareword */
	if wordtype == 0 || wordtype == TYPE_FINGERPRINT {
		wordtype = TYPE_BAREWORD
	}
	st.tokenvec[st.current].Type = wordtype
	return pos + wlen
}

func parse_tick(st *sqli_state) int {
	end := parse_string_core(st, CHAR_TICK, 1)

	/*
	 * check the value: if it's a function, convert the token, otherwise
	 * it's a bareword — MySQL treats any backticked value as one.
	 */
	wordtype := st.lookup_word(st.tokenvec[st.current].val)
	if wordtype == TYPE_FUNCTION {
		st.tokenvec[st.current].Type = TYPE_FUNCTION
	} else {
		st.tokenvec[st.current].Type = TYPE_BAREWORD
	}
	return end
}

func parse_var(st *sqli_state) int {
	s, slen := st.s, st.slen
	pos := st.pos + 1

	/*
	 * count is the number of '@' seen: 1 or 2. Used only to
	 * reconstruct the input, but kept for parity with the data model.
	 */
	count := 1
	if pos < slen && s[pos] == '@' {
		pos++
		count = 2
	}

	/* MySQL allows @@`version` and @@'version' */
	if pos < slen {
		if s[pos] == '`' {
			st.pos = pos
			end := parse_tick(st)
			st.tokenvec[st.current].Type = TYPE_VARIABLE
			st.tokenvec[st.current].count = count
			return end
		} else if s[pos] == CHAR_SINGLE || s[pos] == CHAR_DOUBLE {
			st.pos = pos
			end := parse_string(st)
			st.tokenvec[st.current].Type = TYPE_VARIABLE
			st.tokenvec[st.current].count = count
			return end
		}
	}

	xlen := strlencspn(s[pos:], " <>:\\?=@!#~+-*/&|^%(),';\t\n\v\f\r`\"")
	token := newToken(TYPE_VARIABLE, pos, xlen, s[pos:pos+xlen])
	token.count = count
	st.tokenvec[st.current] = token
	return pos + xlen
}

func parse_money(st *sqli_state) int {
	s, slen, pos := st.s, st.slen, st.pos

	if pos+1 == slen {
		/* end of line */
		st.tokenvec[st.current] = newToken(TYPE_BAREWORD, pos, 1, "$")
		return slen
	}

	/*
	 * $1,000.00 or $1.000,00 ok! This also parses $....,,,111 but that's fine.
	 */
	xlen := strlenspn(s[pos+1:], "0123456789.,")
	if xlen == 0 {
		if s[pos+1] == '$' {
			/* we have $$ .. find the ending $$ and make a string */
			idx := strings.Index(s[pos+2:], "$$")
			if idx == -1 {
				/* fell off edge: $$ not found */
				token := newToken(TYPE_STRING, pos+2, slen-(pos+2), s[pos+2:])
				token.str_open = '$'
				token.str_close = CHAR_NULL
				st.tokenvec[st.current] = token
				return slen
			}
			end := pos + 2 + idx
			token := newToken(TYPE_STRING, pos+2, end-(pos+2), s[pos+2:end])
			token.str_open = '$'
			token.str_close = '$'
			st.tokenvec[st.current] = token
			return end + 2
		}

		/* not '$$', but maybe a pgsql "$tag$ quoted string" */
		xlen = strlenspn(s[pos+1:], "abcdefghjiklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
		if xlen == 0 {
			/* it's "$" _something_ .. just add $ and keep going */
			st.tokenvec[st.current] = newToken(TYPE_BAREWORD, pos, 1, "$")
			return pos + 1
		}
		/* we have $foobar?????: is it $foobar$ */
		if pos+xlen+1 >= slen || s[pos+xlen+1] != '$' {
			/* not $foobar$, or fell off edge */
			st.tokenvec[st.current] = newToken(TYPE_BAREWORD, pos, 1, "$")
			return pos + 1
		}

		/* we have $foobar$ ... find it again */
		tag := s[pos : pos+xlen+2]
		body := pos + xlen + 2
		idx := strings.Index(s[body:], tag)
		if idx == -1 {
			/* fell off edge */
			token := newToken(TYPE_STRING, body, slen-body, s[body:])
			token.str_open = '$'
			token.str_close = CHAR_NULL
			st.tokenvec[st.current] = token
			return slen
		}
		/* got one; the string is between $foobar$__________$foobar$ */
		end := body + idx
		token := newToken(TYPE_STRING, body, end-body, s[body:end])
		token.str_open = '$'
		token.str_close = '$'
		st.tokenvec[st.current] = token
		return end + xlen + 2
	} else if xlen == 1 && s[pos+1] == '.' {
		/* $. should be parsed as a word */
		return parse_word(st)
	}

	st.tokenvec[st.current] = newToken(TYPE_NUMBER, pos, 1+xlen, s[pos:pos+xlen+1])
	return pos + xlen + 1
}

func parse_number(st *sqli_state) int {
	s, slen, pos := st.s, st.slen, st.pos
	have_e := false
	have_exp := false

	/*
	 * s[pos] == '0' has a 1/10 chance of being true,
	 * while pos+1 < slen is almost always true
	 */
	if s[pos] == '0' && pos+1 < slen {
		digits := ""
		if s[pos+1] == 'X' || s[pos+1] == 'x' {
			digits = "0123456789ABCDEFabcdef"
		} else if s[pos+1] == 'B' || s[pos+1] == 'b' {
			digits = "01"
		}
		if digits != "" {
			xlen := strlenspn(s[pos+2:], digits)
			if xlen == 0 {
				/* "0x" or "0b" with nothing after: a word */
				st.tokenvec[st.current] = newToken(TYPE_BAREWORD, pos, 2, s[pos:pos+2])
				return pos + 2
			}
			st.tokenvec[st.current] = newToken(TYPE_NUMBER, pos, 2+xlen, s[pos:pos+2+xlen])
			return pos + 2 + xlen
		}
	}

	start := pos
	for pos < slen && char_is_digit(s[pos]) {
		pos++
	}

	/* number sequence reached a '.' */
	if pos < slen && s[pos] == '.' {
		pos++
		/* keep going since it might be a decimal */
		for pos < slen && char_is_digit(s[pos]) {
			pos++
		}
		if pos-start == 1 {
			/* only one character '.' read so far */
			st.tokenvec[st.current] = newToken(TYPE_DOT, start, 1, ".")
			return pos
		}
	}

	if pos < slen && (s[pos] == 'E' || s[pos] == 'e') {
		have_e = true
		pos++
		if pos < slen && (s[pos] == '+' || s[pos] == '-') {
			pos++
		}
		for pos < slen && char_is_digit(s[pos]) {
			have_exp = true
			pos++
		}
	}

	/* Oracle's ending float or double suffix */
	if pos < slen && (s[pos] == 'd' || s[pos] == 'D' || s[pos] == 'f' || s[pos] == 'F') {
		if pos+1 == slen {
			/* line ends: evaluate "... 1.2f$" as '1.2f' */
			pos++
		} else if char_is_white(s[pos+1]) || s[pos+1] == ';' {
			pos++
		} else if s[pos+1] == 'u' || s[pos+1] == 'U' {
			/* a bit of a hack but makes '1fUNION' parse as '1f UNION' */
			pos++
		}
		/* else it's like "123FROM": parse as "123" only */
	}

	if have_e && !have_exp {
		/* very special form of "1234.e", "10.10E", ".E": a WORD not a number */
		st.tokenvec[st.current] = newToken(TYPE_BAREWORD, start, pos-start, s[start:pos])
	} else {
		st.tokenvec[st.current] = newToken(TYPE_NUMBER, start, pos-start, s[start:pos])
	}
	return pos
}

/*
 * Dispatch on the current byte. This is the dense form of the original's
 * 256-entry character table: control bytes and whitespace-like bytes are
 * skipped, letters route through the string-prefix parsers, and anything
 * with no rule at all becomes a single-byte unknown token.
 */
func parse_byte(st *sqli_state, ch byte) int {
	switch {
	case ch <= 32 || ch == 0x7f || ch == 0xa0:
		return parse_white(st)
	case char_is_digit(ch):
		return parse_number(st)
	case char_is_alpha(ch):
		switch ch {
		case 'b', 'B':
			return parse_bstring(st)
		case 'e', 'E':
			return parse_estring(st)
		case 'n', 'N':
			return parse_nqstring(st)
		case 'q', 'Q':
			return parse_qstring(st)
		case 'u', 'U':
			return parse_ustring(st)
		case 'x', 'X':
			return parse_xstring(st)
		default:
			return parse_word(st)
		}
	case ch >= 0x80:
		/* high-bit bytes are word characters (latin-1, utf-8 continuations) */
		return parse_word(st)
	}

	switch ch {
	case '!', '&', '*', ':', '<', '=', '>', '|':
		return parse_operator2(st)
	case '"', '\'':
		return parse_string(st)
	case '#':
		return parse_hash(st)
	case '$':
		return parse_money(st)
	case '%', '+', '^', '~':
		return parse_operator1(st)
	case '(', ')', ',', ';', '{', '}':
		return parse_char(st)
	case '-':
		return parse_dash(st)
	case '.':
		return parse_number(st)
	case '/':
		return parse_slash(st)
	case '@':
		return parse_var(st)
	case '[':
		return parse_bword(st)
	case '\\':
		return parse_backslash(st)
	case '_':
		return parse_word(st)
	case '`':
		return parse_tick(st)
	default: /* '?', ']' and anything else without a rule */
		return parse_other(st)
	}
}

/*
 * tokenize produces the next token, returning whether one was produced.
 * A parser that fails to move the cursor forward would loop forever on
 * adversarial input; that invariant violation is surfaced as an error
 * which the public entry points convert to ResultError.
 */
func (st *sqli_state) tokenize() (bool, error) {
	if st.slen == 0 {
		return false, nil
	}

	/* clear token in current position (also initializes) */
	st.tokenvec[st.current] = newToken(TYPE_NONE, 0, 0, "")

	/*
	 * if we are at the beginning of the string and in single-quote or
	 * double-quote mode, pretend the input starts with a quote
	 */
	if st.pos == 0 && (st.flags&(FLAG_QUOTE_SINGLE|FLAG_QUOTE_DOUBLE)) != 0 {
		st.pos = parse_string_core(st, flag2delim(st.flags), 0)
		st.stats_tokens++
		return true, nil
	}

	for st.pos < st.slen {
		ch := st.s[st.pos]
		next := parse_byte(st, ch)
		if next <= st.pos {
			return false, fmt.Errorf("tokenizer made no progress at offset %d (byte 0x%02x)", st.pos, ch)
		}
		st.pos = next
		if st.tokenvec[st.current].Type != TYPE_NONE {
			st.stats_tokens++
			return true, nil
		}
	}
	return false, nil
}
