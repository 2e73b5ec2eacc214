package libinjection

import (
	"fmt"
	"strings"
)

const (
	/* dialect profile flags */
	FLAG_NONE         = 0
	FLAG_QUOTE_NONE   = 1 << 0
	FLAG_QUOTE_SINGLE = 1 << 1
	FLAG_QUOTE_DOUBLE = 1 << 2
	FLAG_SQL_ANSI     = 1 << 3
	FLAG_SQL_MYSQL    = 1 << 4

	/* token types, doubling as fingerprint type codes */
	TYPE_NONE           = 0x00
	TYPE_KEYWORD        = 'k'
	TYPE_UNION          = 'U'
	TYPE_GROUP          = 'B'
	TYPE_EXPRESSION     = 'E'
	TYPE_SQLTYPE        = 't'
	TYPE_FUNCTION       = 'f'
	TYPE_BAREWORD       = 'n'
	TYPE_NUMBER         = '1'
	TYPE_VARIABLE       = 'v'
	TYPE_STRING         = 's'
	TYPE_OPERATOR       = 'o'
	TYPE_LOGIC_OPERATOR = '&'
	TYPE_COMMENT        = 'c'
	TYPE_COLLATE        = 'A'
	TYPE_LEFTPARENS     = '('
	TYPE_RIGHTPARENS    = ')'
	TYPE_LEFTBRACE      = '{'
	TYPE_RIGHTBRACE     = '}'
	TYPE_DOT            = '.'
	TYPE_COMMA          = ','
	TYPE_COLON          = ':'
	TYPE_SEMICOLON      = ';'
	TYPE_TSQL           = 'T' /* TSQL start */
	TYPE_UNKNOWN        = '?'
	TYPE_EVIL           = 'X' /* unparsable, automatic ban */
	TYPE_FINGERPRINT    = 'F' /* not really a token: marks blacklist entries */
	TYPE_BACKSLASH      = '\\'

	/* chars */
	CHAR_NULL   = 0x00
	CHAR_SINGLE = '\''
	CHAR_DOUBLE = '"'
	CHAR_TICK   = '`'

	/* a fingerprint holds at most this many type codes */
	SQLI_MAX_TOKENS = 5
	/* hard capacity of the fingerprint buffer, the historical ABI contract */
	SQLI_FINGERPRINT_SIZE = 8

	sqli_tokenvec_size = 8
)

/*
 * fold tokenizes and folds the stream down to at most SQLI_MAX_TOKENS
 * tokens, returning how many tokens form the fingerprint. Folding rules
 * collapse syntactically redundant runs ("1+2+3" is just a number,
 * "((" is "(") so that fingerprints are stable across literal values.
 *
 * The error return is the internal-invariant backstop: it fires only if
 * the tokenizer stops advancing or a fold rule violates its own position
 * arithmetic, and is converted to ResultError at the public boundary.
 */
func (st *sqli_state) fold() (int, error) {
	pos := 0  /* position where the NEXT token goes */
	left := 0 /* count of tokens so far that will be part of the final fingerprint */
	more := true
	var err error

	last_comment := newToken(TYPE_NONE, 0, 0, "") /* a comment token to add additional info */

	/* skip stuff we don't need to look at: leading comments, parens, unary ops */
	for more {
		more, err = st.tokenize()
		if err != nil {
			return 0, err
		}
		if !(st.tokenvec[st.current].Type == TYPE_COMMENT ||
			st.tokenvec[st.current].Type == TYPE_LEFTPARENS ||
			st.tokenvec[st.current].Type == TYPE_SQLTYPE ||
			st.tokenvec[st.current].is_unary_op()) {
			break
		}
	}

	if !more {
		return 0, nil
	}
	pos++

	for {
		/*
		 * do we have the max number of tokens? if so, check the special
		 * cases of 5 tokens that fold from both ends
		 */
		if pos >= SQLI_MAX_TOKENS {
			if (st.tokenvec[0].Type == TYPE_NUMBER &&
				(st.tokenvec[1].Type == TYPE_OPERATOR || st.tokenvec[1].Type == TYPE_COMMA) &&
				st.tokenvec[2].Type == TYPE_LEFTPARENS &&
				st.tokenvec[3].Type == TYPE_NUMBER &&
				st.tokenvec[4].Type == TYPE_RIGHTPARENS) ||
				(st.tokenvec[0].Type == TYPE_BAREWORD &&
					st.tokenvec[1].Type == TYPE_OPERATOR &&
					st.tokenvec[2].Type == TYPE_LEFTPARENS &&
					(st.tokenvec[3].Type == TYPE_BAREWORD || st.tokenvec[3].Type == TYPE_NUMBER) &&
					st.tokenvec[4].Type == TYPE_RIGHTPARENS) ||
				(st.tokenvec[0].Type == TYPE_NUMBER &&
					st.tokenvec[1].Type == TYPE_RIGHTPARENS &&
					st.tokenvec[2].Type == TYPE_COMMA &&
					st.tokenvec[3].Type == TYPE_LEFTPARENS &&
					st.tokenvec[4].Type == TYPE_NUMBER) ||
				(st.tokenvec[0].Type == TYPE_BAREWORD &&
					st.tokenvec[1].Type == TYPE_RIGHTPARENS &&
					st.tokenvec[2].Type == TYPE_OPERATOR &&
					st.tokenvec[3].Type == TYPE_LEFTPARENS &&
					st.tokenvec[4].Type == TYPE_BAREWORD) {
				if pos > SQLI_MAX_TOKENS {
					st.tokenvec[1] = st.tokenvec[SQLI_MAX_TOKENS]
					pos = 2
					left = 0
				} else {
					pos = 1
					left = 0
				}
			}
		}

		/* if all input is checked, or the fingerprint is full, stop */
		if !more || left >= SQLI_MAX_TOKENS {
			left = pos
			break
		}

		/* get up to two tokens */
		for more && pos <= SQLI_MAX_TOKENS && pos-left < 2 {
			st.current = pos
			more, err = st.tokenize()
			if err != nil {
				return 0, err
			}
			if more {
				if st.tokenvec[st.current].Type == TYPE_COMMENT {
					last_comment = st.tokenvec[st.current]
				} else {
					last_comment.Type = TYPE_NONE
					pos++
				}
			}
		}

		/*
		 * if we didn't get at least two tokens it means we either
		 * processed all of the input or added the last token;
		 * start over
		 */
		if pos-left < 2 {
			left = pos
			continue
		}

		/* two-token folding */
		if st.tokenvec[left].Type == TYPE_STRING && st.tokenvec[left+1].Type == TYPE_STRING {
			pos--
			st.stats_folds++
			continue
		} else if st.tokenvec[left].Type == TYPE_SEMICOLON && st.tokenvec[left+1].Type == TYPE_SEMICOLON {
			/* fold away repeated semicolons: ";;" to ";" */
			pos--
			st.stats_folds++
			continue
		} else if st.tokenvec[left].Type == TYPE_SEMICOLON &&
			st.tokenvec[left+1].Type == TYPE_FUNCTION &&
			strings.EqualFold(st.tokenvec[left+1].val, "IF") {
			/* IF after a statement separator is TSQL flow control */
			st.tokenvec[left+1].Type = TYPE_TSQL
			left += 2
			continue
		} else if (st.tokenvec[left].Type == TYPE_OPERATOR || st.tokenvec[left].Type == TYPE_LOGIC_OPERATOR) &&
			(st.tokenvec[left+1].is_unary_op() || st.tokenvec[left+1].Type == TYPE_SQLTYPE) {
			pos--
			st.stats_folds++
			left = 0
			continue
		} else if st.tokenvec[left].Type == TYPE_LEFTPARENS && st.tokenvec[left+1].is_unary_op() {
			pos--
			st.stats_folds++
			if left > 0 {
				left--
			}
			continue
		} else if st.tokenvec[left].syntax_merge_words(st, left, st.tokenvec[left+1], left+1) {
			pos--
			st.stats_folds++
			if left > 0 {
				left--
			}
			continue
		} else if (st.tokenvec[left].Type == TYPE_BAREWORD || st.tokenvec[left].Type == TYPE_VARIABLE) &&
			st.tokenvec[left+1].Type == TYPE_LEFTPARENS &&
			/* TSQL functions, but common enough to be column names */
			(strings.EqualFold(st.tokenvec[left].val, "USER_ID") ||
				strings.EqualFold(st.tokenvec[left].val, "USER_NAME") ||

				/* functions in MySQL */
				strings.EqualFold(st.tokenvec[left].val, "DATABASE") ||
				strings.EqualFold(st.tokenvec[left].val, "PASSWORD") ||
				strings.EqualFold(st.tokenvec[left].val, "USER") ||

				/* TSQL fake variables that are also functions */
				strings.EqualFold(st.tokenvec[left].val, "CURRENT_USER") ||
				strings.EqualFold(st.tokenvec[left].val, "CURRENT_DATE") ||
				strings.EqualFold(st.tokenvec[left].val, "CURRENT_TIME") ||
				strings.EqualFold(st.tokenvec[left].val, "CURRENT_TIMESTAMP") ||
				strings.EqualFold(st.tokenvec[left].val, "LOCALTIME") ||
				strings.EqualFold(st.tokenvec[left].val, "LOCALTIMESTAMP")) {
			st.tokenvec[left].Type = TYPE_FUNCTION
			continue
		} else if st.tokenvec[left].Type == TYPE_KEYWORD &&
			(strings.EqualFold(st.tokenvec[left].val, "IN") ||
				strings.EqualFold(st.tokenvec[left].val, "NOT IN")) {
			if st.tokenvec[left+1].Type == TYPE_LEFTPARENS {
				/* got "IN (" — it's an operator */
				st.tokenvec[left].Type = TYPE_OPERATOR
			} else {
				/* it's a nothing */
				st.tokenvec[left].Type = TYPE_BAREWORD
			}
			continue
		} else if st.tokenvec[left].Type == TYPE_OPERATOR &&
			(strings.EqualFold(st.tokenvec[left].val, "LIKE") ||
				strings.EqualFold(st.tokenvec[left].val, "NOT LIKE")) {
			if st.tokenvec[left+1].Type == TYPE_LEFTPARENS {
				/* SELECT LIKE(... it's a function */
				st.tokenvec[left].Type = TYPE_FUNCTION
			}
		} else if st.tokenvec[left].Type == TYPE_SQLTYPE &&
			(st.tokenvec[left+1].Type == TYPE_BAREWORD ||
				st.tokenvec[left+1].Type == TYPE_NUMBER ||
				st.tokenvec[left+1].Type == TYPE_SQLTYPE ||
				st.tokenvec[left+1].Type == TYPE_LEFTPARENS ||
				st.tokenvec[left+1].Type == TYPE_FUNCTION ||
				st.tokenvec[left+1].Type == TYPE_VARIABLE ||
				st.tokenvec[left+1].Type == TYPE_STRING) {
			/* a cast precedes a value: the value wins */
			st.tokenvec[left] = st.tokenvec[left+1]
			pos--
			st.stats_folds++
			left = 0
			continue
		} else if st.tokenvec[left].Type == TYPE_COLLATE && st.tokenvec[left+1].Type == TYPE_BAREWORD {
			/*
			 * there are too many collation types; if the bareword has
			 * a "_" it's TYPE_SQLTYPE
			 */
			if strings.IndexByte(st.tokenvec[left+1].val, '_') != -1 {
				st.tokenvec[left+1].Type = TYPE_SQLTYPE
				left = 0
			}
		} else if st.tokenvec[left].Type == TYPE_BACKSLASH {
			if st.tokenvec[left+1].is_arithmetic_op() {
				/* very weird case in TSQL where '\%1' is parsed as '0 % 1' */
				st.tokenvec[left].Type = TYPE_NUMBER
			} else {
				/* TSQL seems to parse \1 as "1" */
				st.tokenvec[left] = st.tokenvec[left+1]
				pos--
				st.stats_folds++
			}
			left = 0
			continue
		} else if st.tokenvec[left].Type == TYPE_LEFTPARENS && st.tokenvec[left+1].Type == TYPE_LEFTPARENS {
			pos--
			left = 0
			st.stats_folds++
			continue
		} else if st.tokenvec[left].Type == TYPE_RIGHTPARENS && st.tokenvec[left+1].Type == TYPE_RIGHTPARENS {
			pos--
			left = 0
			st.stats_folds++
			continue
		} else if st.tokenvec[left].Type == TYPE_LEFTBRACE && st.tokenvec[left+1].Type == TYPE_BAREWORD {
			/*
			 * MySQL degenerate case: "select { ``.``.id }" is valid,
			 * so "{ `` " is blacklisted outright. The ODBC/MySQL
			 * "{foo expr}" form just strips the "{ foo" part.
			 */
			if st.tokenvec[left+1].Len == 0 {
				st.tokenvec[left+1].Type = TYPE_EVIL
				return left + 2, nil
			}
			left = 0
			pos -= 2
			st.stats_folds += 2
			continue
		} else if st.tokenvec[left+1].Type == TYPE_RIGHTBRACE {
			pos--
			left = 0
			st.stats_folds++
			continue
		}

		/*
		 * all cases of handling 2 tokens are done, and nothing
		 * matched; get one more token
		 */
		for more && pos <= SQLI_MAX_TOKENS && pos-left < 3 {
			st.current = pos
			more, err = st.tokenize()
			if err != nil {
				return 0, err
			}
			if more {
				if st.tokenvec[st.current].Type == TYPE_COMMENT {
					last_comment = st.tokenvec[st.current]
				} else {
					last_comment.Type = TYPE_NONE
					pos++
				}
			}
		}

		/* if we didn't get three tokens, start over */
		if pos-left < 3 {
			left = pos
			continue
		}

		/* three-token folding */
		if st.tokenvec[left].Type == TYPE_NUMBER &&
			st.tokenvec[left+1].Type == TYPE_OPERATOR &&
			st.tokenvec[left+2].Type == TYPE_NUMBER {
			pos -= 2
			left = 0
			continue
		} else if st.tokenvec[left].Type == TYPE_OPERATOR &&
			st.tokenvec[left+1].Type != TYPE_LEFTPARENS &&
			st.tokenvec[left+2].Type == TYPE_OPERATOR {
			left = 0
			pos -= 2
			continue
		} else if st.tokenvec[left].Type == TYPE_LOGIC_OPERATOR &&
			st.tokenvec[left+2].Type == TYPE_LOGIC_OPERATOR {
			pos -= 2
			left = 0
			continue
		} else if st.tokenvec[left].Type == TYPE_VARIABLE &&
			st.tokenvec[left+1].Type == TYPE_OPERATOR &&
			(st.tokenvec[left+2].Type == TYPE_VARIABLE ||
				st.tokenvec[left+2].Type == TYPE_NUMBER ||
				st.tokenvec[left+2].Type == TYPE_BAREWORD) {
			pos -= 2
			left = 0
			continue
		} else if (st.tokenvec[left].Type == TYPE_BAREWORD || st.tokenvec[left].Type == TYPE_NUMBER) &&
			st.tokenvec[left+1].Type == TYPE_OPERATOR &&
			(st.tokenvec[left+2].Type == TYPE_NUMBER || st.tokenvec[left+2].Type == TYPE_BAREWORD) {
			pos -= 2
			left = 0
			continue
		} else if (st.tokenvec[left].Type == TYPE_BAREWORD ||
			st.tokenvec[left].Type == TYPE_NUMBER ||
			st.tokenvec[left].Type == TYPE_VARIABLE ||
			st.tokenvec[left].Type == TYPE_STRING) &&
			st.tokenvec[left+1].Type == TYPE_OPERATOR &&
			st.tokenvec[left+1].val == "::" &&
			st.tokenvec[left+2].Type == TYPE_SQLTYPE {
			/* pgsql cast: value::type folds to the value */
			pos -= 2
			left = 0
			st.stats_folds += 2
			continue
		} else if (st.tokenvec[left].Type == TYPE_BAREWORD ||
			st.tokenvec[left].Type == TYPE_NUMBER ||
			st.tokenvec[left].Type == TYPE_STRING ||
			st.tokenvec[left].Type == TYPE_VARIABLE) &&
			st.tokenvec[left+1].Type == TYPE_COMMA &&
			(st.tokenvec[left+2].Type == TYPE_NUMBER ||
				st.tokenvec[left+2].Type == TYPE_BAREWORD ||
				st.tokenvec[left+2].Type == TYPE_STRING ||
				st.tokenvec[left+2].Type == TYPE_VARIABLE) {
			pos -= 2
			left = 0
			continue
		} else if (st.tokenvec[left].Type == TYPE_EXPRESSION ||
			st.tokenvec[left].Type == TYPE_GROUP ||
			st.tokenvec[left].Type == TYPE_COMMA) &&
			st.tokenvec[left+1].is_unary_op() &&
			st.tokenvec[left+2].Type == TYPE_LEFTPARENS {
			/* got something like "SELECT + (" or "LIMIT + (": remove the unary operator */
			st.tokenvec[left+1] = st.tokenvec[left+2]
			pos--
			left = 0
			continue
		} else if (st.tokenvec[left].Type == TYPE_KEYWORD ||
			st.tokenvec[left].Type == TYPE_EXPRESSION ||
			st.tokenvec[left].Type == TYPE_GROUP) &&
			st.tokenvec[left+1].is_unary_op() &&
			(st.tokenvec[left+2].Type == TYPE_NUMBER ||
				st.tokenvec[left+2].Type == TYPE_BAREWORD ||
				st.tokenvec[left+2].Type == TYPE_VARIABLE ||
				st.tokenvec[left+2].Type == TYPE_STRING ||
				st.tokenvec[left+2].Type == TYPE_FUNCTION) {
			/* remove unary operators: "select -1" */
			st.tokenvec[left+1] = st.tokenvec[left+2]
			pos--
			left = 0
			continue
		} else if st.tokenvec[left].Type == TYPE_COMMA &&
			st.tokenvec[left+1].is_unary_op() &&
			(st.tokenvec[left+2].Type == TYPE_NUMBER ||
				st.tokenvec[left+2].Type == TYPE_BAREWORD ||
				st.tokenvec[left+2].Type == TYPE_VARIABLE ||
				st.tokenvec[left+2].Type == TYPE_STRING) {
			/*
			 * turn ", -1" into ",1", and back up one token to see if
			 * more folding can be done: "1,-1" --> "1"
			 */
			st.tokenvec[left+1] = st.tokenvec[left+2]
			left = 0
			if pos < 3 {
				return 0, fmt.Errorf("fold position %d below rule arity", pos)
			}
			pos -= 3
			continue
		} else if st.tokenvec[left].Type == TYPE_COMMA &&
			st.tokenvec[left+1].is_unary_op() &&
			st.tokenvec[left+2].Type == TYPE_FUNCTION {
			/*
			 * separate case from above since "1,-sin(1)" ends up as
			 * "1,sin(1)", not "1 (1)": just remove the unary operator
			 */
			st.tokenvec[left+1] = st.tokenvec[left+2]
			pos--
			left = 0
			continue
		} else if st.tokenvec[left].Type == TYPE_BAREWORD &&
			st.tokenvec[left+1].Type == TYPE_DOT &&
			st.tokenvec[left+2].Type == TYPE_BAREWORD {
			/* ignore the ".n": typically this is databasename.table */
			if pos < 3 {
				return 0, fmt.Errorf("fold position %d below rule arity", pos)
			}
			pos -= 2
			left = 0
			continue
		} else if st.tokenvec[left].Type == TYPE_EXPRESSION &&
			st.tokenvec[left+1].Type == TYPE_DOT &&
			st.tokenvec[left+2].Type == TYPE_BAREWORD {
			/* "select . `foo`" --> "select `foo`" */
			st.tokenvec[left+1] = st.tokenvec[left+2]
			pos--
			left = 0
			continue
		} else if st.tokenvec[left].Type == TYPE_FUNCTION &&
			st.tokenvec[left+1].Type == TYPE_LEFTPARENS &&
			st.tokenvec[left+2].Type != TYPE_RIGHTPARENS {
			/*
			 * USER() has 0 args; if we get USER(foo) then USER is not
			 * a function. This eliminates a lot of false positives.
			 */
			if strings.EqualFold(st.tokenvec[left].val, "USER") {
				st.tokenvec[left].Type = TYPE_BAREWORD
			}
		}

		/*
		 * assume the left-most token is good; use the existing two
		 * tokens, do not get another
		 */
		left++
	}

	/*
	 * if we have 4 or fewer tokens and a comment token was at the end,
	 * add it back
	 */
	if left < SQLI_MAX_TOKENS && last_comment.Type == TYPE_COMMENT {
		st.tokenvec[left] = last_comment
		left++
	}

	/* sometimes a 6th token is grabbed to help type the 5th */
	if left > SQLI_MAX_TOKENS {
		left = SQLI_MAX_TOKENS
	}

	return left, nil
}

/*
 * fingerprint_input tokenizes and folds the input under the state's
 * dialect profile and stores the resulting fingerprint on the state.
 */
func (st *sqli_state) fingerprint_input() error {
	fplen, err := st.fold()
	if err != nil {
		return err
	}

	/*
	 * check for the magic PHP backquote comment: if the last token is
	 * an empty bareword opened by a backtick and never closed, it's
	 * really a comment
	 */
	if fplen > 2 &&
		st.tokenvec[fplen-1].Type == TYPE_BAREWORD &&
		st.tokenvec[fplen-1].str_open == CHAR_TICK &&
		st.tokenvec[fplen-1].Len == 0 &&
		st.tokenvec[fplen-1].str_close == CHAR_NULL {
		st.tokenvec[fplen-1].Type = TYPE_COMMENT
	}

	fp := strings.Builder{}
	for i := 0; i < fplen; i++ {
		fp.WriteByte(st.tokenvec[i].Type)
	}
	st.fingerprint = fp.String()

	/*
	 * an 'X' in the pattern means parsing could not be done accurately
	 * (pgsql double comments, MySQL conditional comments): clear out
	 * all tokens and ban the whole input
	 */
	if strings.IndexByte(st.fingerprint, TYPE_EVIL) != -1 {
		st.fingerprint = string(rune(TYPE_EVIL))
		st.tokenvec = [sqli_tokenvec_size]*Token{newToken(TYPE_EVIL, 0, 0, string(rune(TYPE_EVIL)))}
	}
	return nil
}

func (st *sqli_state) blacklisted() bool {
	fp := st.fingerprint
	return len(fp) > 0 && st.words[strings.ToUpper(fp)] == TYPE_FINGERPRINT
}

/*
 * not_whitelist reduces false positives after a blacklist hit. It
 * returns true if the match should stand.
 */
func (st *sqli_state) not_whitelist() bool {
	fingerprint := st.fingerprint
	tlen := len(fingerprint)

	if tlen > 1 && fingerprint[tlen-1] == TYPE_COMMENT {
		/*
		 * if the ending comment contains 'sp_password' it's SQLi:
		 * the MS Audit log apparently ignores anything with
		 * 'sp_password' in it, a known SQLi technique
		 */
		if strings.Contains(st.s, "sp_password") {
			return true
		}
	}

	switch tlen {
	case 2:
		/*
		 * "very small" SQLi: hard to tell from normal input
		 */
		if fingerprint[1] == TYPE_UNION {
			/*
			 * "1 union" might be normal input when it really is just
			 * a number and the word union; match only if folding or
			 * comments were involved
			 */
			return st.stats_tokens != 2
		}

		if len(st.tokenvec[1].val) == 0 {
			return false
		}

		/* if the 'comment' is '#' ignore: too many false positives */
		if st.tokenvec[1].val[0] == '#' {
			return false
		}

		/*
		 * for fingerprint "nc" only '/x' comments count as SQL;
		 * ending comments of "--" and "#" are not SQLi
		 */
		if st.tokenvec[0].Type == TYPE_BAREWORD &&
			st.tokenvec[1].Type == TYPE_COMMENT &&
			st.tokenvec[1].val[0] != '/' {
			return false
		}

		/* if "1c" ends with '/x' it's SQLi */
		if st.tokenvec[0].Type == TYPE_NUMBER &&
			st.tokenvec[1].Type == TYPE_COMMENT &&
			st.tokenvec[1].val[0] == '/' {
			return true
		}

		/*
		 * there are odd base64-looking query string values like
		 * "1234-ABCDEFG--" which evaluate to "1c" but are not SQLi.
		 * "1234--" probably is. Check the -original- string since
		 * folding may have merged tokens ("1+FOO" folds into "1").
		 */
		if st.tokenvec[0].Type == TYPE_NUMBER &&
			st.tokenvec[1].Type == TYPE_COMMENT {
			if st.stats_tokens > 2 {
				/* folding happened, highly likely SQLi */
				return true
			}
			/*
			 * the next char after the number must be whitespace, '/x'
			 * or '--' for this to be SQLi
			 */
			idx := st.tokenvec[0].Len
			if idx >= st.slen {
				return true
			}
			ch := st.s[idx]
			if ch <= 32 {
				return true
			}
			if idx+1 < st.slen {
				if ch == '/' && st.s[idx+1] == '*' {
					return true
				}
				if ch == '-' && st.s[idx+1] == '-' {
					return true
				}
			}
			return false
		}

		/*
		 * detect obvious SQLi scans: many people put '--' in plain
		 * text, so only flag input that ends in '--' ("1--" but not
		 * "1-- foo")
		 */
		if st.tokenvec[1].Len > 2 && st.tokenvec[1].val[0] == '-' {
			return false
		}

	case 3:
		/*
		 * "...foo' + 'bar..." — no opening quote, no closing quote,
		 * and each string has data
		 */
		if fingerprint == "sos" || fingerprint == "s&s" {
			if st.tokenvec[0].str_open == CHAR_NULL &&
				st.tokenvec[2].str_close == CHAR_NULL &&
				st.tokenvec[0].str_close == st.tokenvec[2].str_open {
				/* "...foo" + "bar..." */
				return true
			}
			if st.stats_tokens == 3 {
				return false
			}
			return false
		} else if fingerprint == "s&n" || fingerprint == "n&1" ||
			fingerprint == "1&1" || fingerprint == "1&v" || fingerprint == "1&s" {
			/*
			 * 'sexy and 17'    not SQLi
			 * 'sexy and 17<18' SQLi
			 */
			if st.stats_tokens == 3 {
				return false
			}
		} else if st.tokenvec[1].Type == TYPE_KEYWORD {
			keyword := strings.ToUpper(st.tokenvec[1].val)
			if st.tokenvec[1].Len < 5 ||
				(keyword != "INTO OUTFILE" && keyword != "INTO DUMPFILE") {
				/* if it's not "INTO OUTFILE" / "INTO DUMPFILE" (MySQL) treat as safe */
				return false
			}
		}

	case 4:
		if fingerprint == "novc" || fingerprint == "1ovc" {
			/* the case where a user enters "!@#" in a password field */
			if st.tokenvec[1].val == "!" &&
				st.tokenvec[2].Len == 0 &&
				len(st.tokenvec[3].val) > 0 &&
				st.tokenvec[3].val[0] == '#' {
				return false
			}
		}

	case 5:
		/* nothing right now */
	}

	return true
}

/*
 * check_fingerprint classifies the state's fingerprint. The error return
 * is the matcher's capacity backstop: a fingerprint longer than
 * SQLI_FINGERPRINT_SIZE cannot be produced by a correct fold pass.
 */
func (st *sqli_state) check_fingerprint() (bool, error) {
	if len(st.fingerprint) > SQLI_FINGERPRINT_SIZE {
		return false, fmt.Errorf("fingerprint %q exceeds capacity %d", st.fingerprint, SQLI_FINGERPRINT_SIZE)
	}
	return st.blacklisted() && st.not_whitelist(), nil
}

/*
 * detect_sqli runs the full multi-profile pipeline: the input is tested
 * as-is under ANSI rules, reparsed under MySQL rules when comment stats
 * suggest it, and retried in single- and double-quote contexts when the
 * input contains those quotes — the same bytes can be different SQL
 * depending on the target database, so all supported dialects are
 * checked before settling on a verdict.
 *
 * The returned fingerprint is from the matching profile on a match,
 * otherwise from the as-is pass; it is populated whenever tokenization
 * succeeds, independent of verdict, for caller-side logging and tuning.
 */
func detect_sqli(s string, words map[string]byte) (Result, string) {
	if len(s) == 0 {
		return ResultNone, ""
	}

	run := func(flags int) (*sqli_state, bool, error) {
		st := new_sqli_state(s, words, flags)
		if err := st.fingerprint_input(); err != nil {
			return nil, false, err
		}
		match, err := st.check_fingerprint()
		return st, match, err
	}

	/* test input as-is */
	st, match, err := run(FLAG_QUOTE_NONE | FLAG_SQL_ANSI)
	if err != nil {
		return ResultError, ""
	}
	fp := st.fingerprint
	if match {
		return ResultMatch, fp
	}
	if st.reparse_as_mysql() {
		st2, match, err := run(FLAG_QUOTE_NONE | FLAG_SQL_MYSQL)
		if err != nil {
			return ResultError, fp
		}
		if match {
			return ResultMatch, st2.fingerprint
		}
	}

	/*
	 * if the input contains a single quote, pretend it starts with one:
	 * "admin' OR 1=1--" is tested as "'admin' OR 1=1--"
	 */
	if strings.IndexByte(s, CHAR_SINGLE) != -1 {
		st2, match, err := run(FLAG_QUOTE_SINGLE | FLAG_SQL_ANSI)
		if err != nil {
			return ResultError, fp
		}
		if match {
			return ResultMatch, st2.fingerprint
		}
		if st2.reparse_as_mysql() {
			st3, match, err := run(FLAG_QUOTE_SINGLE | FLAG_SQL_MYSQL)
			if err != nil {
				return ResultError, fp
			}
			if match {
				return ResultMatch, st3.fingerprint
			}
		}
	}

	/* same as above with a double quote, which only MySQL honors for strings */
	if strings.IndexByte(s, CHAR_DOUBLE) != -1 {
		st2, match, err := run(FLAG_QUOTE_DOUBLE | FLAG_SQL_MYSQL)
		if err != nil {
			return ResultError, fp
		}
		if match {
			return ResultMatch, st2.fingerprint
		}
	}

	return ResultNone, fp
}
