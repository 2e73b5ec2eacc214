package libinjection

import "strings"

/* length of the initial segment of s containing none of the bytes in unaccepted */
func strlencspn(s string, unaccepted string) int {
	l := len(s)
	for i := 0; i < l; i++ {
		if strings.IndexByte(unaccepted, s[i]) != -1 {
			return i
		}
	}
	return l
}

/* length of the initial segment of s containing only bytes in accept */
func strlenspn(s string, accept string) int {
	l := len(s)
	for i := 0; i < l; i++ {
		if strings.IndexByte(accept, s[i]) == -1 {
			return i
		}
	}
	return l
}

func flag2delim(flag int) byte {
	if (flag & FLAG_QUOTE_SINGLE) != 0 {
		return CHAR_SINGLE
	} else if (flag & FLAG_QUOTE_DOUBLE) != 0 {
		return CHAR_DOUBLE
	}
	return CHAR_NULL
}

func is_double_delim_escaped(cur int, end int, s string) bool {
	return cur+1 < end && s[cur+1] == s[cur]
}

/*
 * "  \"   " one backslash = escaped!
 * " \\"   " two backslash = not escaped!
 * "\\\"   " three backslash = escaped!
 */
func is_backslash_escaped(end int, start int, s string) bool {
	i := end
	for i >= start {
		if s[i] != '\\' {
			break
		}
		i--
	}
	return (end-i)&1 == 1
}

/*
 * This detects MySQL conditional comments, comments that start with "/x!".
 * We just ban these now; previously we attempted to parse the inside.
 *
 * For reference: the form is /x![anything]x/ or /x!12345[anything]x/
 */
func is_mysql_comment(s string, l int, pos int) bool {
	/* so far... s[pos] == '/' && s[pos+1] == '*' */
	if pos+2 >= l {
		return false
	}
	return s[pos+2] == '!'
}

func char_is_white(ch byte) bool {
	/*
	 * ' '  0x20 space
	 * '\t' 0x09 horizontal tab
	 * '\n' 0x0a new line
	 * '\v' 0x0b vertical tab
	 * '\f' 0x0c new page
	 * '\r' 0x0d carriage return
	 *      0x00 null (oracle)
	 *      0xa0 Latin-1 non-breaking space
	 */
	switch ch {
	case 0x20, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x00, 0xa0:
		return true
	default:
		return false
	}
}

func char_is_alpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func char_is_digit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
