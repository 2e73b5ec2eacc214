package libinjection

/*
 * what a blacklisted attribute means for the value that follows it
 */
const (
	attr_type_none     = iota
	attr_type_black    /* value doesn't matter, the attribute is the attack */
	attr_type_attr_url /* value is a URL: check the scheme */
	attr_type_style
	attr_type_attr_indirect /* value is the name of another attribute */
)

var xss_black_tags = []string{
	"APPLET",
	"BASE",
	"COMMENT", /* IE conditional tag */
	"EMBED",
	"FRAME",
	"FRAMESET",
	"HANDLER", /* Opera SVG event handler */
	"IFRAME",
	"IMPORT",
	"ISINDEX",
	"LAYER",
	"LINK",
	"META",
	"OBJECT",
	"SCRIPT",
	"STYLE",
	"VMLFRAME",
	"XML",
	"XSS",
}

var xss_black_attrs = []struct {
	name  string
	atype int
}{
	{"ACTION", attr_type_attr_url},
	{"ATTRIBUTENAME", attr_type_attr_indirect}, /* SVG allow indirection of attribute names */
	{"BY", attr_type_attr_url},                 /* SVG */
	{"BACKGROUND", attr_type_attr_url},
	{"DATAFORMATAS", attr_type_black}, /* IE */
	{"DATASRC", attr_type_black},      /* IE */
	{"DYNSRC", attr_type_attr_url},
	{"FILTER", attr_type_style}, /* IE behavior filter */
	{"FORMACTION", attr_type_attr_url},
	{"FOLDER", attr_type_attr_url},
	{"FROM", attr_type_attr_url}, /* SVG */
	{"HANDLER", attr_type_attr_url},
	{"HREF", attr_type_attr_url},
	{"LOWSRC", attr_type_attr_url},
	{"POSTER", attr_type_attr_url},
	{"SRC", attr_type_attr_url},
	{"STYLE", attr_type_style},
	{"TO", attr_type_attr_url}, /* SVG */
	{"VALUES", attr_type_attr_url},
	{"XLINK:HREF", attr_type_attr_url},
}

/* URL schemes that execute script; the DATA prefix includes the mime type */
var xss_black_urls = []string{
	"JAVASCRIPT:",
	"VBSCRIPT:",
	"DATA:TEXT/HTML",
	"VIEW-SOURCE:",
}

func upcase_byte(ch byte) byte {
	if ch >= 'a' && ch <= 'z' {
		return ch - 0x20
	}
	return ch
}

/*
 * case-insensitive equality against an uppercase pattern, skipping
 * embedded NUL bytes in the candidate the way legacy IE parsing does
 */
func streq_with_null(pattern string, s string) bool {
	j := 0
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			continue
		}
		if j >= len(pattern) || upcase_byte(s[i]) != pattern[j] {
			return false
		}
		j++
	}
	return j == len(pattern)
}

/* same as streq_with_null, but the candidate may have trailing bytes */
func prefix_with_null(pattern string, s string) bool {
	j := 0
	for i := 0; i < len(s); i++ {
		if j == len(pattern) {
			return true
		}
		if s[i] == 0 {
			continue
		}
		if upcase_byte(s[i]) != pattern[j] {
			return false
		}
		j++
	}
	return j == len(pattern)
}

func is_black_tag(s string) bool {
	if len(s) < 3 {
		return false
	}
	for _, tag := range xss_black_tags {
		if streq_with_null(tag, s) {
			return true
		}
	}
	/* anything SVG-related */
	if upcase_byte(s[0]) == 'S' && upcase_byte(s[1]) == 'V' && upcase_byte(s[2]) == 'G' {
		return true
	}
	return false
}

func is_black_attr(s string) int {
	if len(s) < 2 {
		return attr_type_none
	}
	if len(s) >= 5 {
		/* JavaScript event handlers: on* */
		if upcase_byte(s[0]) == 'O' && upcase_byte(s[1]) == 'N' {
			return attr_type_black
		}
		/* XMLNS or XLINK namespace tricks */
		if prefix := s[:5]; streq_with_null("XMLNS", prefix) || streq_with_null("XLINK", prefix) {
			return attr_type_black
		}
	}
	for _, attr := range xss_black_attrs {
		if streq_with_null(attr.name, s) {
			return attr.atype
		}
	}
	return attr_type_none
}

func is_black_url(s string) bool {
	/* skip leading control chars and whitespace */
	i := 0
	for i < len(s) && (s[i] <= 32 || s[i] >= 127) {
		i++
	}
	s = s[i:]
	for _, url := range xss_black_urls {
		if prefix_with_null(url, s) {
			return true
		}
	}
	return false
}

/*
 * is_xss scans the input tokenized from one starting context. A URL
 * attribute value that carries no script scheme is additionally run
 * through the SQL detector: href="..." and friends are second-order SQL
 * sinks as often as script sinks. Errors from either engine propagate
 * unchanged.
 */
func is_xss(s string, flags Html5Flags, words map[string]byte) Result {
	h := new_html5(s, flags)
	attr := attr_type_none

	for {
		more, err := h.next()
		if err != nil {
			return ResultError
		}
		if !more {
			return ResultNone
		}

		if h.TokenType != HTML5_TYPE_ATTR_VALUE {
			/* an attribute classification only applies to the very next value */
			if h.TokenType != HTML5_TYPE_ATTR_NAME {
				attr = attr_type_none
			}
		}

		switch h.TokenType {
		case HTML5_TYPE_DOCTYPE:
			/* no doctype belongs in a fragment of user input */
			return ResultMatch
		case HTML5_TYPE_TAG_NAME_OPEN:
			if is_black_tag(h.Token) {
				return ResultMatch
			}
		case HTML5_TYPE_ATTR_NAME:
			attr = is_black_attr(h.Token)
		case HTML5_TYPE_ATTR_VALUE:
			switch attr {
			case attr_type_black:
				return ResultMatch
			case attr_type_attr_url:
				if is_black_url(h.Token) {
					return ResultMatch
				}
				r, _ := detect_sqli(h.Token, words)
				if r != ResultNone {
					return r
				}
			case attr_type_style:
				return ResultMatch
			case attr_type_attr_indirect:
				if is_black_attr(h.Token) != attr_type_none {
					return ResultMatch
				}
			}
			attr = attr_type_none
		case HTML5_TYPE_TAG_COMMENT:
			token := h.Token
			/* IE uses a backtick as a tag-ending char */
			for i := 0; i < len(token); i++ {
				if token[i] == CHAR_TICK {
					return ResultMatch
				}
			}
			if len(token) > 3 {
				/* IE conditional comment: [if ... ] */
				if token[0] == '[' &&
					upcase_byte(token[1]) == 'I' &&
					upcase_byte(token[2]) == 'F' {
					return ResultMatch
				}
				/* XML processing instruction */
				if upcase_byte(token[0]) == 'X' &&
					upcase_byte(token[1]) == 'M' &&
					upcase_byte(token[2]) == 'L' {
					return ResultMatch
				}
			}
			if len(token) > 5 {
				/* IE <?import pseudo-tag, and XML entity definitions */
				if prefix := token[:6]; streq_with_null("IMPORT", prefix) || streq_with_null("ENTITY", prefix) {
					return ResultMatch
				}
			}
		}
	}
}

/*
 * detect_xss runs is_xss once per injection context; the first non-clean
 * verdict wins
 */
func detect_xss(s string, words map[string]byte) Result {
	contexts := []Html5Flags{
		HTML5_FLAGS_DATA_STATE,
		HTML5_FLAGS_VALUE_NO_QUOTE,
		HTML5_FLAGS_VALUE_SINGLE_QUOTE,
		HTML5_FLAGS_VALUE_DOUBLE_QUOTE,
		HTML5_FLAGS_VALUE_BACK_QUOTE,
	}
	for _, flags := range contexts {
		if r := is_xss(s, flags, words); r != ResultNone {
			return r
		}
	}
	return ResultNone
}
