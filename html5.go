package libinjection

import (
	"fmt"
	"strings"
)

/* html5 chars with special meaning to the tokenizer */
const (
	CHAR_EOF      = -1
	CHAR_BANG     = '!'
	CHAR_DASH     = '-'
	CHAR_EQUALS   = '='
	CHAR_GT       = '>'
	CHAR_LT       = '<'
	CHAR_PERCENT  = '%'
	CHAR_QUESTION = '?'
	CHAR_RIGHTB   = ']'
	CHAR_SLASH    = '/'
)

/*
 * token types produced by the html5 tokenizer. TAG_DATA is never emitted;
 * it stays in the list so the numbering of the later types matches the
 * historical token-type enum.
 */
const (
	HTML5_TYPE_DATA_TEXT = iota
	HTML5_TYPE_TAG_NAME_OPEN
	HTML5_TYPE_TAG_NAME_CLOSE
	HTML5_TYPE_TAG_NAME_SELFCLOSE
	HTML5_TYPE_TAG_DATA
	HTML5_TYPE_TAG_CLOSE
	HTML5_TYPE_ATTR_NAME
	HTML5_TYPE_ATTR_VALUE
	HTML5_TYPE_TAG_COMMENT
	HTML5_TYPE_DOCTYPE
)

/*
 * starting contexts: where in an HTML document the input is assumed to be
 * injected. Server-side we never see the surrounding page, so the same
 * bytes are scanned once per plausible context.
 */
type Html5Flags int

const (
	HTML5_FLAGS_DATA_STATE Html5Flags = iota
	HTML5_FLAGS_VALUE_NO_QUOTE
	HTML5_FLAGS_VALUE_SINGLE_QUOTE
	HTML5_FLAGS_VALUE_DOUBLE_QUOTE
	HTML5_FLAGS_VALUE_BACK_QUOTE
)

/*
 * the parser states form a closed set: every transition lands on one of
 * these, and the dispatch loop in next() treats anything else as an
 * internal error rather than guessing
 */
const (
	h5_state_eof = iota
	h5_state_data
	h5_state_tag_open
	h5_state_end_tag_open
	h5_state_tag_name
	h5_state_tag_name_close
	h5_state_self_closing_start_tag
	h5_state_before_attribute_name
	h5_state_attribute_name
	h5_state_after_attribute_name
	h5_state_before_attribute_value
	h5_state_attribute_value_double_quote
	h5_state_attribute_value_single_quote
	h5_state_attribute_value_back_quote
	h5_state_attribute_value_no_quote
	h5_state_after_attribute_value_quoted
	h5_state_markup_declaration_open
	h5_state_comment
	h5_state_cdata
	h5_state_doctype
	h5_state_bogus_comment
	h5_state_bogus_comment2
)

type Html5 struct {
	s    string
	slen int
	pos  int

	state    int
	is_close bool /* inside an end tag: "</foo" */

	/* last token produced by next() */
	Token     string
	TokenType int
}

/*
 * NewHtml5 builds a tokenizer over input, assumed injected at the
 * position in an HTML document described by flags.
 */
func NewHtml5(input []byte, flags Html5Flags) *Html5 {
	return new_html5(string(input), flags)
}

/*
 * Next advances to the next token, exposed in the Token and TokenType
 * fields. ResultMatch means a token is available, ResultNone means the
 * input is exhausted, ResultError means the state machine detected an
 * internal inconsistency (unreachable under correct operation).
 */
func (h *Html5) Next() Result {
	more, err := h.next()
	if err != nil {
		return ResultError
	}
	if more {
		return ResultMatch
	}
	return ResultNone
}

func new_html5(s string, flags Html5Flags) *Html5 {
	h := &Html5{
		s:    s,
		slen: len(s),
	}
	switch flags {
	case HTML5_FLAGS_DATA_STATE:
		h.state = h5_state_data
	case HTML5_FLAGS_VALUE_NO_QUOTE:
		h.state = h5_state_before_attribute_name
	case HTML5_FLAGS_VALUE_SINGLE_QUOTE:
		h.state = h5_state_attribute_value_single_quote
	case HTML5_FLAGS_VALUE_DOUBLE_QUOTE:
		h.state = h5_state_attribute_value_double_quote
	case HTML5_FLAGS_VALUE_BACK_QUOTE:
		h.state = h5_state_attribute_value_back_quote
	default:
		h.state = h5_state_data
	}
	return h
}

/*
 * a single token (tag name, attribute buffer) never exceeds this many
 * bytes; longer runs are truncated, input consumption is unaffected
 */
const h5_max_token_len = 4096

func (h *Html5) emit(start int, l int, ttype int) bool {
	if l > h5_max_token_len {
		l = h5_max_token_len
	}
	h.Token = h.s[start : start+l]
	h.TokenType = ttype
	return true
}

func h5_is_white(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

/* advance past whitespace, returning the current char or CHAR_EOF */
func (h *Html5) skip_white() int {
	for h.pos < h.slen {
		ch := h.s[h.pos]
		if h5_is_white(ch) {
			h.pos++
			continue
		}
		return int(ch)
	}
	return CHAR_EOF
}

/*
 * next advances to the next token. It returns false with a nil error when
 * the input is exhausted.
 *
 * Each state handler either emits a token (handled here by returning
 * true), or transitions to another state and loops. Two backstops make
 * the parser total over all inputs: an unknown state value is reported as
 * an error instead of looping or guessing, and a dispatch that neither
 * consumed input nor changed state is reported as an error instead of
 * spinning. Neither fires for any reachable state; they convert a future
 * maintenance mistake into ResultError at the detector boundary.
 */
func (h *Html5) next() (bool, error) {
	for {
		if h.state == h5_state_eof {
			return false, nil
		}
		last_pos, last_state := h.pos, h.state

		var emitted bool
		switch h.state {
		case h5_state_data:
			emitted = h.state_data()
		case h5_state_tag_open:
			emitted = h.state_tag_open()
		case h5_state_end_tag_open:
			emitted = h.state_end_tag_open()
		case h5_state_tag_name:
			emitted = h.state_tag_name()
		case h5_state_tag_name_close:
			emitted = h.state_tag_name_close()
		case h5_state_self_closing_start_tag:
			emitted = h.state_self_closing_start_tag()
		case h5_state_before_attribute_name:
			emitted = h.state_before_attribute_name()
		case h5_state_attribute_name:
			emitted = h.state_attribute_name()
		case h5_state_after_attribute_name:
			emitted = h.state_after_attribute_name()
		case h5_state_before_attribute_value:
			emitted = h.state_before_attribute_value()
		case h5_state_attribute_value_double_quote:
			emitted = h.state_attribute_value_quote(CHAR_DOUBLE)
		case h5_state_attribute_value_single_quote:
			emitted = h.state_attribute_value_quote(CHAR_SINGLE)
		case h5_state_attribute_value_back_quote:
			emitted = h.state_attribute_value_quote(CHAR_TICK)
		case h5_state_attribute_value_no_quote:
			emitted = h.state_attribute_value_no_quote()
		case h5_state_after_attribute_value_quoted:
			emitted = h.state_after_attribute_value_quoted()
		case h5_state_markup_declaration_open:
			emitted = h.state_markup_declaration_open()
		case h5_state_comment:
			emitted = h.state_comment()
		case h5_state_cdata:
			emitted = h.state_cdata()
		case h5_state_doctype:
			emitted = h.state_doctype()
		case h5_state_bogus_comment:
			emitted = h.state_bogus_comment()
		case h5_state_bogus_comment2:
			emitted = h.state_bogus_comment2()
		default:
			return false, fmt.Errorf("html5 parser entered undefined state %d at offset %d", h.state, h.pos)
		}

		if emitted {
			return true, nil
		}
		if h.state == h5_state_eof {
			return false, nil
		}
		if h.pos == last_pos && h.state == last_state {
			return false, fmt.Errorf("html5 parser made no progress at offset %d in state %d", h.pos, h.state)
		}
	}
}

func (h *Html5) state_data() bool {
	idx := strings.IndexByte(h.s[h.pos:], CHAR_LT)
	if idx == -1 {
		start := h.pos
		l := h.slen - h.pos
		h.pos = h.slen
		h.state = h5_state_eof
		if l == 0 {
			return false
		}
		return h.emit(start, l, HTML5_TYPE_DATA_TEXT)
	}
	start := h.pos
	h.pos += idx + 1
	h.state = h5_state_tag_open
	if idx == 0 {
		/* no data to emit, move directly into the tag */
		return false
	}
	return h.emit(start, idx, HTML5_TYPE_DATA_TEXT)
}

func (h *Html5) state_tag_open() bool {
	if h.pos >= h.slen {
		h.state = h5_state_eof
		return false
	}
	ch := h.s[h.pos]
	switch {
	case ch == CHAR_BANG:
		h.pos++
		h.state = h5_state_markup_declaration_open
	case ch == CHAR_SLASH:
		h.pos++
		h.is_close = true
		h.state = h5_state_end_tag_open
	case ch == CHAR_QUESTION:
		h.pos++
		h.state = h5_state_bogus_comment
	case ch == CHAR_PERCENT:
		/* IE-only: <% ... %> */
		h.pos++
		h.state = h5_state_bogus_comment2
	case char_is_alpha(ch):
		h.state = h5_state_tag_name
	case ch == 0:
		/* IE-ism: NULL characters are ignored */
		h.state = h5_state_tag_name
	default:
		if h.pos == 0 {
			h.state = h5_state_data
			return false
		}
		/* '<' followed by junk: emit the '<' as text */
		h.state = h5_state_data
		return h.emit(h.pos-1, 1, HTML5_TYPE_DATA_TEXT)
	}
	return false
}

func (h *Html5) state_end_tag_open() bool {
	if h.pos >= h.slen {
		h.state = h5_state_eof
		return false
	}
	ch := h.s[h.pos]
	if ch == CHAR_GT {
		h.state = h5_state_data
	} else if char_is_alpha(ch) {
		h.state = h5_state_tag_name
	} else {
		h.is_close = false
		h.state = h5_state_bogus_comment
	}
	return false
}

func (h *Html5) state_tag_name() bool {
	pos := h.pos
	for pos < h.slen {
		ch := h.s[pos]
		if ch == 0 {
			/* special non-standard case: allow nulls in tag name */
			pos++
		} else if h5_is_white(ch) {
			start := h.pos
			l := pos - h.pos
			h.pos = pos + 1
			h.state = h5_state_before_attribute_name
			return h.emit(start, l, HTML5_TYPE_TAG_NAME_OPEN)
		} else if ch == CHAR_SLASH {
			start := h.pos
			l := pos - h.pos
			h.pos = pos + 1
			h.state = h5_state_self_closing_start_tag
			return h.emit(start, l, HTML5_TYPE_TAG_NAME_OPEN)
		} else if ch == CHAR_GT {
			start := h.pos
			l := pos - h.pos
			if h.is_close {
				h.pos = pos + 1
				h.is_close = false
				h.state = h5_state_data
				return h.emit(start, l, HTML5_TYPE_TAG_CLOSE)
			}
			/* stop before the '>' so it gets its own token */
			h.pos = pos
			h.state = h5_state_tag_name_close
			return h.emit(start, l, HTML5_TYPE_TAG_NAME_OPEN)
		} else {
			pos++
		}
	}
	start := h.pos
	l := h.slen - h.pos
	h.pos = h.slen
	h.state = h5_state_eof
	return h.emit(start, l, HTML5_TYPE_TAG_NAME_OPEN)
}

func (h *Html5) state_tag_name_close() bool {
	h.is_close = false
	start := h.pos
	h.pos++
	if h.pos < h.slen {
		h.state = h5_state_data
	} else {
		h.state = h5_state_eof
	}
	return h.emit(start, 1, HTML5_TYPE_TAG_NAME_CLOSE)
}

func (h *Html5) state_self_closing_start_tag() bool {
	if h.pos >= h.slen {
		h.state = h5_state_eof
		return false
	}
	if h.s[h.pos] == CHAR_GT {
		/* pos is past the '/' so pos-1 is always valid */
		start := h.pos - 1
		h.pos++
		h.state = h5_state_data
		return h.emit(start, 2, HTML5_TYPE_TAG_NAME_SELFCLOSE)
	}
	h.state = h5_state_before_attribute_name
	return false
}

func (h *Html5) state_before_attribute_name() bool {
	ch := h.skip_white()
	switch ch {
	case CHAR_EOF:
		h.state = h5_state_eof
		return false
	case CHAR_SLASH:
		h.pos++
		h.state = h5_state_self_closing_start_tag
		return false
	case CHAR_GT:
		start := h.pos
		h.pos++
		h.state = h5_state_data
		return h.emit(start, 1, HTML5_TYPE_TAG_NAME_CLOSE)
	default:
		h.state = h5_state_attribute_name
		return false
	}
}

func (h *Html5) state_attribute_name() bool {
	pos := h.pos + 1 /* current char is the start of the name */
	for pos < h.slen {
		ch := h.s[pos]
		if h5_is_white(ch) {
			start := h.pos
			l := pos - h.pos
			h.pos = pos + 1
			h.state = h5_state_after_attribute_name
			return h.emit(start, l, HTML5_TYPE_ATTR_NAME)
		} else if ch == CHAR_SLASH {
			start := h.pos
			l := pos - h.pos
			h.pos = pos + 1
			h.state = h5_state_self_closing_start_tag
			return h.emit(start, l, HTML5_TYPE_ATTR_NAME)
		} else if ch == CHAR_EQUALS {
			start := h.pos
			l := pos - h.pos
			h.pos = pos + 1
			h.state = h5_state_before_attribute_value
			return h.emit(start, l, HTML5_TYPE_ATTR_NAME)
		} else if ch == CHAR_GT {
			start := h.pos
			l := pos - h.pos
			h.pos = pos
			h.state = h5_state_tag_name_close
			return h.emit(start, l, HTML5_TYPE_ATTR_NAME)
		} else {
			pos++
		}
	}
	start := h.pos
	l := h.slen - h.pos
	h.pos = h.slen
	h.state = h5_state_eof
	return h.emit(start, l, HTML5_TYPE_ATTR_NAME)
}

func (h *Html5) state_after_attribute_name() bool {
	ch := h.skip_white()
	switch ch {
	case CHAR_EOF:
		h.state = h5_state_eof
		return false
	case CHAR_SLASH:
		h.pos++
		h.state = h5_state_self_closing_start_tag
		return false
	case CHAR_EQUALS:
		h.pos++
		h.state = h5_state_before_attribute_value
		return false
	case CHAR_GT:
		h.state = h5_state_tag_name_close
		return false
	default:
		h.state = h5_state_attribute_name
		return false
	}
}

func (h *Html5) state_before_attribute_value() bool {
	ch := h.skip_white()
	switch ch {
	case CHAR_EOF:
		h.state = h5_state_eof
		return false
	case int(CHAR_DOUBLE):
		h.state = h5_state_attribute_value_double_quote
	case int(CHAR_SINGLE):
		h.state = h5_state_attribute_value_single_quote
	case int(CHAR_TICK):
		/* non-standard IE */
		h.state = h5_state_attribute_value_back_quote
	default:
		h.state = h5_state_attribute_value_no_quote
	}
	return false
}

func (h *Html5) state_attribute_value_quote(qchar byte) bool {
	/*
	 * skip the initial quote, but only if inside a tag: pos == 0 means
	 * the tokenizer was started directly in a value context and the
	 * quote is not in the input
	 */
	if h.pos > 0 {
		h.pos++
	}
	idx := strings.IndexByte(h.s[h.pos:], qchar)
	if idx == -1 {
		start := h.pos
		l := h.slen - h.pos
		h.pos = h.slen
		h.state = h5_state_eof
		return h.emit(start, l, HTML5_TYPE_ATTR_VALUE)
	}
	start := h.pos
	h.pos += idx + 1
	h.state = h5_state_after_attribute_value_quoted
	return h.emit(start, idx, HTML5_TYPE_ATTR_VALUE)
}

func (h *Html5) state_attribute_value_no_quote() bool {
	pos := h.pos
	for pos < h.slen {
		ch := h.s[pos]
		if h5_is_white(ch) {
			start := h.pos
			l := pos - h.pos
			h.pos = pos + 1
			h.state = h5_state_before_attribute_name
			return h.emit(start, l, HTML5_TYPE_ATTR_VALUE)
		} else if ch == CHAR_GT {
			start := h.pos
			l := pos - h.pos
			h.pos = pos
			h.state = h5_state_tag_name_close
			return h.emit(start, l, HTML5_TYPE_ATTR_VALUE)
		}
		pos++
	}
	start := h.pos
	l := h.slen - h.pos
	h.pos = h.slen
	h.state = h5_state_eof
	return h.emit(start, l, HTML5_TYPE_ATTR_VALUE)
}

func (h *Html5) state_after_attribute_value_quoted() bool {
	if h.pos >= h.slen {
		h.state = h5_state_eof
		return false
	}
	ch := h.s[h.pos]
	if h5_is_white(ch) {
		h.pos++
		h.state = h5_state_before_attribute_name
	} else if ch == CHAR_SLASH {
		h.pos++
		h.state = h5_state_self_closing_start_tag
	} else if ch == CHAR_GT {
		start := h.pos
		h.pos++
		h.state = h5_state_data
		return h.emit(start, 1, HTML5_TYPE_TAG_NAME_CLOSE)
	} else {
		h.state = h5_state_before_attribute_name
	}
	return false
}

func (h *Html5) state_markup_declaration_open() bool {
	remaining := h.slen - h.pos
	if remaining >= 7 && strings.EqualFold(h.s[h.pos:h.pos+7], "DOCTYPE") {
		h.state = h5_state_doctype
	} else if remaining >= 7 && h.s[h.pos:h.pos+7] == "[CDATA[" {
		h.pos += 7
		h.state = h5_state_cdata
	} else if remaining >= 2 && h.s[h.pos] == CHAR_DASH && h.s[h.pos+1] == CHAR_DASH {
		h.pos += 2
		h.state = h5_state_comment
	} else {
		h.state = h5_state_bogus_comment
	}
	return false
}

func (h *Html5) state_comment() bool {
	pos := h.pos
	for {
		idx := strings.IndexByte(h.s[pos:], CHAR_DASH)
		/* not found, or not enough room left for "->" */
		if idx == -1 || pos+idx > h.slen-3 {
			start := h.pos
			l := h.slen - h.pos
			h.pos = h.slen
			h.state = h5_state_eof
			return h.emit(start, l, HTML5_TYPE_TAG_COMMENT)
		}
		dash := pos + idx

		/* skip nulls between the dash and the rest of the close marker */
		offset := 1
		for dash+offset < h.slen && h.s[dash+offset] == 0 {
			offset++
		}
		if dash+offset == h.slen {
			start := h.pos
			l := h.slen - h.pos
			h.pos = h.slen
			h.state = h5_state_eof
			return h.emit(start, l, HTML5_TYPE_TAG_COMMENT)
		}
		ch := h.s[dash+offset]
		if ch != CHAR_DASH && ch != CHAR_BANG {
			pos = dash + 1
			continue
		}
		offset++
		if dash+offset == h.slen {
			start := h.pos
			l := h.slen - h.pos
			h.pos = h.slen
			h.state = h5_state_eof
			return h.emit(start, l, HTML5_TYPE_TAG_COMMENT)
		}
		if h.s[dash+offset] != CHAR_GT {
			pos = dash + 1
			continue
		}
		offset++

		start := h.pos
		l := dash - h.pos
		h.pos = dash + offset
		h.state = h5_state_data
		return h.emit(start, l, HTML5_TYPE_TAG_COMMENT)
	}
}

func (h *Html5) state_cdata() bool {
	pos := h.pos
	for {
		idx := strings.IndexByte(h.s[pos:], CHAR_RIGHTB)
		if idx == -1 || pos+idx > h.slen-3 {
			start := h.pos
			l := h.slen - h.pos
			h.pos = h.slen
			h.state = h5_state_eof
			return h.emit(start, l, HTML5_TYPE_TAG_COMMENT)
		}
		rb := pos + idx
		if h.s[rb+1] == CHAR_RIGHTB && h.s[rb+2] == CHAR_GT {
			start := h.pos
			l := rb - h.pos
			h.pos = rb + 3
			h.state = h5_state_data
			return h.emit(start, l, HTML5_TYPE_TAG_COMMENT)
		}
		pos = rb + 1
	}
}

func (h *Html5) state_doctype() bool {
	start := h.pos
	idx := strings.IndexByte(h.s[h.pos:], CHAR_GT)
	if idx == -1 {
		l := h.slen - h.pos
		h.pos = h.slen
		h.state = h5_state_eof
		return h.emit(start, l, HTML5_TYPE_DOCTYPE)
	}
	h.pos += idx + 1
	h.state = h5_state_data
	return h.emit(start, idx, HTML5_TYPE_DOCTYPE)
}

func (h *Html5) state_bogus_comment() bool {
	start := h.pos
	idx := strings.IndexByte(h.s[h.pos:], CHAR_GT)
	if idx == -1 {
		l := h.slen - h.pos
		h.pos = h.slen
		h.state = h5_state_eof
		return h.emit(start, l, HTML5_TYPE_TAG_COMMENT)
	}
	h.pos += idx + 1
	h.state = h5_state_data
	return h.emit(start, idx, HTML5_TYPE_TAG_COMMENT)
}

func (h *Html5) state_bogus_comment2() bool {
	pos := h.pos
	for {
		idx := strings.IndexByte(h.s[pos:], CHAR_PERCENT)
		if idx == -1 || pos+idx+1 >= h.slen {
			start := h.pos
			l := h.slen - h.pos
			h.pos = h.slen
			h.state = h5_state_eof
			return h.emit(start, l, HTML5_TYPE_TAG_COMMENT)
		}
		pct := pos + idx
		if h.s[pct+1] != CHAR_GT {
			pos = pct + 1
			continue
		}
		start := h.pos
		l := pct - h.pos
		h.pos = pct + 2
		h.state = h5_state_data
		return h.emit(start, l, HTML5_TYPE_TAG_COMMENT)
	}
}
