package libinjection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type h5_token struct {
	ttype int
	val   string
}

func collect_tokens(t *testing.T, input string, flags Html5Flags) []h5_token {
	t.Helper()
	h := NewHtml5([]byte(input), flags)
	var out []h5_token
	for {
		r := h.Next()
		require.NotEqual(t, ResultError, r, "internal error tokenizing %q", input)
		if r == ResultNone {
			return out
		}
		out = append(out, h5_token{h.TokenType, h.Token})
	}
}

func TestHtml5BasicTag(t *testing.T) {
	assert.Equal(t, []h5_token{
		{HTML5_TYPE_TAG_NAME_OPEN, "img"},
		{HTML5_TYPE_ATTR_NAME, "src"},
		{HTML5_TYPE_ATTR_VALUE, "x"},
		{HTML5_TYPE_TAG_NAME_CLOSE, ">"},
	}, collect_tokens(t, "<img src=x>", HTML5_FLAGS_DATA_STATE))
}

func TestHtml5SelfClosingTag(t *testing.T) {
	assert.Equal(t, []h5_token{
		{HTML5_TYPE_TAG_NAME_OPEN, "foo"},
		{HTML5_TYPE_ATTR_NAME, "bar"},
		{HTML5_TYPE_ATTR_VALUE, "baz"},
		{HTML5_TYPE_TAG_NAME_SELFCLOSE, "/>"},
	}, collect_tokens(t, "<foo bar='baz'/>", HTML5_FLAGS_DATA_STATE))
}

func TestHtml5EndTag(t *testing.T) {
	assert.Equal(t, []h5_token{
		{HTML5_TYPE_DATA_TEXT, "a"},
		{HTML5_TYPE_TAG_CLOSE, "div"},
		{HTML5_TYPE_DATA_TEXT, "b"},
	}, collect_tokens(t, "a</div>b", HTML5_FLAGS_DATA_STATE))
}

func TestHtml5Comment(t *testing.T) {
	assert.Equal(t, []h5_token{
		{HTML5_TYPE_TAG_COMMENT, " hi "},
	}, collect_tokens(t, "<!-- hi -->", HTML5_FLAGS_DATA_STATE))
}

func TestHtml5Doctype(t *testing.T) {
	assert.Equal(t, []h5_token{
		{HTML5_TYPE_DOCTYPE, "DOCTYPE html"},
	}, collect_tokens(t, "<!DOCTYPE html>", HTML5_FLAGS_DATA_STATE))
}

func TestHtml5Cdata(t *testing.T) {
	assert.Equal(t, []h5_token{
		{HTML5_TYPE_TAG_COMMENT, "x"},
		{HTML5_TYPE_DATA_TEXT, "after"},
	}, collect_tokens(t, "<![CDATA[x]]>after", HTML5_FLAGS_DATA_STATE))
}

func TestHtml5BogusComment(t *testing.T) {
	assert.Equal(t, []h5_token{
		{HTML5_TYPE_TAG_COMMENT, "php echo"},
		{HTML5_TYPE_DATA_TEXT, "x"},
	}, collect_tokens(t, "<?php echo>x", HTML5_FLAGS_DATA_STATE))

	/* IE-only <% %> pseudo-comment */
	assert.Equal(t, []h5_token{
		{HTML5_TYPE_TAG_COMMENT, "x"},
		{HTML5_TYPE_DATA_TEXT, "y"},
	}, collect_tokens(t, "<%x%>y", HTML5_FLAGS_DATA_STATE))
}

/* '<' inside a tag name is just a name char, so "<div<div>" is one tag */
func TestHtml5NestedOpenBracket(t *testing.T) {
	assert.Equal(t, []h5_token{
		{HTML5_TYPE_TAG_NAME_OPEN, "div<div"},
		{HTML5_TYPE_TAG_NAME_CLOSE, ">"},
	}, collect_tokens(t, "<div<div>", HTML5_FLAGS_DATA_STATE))
}

func TestHtml5NullInTagName(t *testing.T) {
	tokens := collect_tokens(t, "<di\x00v>", HTML5_FLAGS_DATA_STATE)
	require.NotEmpty(t, tokens)
	assert.Equal(t, h5_token{HTML5_TYPE_TAG_NAME_OPEN, "di\x00v"}, tokens[0])
}

func TestHtml5ManyTags(t *testing.T) {
	input := strings.Repeat("<div>", 1000)
	tokens := collect_tokens(t, input, HTML5_FLAGS_DATA_STATE)
	assert.Len(t, tokens, 2000) /* name + close per tag */
}

func TestHtml5ValueContexts(t *testing.T) {
	assert.Equal(t, []h5_token{
		{HTML5_TYPE_ATTR_VALUE, "foo"},
	}, collect_tokens(t, "foo", HTML5_FLAGS_VALUE_SINGLE_QUOTE))

	/* breaking out of a double-quoted value into a new attribute */
	assert.Equal(t, []h5_token{
		{HTML5_TYPE_ATTR_VALUE, "x"},
		{HTML5_TYPE_ATTR_NAME, "y"},
	}, collect_tokens(t, `x" y`, HTML5_FLAGS_VALUE_DOUBLE_QUOTE))

	assert.Equal(t, []h5_token{
		{HTML5_TYPE_ATTR_NAME, "foo"},
		{HTML5_TYPE_ATTR_NAME, "bar"},
	}, collect_tokens(t, "foo bar", HTML5_FLAGS_VALUE_NO_QUOTE))
}

/* the token-type numbering is a compatibility contract for callers that
 * persist or switch on the raw values */
func TestHtml5TokenTypeNumbering(t *testing.T) {
	assert.Equal(t, 0, HTML5_TYPE_DATA_TEXT)
	assert.Equal(t, 1, HTML5_TYPE_TAG_NAME_OPEN)
	assert.Equal(t, 2, HTML5_TYPE_TAG_NAME_CLOSE)
	assert.Equal(t, 3, HTML5_TYPE_TAG_NAME_SELFCLOSE)
	assert.Equal(t, 4, HTML5_TYPE_TAG_DATA)
	assert.Equal(t, 5, HTML5_TYPE_TAG_CLOSE)
	assert.Equal(t, 6, HTML5_TYPE_ATTR_NAME)
	assert.Equal(t, 7, HTML5_TYPE_ATTR_VALUE)
	assert.Equal(t, 8, HTML5_TYPE_TAG_COMMENT)
	assert.Equal(t, 9, HTML5_TYPE_DOCTYPE)
}

func TestHtml5EmptyInput(t *testing.T) {
	h := NewHtml5(nil, HTML5_FLAGS_DATA_STATE)
	assert.Equal(t, ResultNone, h.Next())
}

func TestHtml5NextEncoding(t *testing.T) {
	h := NewHtml5([]byte("<p>"), HTML5_FLAGS_DATA_STATE)
	assert.Equal(t, ResultMatch, h.Next())
	assert.Equal(t, ResultMatch, h.Next())
	assert.Equal(t, ResultNone, h.Next())
	/* exhausted tokenizer stays exhausted */
	assert.Equal(t, ResultNone, h.Next())
}

/* the closed-state backstop: an impossible state value must surface as
 * ResultError, not a hang or a panic */
func TestHtml5UndefinedState(t *testing.T) {
	h := NewHtml5([]byte("<p>x"), HTML5_FLAGS_DATA_STATE)
	h.state = 999
	assert.Equal(t, ResultError, h.Next())
}
