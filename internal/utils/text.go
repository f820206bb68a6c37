package utils

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

// The blog/cafe/local endpoints mark query-relevant substrings in returned
// text with <b>…</b>. Matching runs on text with those tags removed;
// display rewrites them into <mark>…</mark>.

var bTagReplacer = strings.NewReplacer("<b>", "", "</b>", "")

// StripBTags removes the backend's <b> and </b> emphasis tags, leaving all
// other content and whitespace untouched.
func StripBTags(s string) string {
	if s == "" {
		return s
	}
	return bTagReplacer.Replace(s)
}

// MarkEmphasis HTML-escapes s and rewrites the escaped backend emphasis
// tags into <mark> wrappers, so only the backend's own emphasis survives as
// markup in the output.
func MarkEmphasis(s string) string {
	escaped := html.EscapeString(s)
	escaped = strings.ReplaceAll(escaped, "&lt;b&gt;", "<mark>")
	return strings.ReplaceAll(escaped, "&lt;/b&gt;", "</mark>")
}

var tokenPattern = regexp.MustCompile(`[0-9A-Za-z가-힣]+`)

// BuildHighlighter compiles a reusable display renderer for the given raw
// query. The query is tokenized into runs of digits, ASCII letters and
// Hangul; tokens shorter than two runes are dropped. The returned function
// escapes its input, keeps backend emphasis as <mark>, and wraps every
// case-insensitive token occurrence in <mark> as well. Highlighting is
// display-only and never influences match filtering, which is exact and
// case-sensitive. With no usable tokens the renderer degrades to
// MarkEmphasis alone.
func BuildHighlighter(rawQuery string) func(string) string {
	var terms []string
	for _, t := range tokenPattern.FindAllString(rawQuery, -1) {
		if utf8.RuneCountInString(t) >= 2 {
			terms = append(terms, regexp.QuoteMeta(t))
		}
	}
	if len(terms) == 0 {
		return MarkEmphasis
	}
	pattern := regexp.MustCompile("(?i)(" + strings.Join(terms, "|") + ")")
	return func(text string) string {
		base := MarkEmphasis(text)
		return pattern.ReplaceAllString(base, "<mark>$1</mark>")
	}
}
