// Package textnorm cleans extracted document text for the metadata heuristics.
package textnorm

import "strings"

// NormalizedText is a document's text after control-character removal and
// whitespace collapsing, kept in three views.
type NormalizedText struct {
	// Joined is the whole text on a single line.
	Joined string
	// Lines holds the trimmed, non-empty lines in document order.
	Lines []string
	// Paragraphs holds blank-line separated blocks, each collapsed to one line.
	Paragraphs []string
}

// Normalize is total over any input; an empty string yields empty views.
func Normalize(raw string) NormalizedText {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var n NormalizedText
	n.Joined = Collapse(raw)

	var para []string
	flush := func() {
		if len(para) > 0 {
			n.Paragraphs = append(n.Paragraphs, strings.Join(para, " "))
			para = nil
		}
	}
	for _, line := range strings.Split(raw, "\n") {
		line = Collapse(line)
		if line == "" {
			flush()
			continue
		}
		n.Lines = append(n.Lines, line)
		para = append(para, line)
	}
	flush()

	return n
}

// Collapse strips ASCII control characters, replaces every whitespace run with
// one space and trims the result.
func Collapse(s string) string {
	return strings.Join(strings.Fields(StripControl(s)), " ")
}

// StripControl removes 0x00-0x1F and 0x7F, except the whitespace controls
// (tab, newline, vertical tab, form feed, carriage return) which become spaces.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t', r == '\n', r == '\v', r == '\f', r == '\r':
			return ' '
		case r < 0x20, r == 0x7f:
			return -1
		}
		return r
	}, s)
}
