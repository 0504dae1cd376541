package heuristics

import (
	"regexp"
	"strings"
)

// Label is one synonym in a labeled-line lookup.
type Label struct {
	Text string
	re   *regexp.Regexp
}

// WordLabel matches text case-insensitively as a whole word at the start of a
// line, after optional leading whitespace.
func WordLabel(text string) Label {
	return Label{
		Text: text,
		re:   regexp.MustCompile(`(?i)^\s*(` + wordPattern(text) + `)(?:[^\p{L}\p{N}]|$)`),
	}
}

// inlineWordLabel matches text as a whole word anywhere in a line. A hyphen
// directly before the word blocks the match so "co-author" is not "author".
func inlineWordLabel(text string) Label {
	return Label{
		Text: text,
		re:   regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}-])(` + wordPattern(text) + `)(?:[^\p{L}\p{N}]|$)`),
	}
}

func wordPattern(text string) string {
	return strings.ReplaceAll(regexp.QuoteMeta(text), " ", `\s+`)
}

// SubstringLabel matches text anywhere in a line. Arabic labels use this since
// clitics and the definite article attach directly to words.
func SubstringLabel(text string) Label {
	return Label{Text: text}
}

// find returns the byte offset just past the label in line
func (l Label) find(line string) (int, bool) {
	if l.re == nil {
		idx := strings.Index(line, l.Text)
		if idx < 0 {
			return 0, false
		}
		return idx + len(l.Text), true
	}
	loc := l.re.FindStringSubmatchIndex(line)
	if loc == nil {
		return 0, false
	}
	return loc[3], true
}

// After returns the trimmed text following the first occurrence of the label
func (l Label) After(line string) (string, bool) {
	end, ok := l.find(line)
	if !ok {
		return "", false
	}
	return StripSeparators(line[end:]), true
}

// StripSeparators removes the separator between a label and its value
func StripSeparators(s string) string {
	return strings.TrimSpace(strings.TrimLeft(s, " \t:：-–—"))
}

// LookupLabel scans lines for each label in order and returns the value on the
// first line carrying that label. Earlier labels win over later ones and lines
// whose value is empty after stripping are skipped.
func LookupLabel(lines []string, labels []Label) (string, bool) {
	for _, label := range labels {
		for _, line := range lines {
			if v, ok := label.After(line); ok && v != "" {
				return v, true
			}
		}
	}
	return "", false
}

func matchesAny(line string, labels []Label) bool {
	for _, l := range labels {
		if _, ok := l.find(line); ok {
			return true
		}
	}
	return false
}
