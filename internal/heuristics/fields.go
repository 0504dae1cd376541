// Package heuristics infers bibliographic fields from normalized document text.
//
// Every extractor is a pure function of an Input and always returns a value:
// when nothing matches it falls back to the language's sentinel (or to an empty
// string for ISBN and ISSN, which callers treat as absent).
package heuristics

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lehigh-university-libraries/marcextract/internal/models"
	"github.com/lehigh-university-libraries/marcextract/internal/textnorm"
)

// SummaryMaxLength is the maximum length of a summary in characters
const SummaryMaxLength = 300

var (
	isbnRe = regexp.MustCompile(`(?i)(?:^|[^\p{L}])isbn(?:[\s-]*1[03])?\s*[:#\-–—]?\s*([0-9][0-9-]{8,16}[0-9Xx])`)
	// ISSNs are eight digits, NNNN-NNNC, not the 10 to 13 of an ISBN
	issnRe = regexp.MustCompile(`(?i)(?:^|[^\p{L}])issn\s*[:#\-–—]?\s*([0-9]{4}-?[0-9]{3}[0-9Xx])(?:[^0-9Xx-]|$)`)
)

// Input is the shared, read-only input of every field extractor
type Input struct {
	Lines      []string
	Joined     string
	Paragraphs []string
	Hint       models.LanguageHint
}

// NewInput wraps normalized text and its language classification
func NewInput(text textnorm.NormalizedText, hint models.LanguageHint) Input {
	return Input{
		Lines:      text.Lines,
		Joined:     text.Joined,
		Paragraphs: text.Paragraphs,
		Hint:       hint,
	}
}

func (in Input) rules() *RuleSet {
	return ForLanguage(in.Hint)
}

func Title(in Input) string {
	rs := in.rules()
	if v, ok := LookupLabel(in.Lines, rs.TitleLabels); ok {
		return v
	}
	if v, ok := rs.TitleFallback(in.Lines); ok {
		return v
	}
	return rs.Sentinels.Title
}

func Author(in Input) string {
	rs := in.rules()
	if v, ok := LookupLabel(in.Lines, rs.AuthorLabels); ok {
		return v
	}
	if v, ok := rs.AuthorFallback(in.Lines); ok {
		return v
	}
	return rs.Sentinels.Author
}

// CoAuthors splits the first co-author statement into names. It returns an
// empty, non-nil slice when the document carries none.
func CoAuthors(in Input) []string {
	rs := in.rules()
	names := []string{}
	v, ok := LookupLabel(in.Lines, rs.CoAuthorLabels)
	if !ok {
		return names
	}
	for _, name := range rs.CoAuthorSplit.Split(v, -1) {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func Publisher(in Input) string {
	rs := in.rules()
	if v, ok := LookupLabel(in.Lines, rs.PublisherLabels); ok {
		return v
	}
	return rs.Sentinels.Publisher
}

func Place(in Input) string {
	rs := in.rules()
	if v, ok := LookupLabel(in.Lines, rs.PlaceLabels); ok {
		return v
	}
	return rs.Sentinels.Place
}

// Year returns the first plausible four-digit year in the joined text.
// Arabic-Indic digits are read as their ASCII equivalents and labeled ISBN
// and ISSN numbers are not searched.
func Year(in Input) string {
	rs := in.rules()
	text := maskIdentifiers(foldDigits(in.Joined))
	if m := rs.Year.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return rs.Sentinels.Year
}

// ISBN returns the first labeled ISBN with 10 to 13 digits, or ""
func ISBN(in Input) string {
	for _, m := range isbnRe.FindAllStringSubmatch(in.Joined, -1) {
		n := countDigits(m[1])
		if n >= 10 && n <= 13 {
			return m[1]
		}
	}
	return ""
}

// ISSN returns the first labeled ISSN, or ""
func ISSN(in Input) string {
	if m := issnRe.FindStringSubmatch(in.Joined); m != nil {
		return m[1]
	}
	return ""
}

// Summary returns the longest paragraph, truncated to SummaryMaxLength
// characters. The first paragraph wins a tie.
func Summary(in Input) string {
	longest, longestLen := "", 0
	for _, p := range in.Paragraphs {
		if n := utf8.RuneCountInString(p); n > longestLen {
			longest, longestLen = p, n
		}
	}
	if longestLen > SummaryMaxLength {
		longest = string([]rune(longest)[:SummaryMaxLength])
	}
	longest = strings.TrimSpace(longest)
	if longest == "" {
		return in.rules().Sentinels.Summary
	}
	return longest
}

// Language returns the MARC language code of the input's hint
func Language(in Input) string {
	return in.Hint.Code()
}

func maskIdentifiers(s string) string {
	blank := func(m string) string { return strings.Repeat(" ", len(m)) }
	return issnRe.ReplaceAllStringFunc(isbnRe.ReplaceAllStringFunc(s, blank), blank)
}

func foldDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		}
		return r
	}, s)
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == 'X' || r == 'x' {
			n++
		}
	}
	return n
}
