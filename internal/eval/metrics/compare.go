package metrics

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fields lists the compared fields in report order
var Fields = []string{"title", "author", "date", "isbn", "language"}

// Weights sets each field's share of the overall score. Fields without a
// reference value drop out and the rest are renormalised.
var Weights = map[string]float64{
	"title":    0.30,
	"author":   0.25,
	"date":     0.20,
	"isbn":     0.10,
	"language": 0.15,
}

// Values holds the compared fields of one record. An empty string means the
// value is absent.
type Values struct {
	Title    string
	Author   string
	Date     string
	ISBN     string
	Language string
}

func (v Values) get(field string) string {
	switch field {
	case "title":
		return v.Title
	case "author":
		return v.Author
	case "date":
		return v.Date
	case "isbn":
		return v.ISBN
	case "language":
		return v.Language
	}
	return ""
}

// FieldMatch is the comparison of a single field
type FieldMatch struct {
	Expected string  `yaml:"expected" json:"expected"`
	Actual   string  `yaml:"actual" json:"actual"`
	Score    float64 `yaml:"score" json:"score"` // 0.0 to 1.0
	Distance int     `yaml:"distance" json:"distance"`
	Method   string  `yaml:"method" json:"method"` // exact, substring, fuzzy_high, fuzzy_medium, fuzzy_low, no_match, missing, no_reference, both_empty
}

// Comparison is the field-by-field comparison of one record
type Comparison struct {
	Fields           map[string]FieldMatch
	OverallScore     float64
	FieldsMatched    int
	FieldsMissing    int
	FieldsIncorrect  int
	LevenshteinTotal int
}

// Compare scores actual against expected field by field
func Compare(expected, actual Values) *Comparison {
	c := &Comparison{Fields: make(map[string]FieldMatch, len(Fields))}

	weighted, weightSum := 0.0, 0.0
	for _, field := range Fields {
		m := CompareField(field, expected.get(field), actual.get(field))
		c.Fields[field] = m
		c.LevenshteinTotal += m.Distance

		switch {
		case m.Method == "no_reference" || m.Method == "both_empty":
			continue
		case m.Method == "missing":
			c.FieldsMissing++
		case m.Score > 0.8:
			c.FieldsMatched++
		default:
			c.FieldsIncorrect++
		}
		weighted += Weights[field] * m.Score
		weightSum += Weights[field]
	}

	if weightSum > 0 {
		c.OverallScore = weighted / weightSum
	}
	return c
}

// CompareField compares one field after normalising both values the way
// catalogers' variants differ: case, punctuation and spacing for text,
// the year for dates, digits for ISBNs.
func CompareField(field, expected, actual string) FieldMatch {
	m := FieldMatch{Expected: expected, Actual: actual}

	var exp, act string
	switch field {
	case "date":
		exp, act = yearOf(expected), yearOf(actual)
	case "isbn":
		exp, act = isbnDigits(expected), isbnDigits(actual)
	default:
		exp, act = normalizeText(expected), normalizeText(actual)
	}

	switch {
	case exp == "" && act == "":
		m.Method = "both_empty"
		return m
	case exp == "":
		m.Method = "no_reference"
		m.Distance = utf8.RuneCountInString(act)
		return m
	case act == "":
		m.Method = "missing"
		m.Distance = utf8.RuneCountInString(exp)
		return m
	case exp == act:
		m.Score = 1.0
		m.Method = "exact"
		return m
	}

	m.Distance = levenshteinDistance(exp, act)

	// one value contained in the other, as whole words
	if field != "date" && field != "isbn" && containsWords(exp, act) {
		m.Score = 0.9
		m.Method = "substring"
		return m
	}

	similarity := 1.0 - float64(m.Distance)/float64(max(utf8.RuneCountInString(exp), utf8.RuneCountInString(act)))
	m.Score = similarity
	switch {
	case similarity > 0.9:
		m.Method = "fuzzy_high"
	case similarity > 0.7:
		m.Method = "fuzzy_medium"
	case similarity > 0.5:
		m.Method = "fuzzy_low"
	default:
		m.Method = "no_match"
	}
	return m
}

// Notes describes a match for reports
func (m FieldMatch) Notes() string {
	switch m.Method {
	case "both_empty":
		return "Both fields are empty"
	case "no_reference":
		return "No reference value"
	case "missing":
		return "Field missing from extracted metadata"
	case "exact":
		return "Exact match"
	case "substring":
		return "One value contains the other"
	default:
		return fmt.Sprintf("Similarity %.1f%%, Levenshtein: %d", m.Score*100, m.Distance)
	}
}

var yearRe = regexp.MustCompile(`\d{4}`)

func yearOf(s string) string {
	return yearRe.FindString(s)
}

func isbnDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r == 'x' || r == 'X':
			return 'X'
		}
		return -1
	}, s)
}

// normalizeText lowercases, drops punctuation and folds whitespace
func normalizeText(text string) string {
	text = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		}
		return -1
	}, text)
	return strings.Join(strings.Fields(text), " ")
}

// containsWords reports whether the shorter value appears as whole words
// in the longer one. Single short words do not count.
func containsWords(a, b string) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	if utf8.RuneCountInString(a) < 4 {
		return false
	}
	return strings.Contains(" "+b+" ", " "+a+" ")
}

// levenshteinDistance is the rune-level edit distance of s1 and s2
func levenshteinDistance(s1, s2 string) int {
	a, b := []rune(s1), []rune(s2)
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
