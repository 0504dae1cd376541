package heuristics

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lehigh-university-libraries/marcextract/internal/language"
	"github.com/lehigh-university-libraries/marcextract/internal/models"
)

// Sentinels are the placeholder values used when a field cannot be inferred
type Sentinels struct {
	Title     string
	Author    string
	Publisher string
	Place     string
	Year      string
	Summary   string
}

// RuleSet is the script-specific configuration of the field extractors.
// The values returned by ForLanguage are shared and must not be modified.
type RuleSet struct {
	Hint models.LanguageHint

	TitleLabels     []Label
	AuthorLabels    []Label
	CoAuthorLabels  []Label
	PublisherLabels []Label
	PlaceLabels     []Label

	// Year matches a plausible publication year in its first capture group
	Year *regexp.Regexp
	// CoAuthorSplit separates names in a co-author statement
	CoAuthorSplit *regexp.Regexp

	TitleFallback  func(lines []string) (string, bool)
	AuthorFallback func(lines []string) (string, bool)

	Sentinels Sentinels
}

var (
	latinTitleRe = regexp.MustCompile(`^\p{Lu}[\p{L}\p{N} .,:;'’"!?&()\-]*$`)
	byLabel      = inlineWordLabel("by")

	publisherLabels = []Label{
		WordLabel("publisher"),
		WordLabel("published by"),
		SubstringLabel("الناشر"),
		SubstringLabel("دار النشر"),
	}
	placeLabels = []Label{
		WordLabel("place of publication"),
		WordLabel("place"),
		WordLabel("published in"),
		SubstringLabel("مكان النشر"),
		SubstringLabel("بلد النشر"),
	}
)

var (
	latinAuthorLabels   = []Label{WordLabel("author"), WordLabel("authors"), WordLabel("written by")}
	latinCoAuthorLabels = []Label{
		WordLabel("co-authors"),
		WordLabel("co-author"),
		WordLabel("coauthors"),
		WordLabel("contributors"),
	}
	arabicAuthorLabels   = []Label{SubstringLabel("تأليف"), SubstringLabel("بقلم"), SubstringLabel("المؤلف"), WordLabel("author")}
	arabicCoAuthorLabels = []Label{
		SubstringLabel("بالاشتراك مع"),
		WordLabel("co-authors"),
	}

	// labels of the fields other than title, for the title fallbacks
	latinFieldLabels  = concatLabels(latinAuthorLabels, latinCoAuthorLabels, publisherLabels, placeLabels)
	arabicFieldLabels = concatLabels(arabicAuthorLabels, arabicCoAuthorLabels, publisherLabels, placeLabels)
)

var latinRules = &RuleSet{
	Hint:            models.LanguageLatin,
	TitleLabels:     []Label{WordLabel("title")},
	AuthorLabels:    latinAuthorLabels,
	CoAuthorLabels:  latinCoAuthorLabels,
	PublisherLabels: publisherLabels,
	PlaceLabels:     placeLabels,
	Year:            regexp.MustCompile(`(?:^|\D)((?:18|19|20)\d{2})(?:\D|$)`),
	CoAuthorSplit:   regexp.MustCompile(`\s*(?:[,;&]|\band\b)\s*`),
	TitleFallback:   latinTitleFallback,
	AuthorFallback:  latinAuthorFallback,
	Sentinels: Sentinels{
		Title:     "Unknown Title",
		Author:    "Unknown Author",
		Publisher: "[Publisher not found]",
		Place:     "[Place of publication not identified]",
		Year:      "Unknown Year",
		Summary:   "No summary available; metadata was extracted automatically from the document text.",
	},
}

var arabicRules = &RuleSet{
	Hint:           models.LanguageArabicScript,
	TitleLabels:    []Label{SubstringLabel("العنوان"), SubstringLabel("عنوان الكتاب"), WordLabel("title")},
	AuthorLabels:   arabicAuthorLabels,
	CoAuthorLabels: arabicCoAuthorLabels,
	PublisherLabels: []Label{
		SubstringLabel("الناشر"),
		SubstringLabel("دار النشر"),
		WordLabel("publisher"),
		WordLabel("published by"),
	},
	PlaceLabels: []Label{
		SubstringLabel("مكان النشر"),
		SubstringLabel("بلد النشر"),
		WordLabel("place of publication"),
		WordLabel("place"),
		WordLabel("published in"),
	},
	Year:           regexp.MustCompile(`(?:^|\D)((?:13|14|18|19|20)\d{2})(?:\D|$)`),
	CoAuthorSplit:  regexp.MustCompile(`\s*(?:[,;&،]|\band\b|\s+و\s+)\s*`),
	TitleFallback:  arabicTitleFallback,
	AuthorFallback: func([]string) (string, bool) { return "", false },
	Sentinels: Sentinels{
		Title:     "عنوان غير معروف",
		Author:    "مؤلف غير معروف",
		Publisher: "[الناشر غير معروف]",
		Place:     "[مكان النشر غير معروف]",
		Year:      "سنة غير معروفة",
		Summary:   "لا يتوفر ملخص؛ تم استخراج البيانات الوصفية آليا من نص الوثيقة.",
	},
}

// ForLanguage selects the rule set for a language hint
func ForLanguage(h models.LanguageHint) *RuleSet {
	if h == models.LanguageArabicScript {
		return arabicRules
	}
	return latinRules
}

// latinTitleFallback picks the first line that looks like a title: an initial
// capital, 10 to 80 characters, letters, digits, spaces and basic punctuation.
// Lines labeled as another field are skipped.
func latinTitleFallback(lines []string) (string, bool) {
	for _, line := range lines {
		n := utf8.RuneCountInString(line)
		if n < 10 || n > 80 {
			continue
		}
		if matchesAny(line, latinFieldLabels) {
			continue
		}
		if latinTitleRe.MatchString(line) {
			return line, true
		}
	}
	return "", false
}

// arabicTitleFallback picks the first line made only of Arabic script and
// spaces that is at least 10 characters long and carries no field label.
func arabicTitleFallback(lines []string) (string, bool) {
	for _, line := range lines {
		if utf8.RuneCountInString(line) < 10 {
			continue
		}
		if isArabicLine(line) && !matchesAny(line, arabicFieldLabels) {
			return line, true
		}
	}
	return "", false
}

func isArabicLine(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	for _, r := range line {
		if r != ' ' && !language.IsArabic(r) {
			return false
		}
	}
	return true
}

// latinAuthorFallback takes the text after the word "by", skipping
// publisher statements such as "Published by".
func latinAuthorFallback(lines []string) (string, bool) {
	for _, line := range lines {
		if matchesAny(line, publisherLabels) {
			continue
		}
		if v, ok := byLabel.After(line); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func concatLabels(lists ...[]Label) []Label {
	var out []Label
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
