// Package language decides which script dominates a document.
package language

import (
	"unicode/utf8"

	"github.com/lehigh-university-libraries/marcextract/internal/models"
)

const (
	arabicBlockStart = 0x0600
	arabicBlockEnd   = 0x06FF

	// ArabicThresholdPercent is the share of Arabic-block runes that must be
	// exceeded for a text to be classified as Arabic script.
	ArabicThresholdPercent = 10
)

// IsArabic reports whether r lies in the Arabic Unicode block
func IsArabic(r rune) bool {
	return r >= arabicBlockStart && r <= arabicBlockEnd
}

// Classify returns LanguageArabicScript when Arabic-block runes make up more
// than ArabicThresholdPercent of the text, LanguageLatin otherwise. Empty text is Latin.
func Classify(text string) models.LanguageHint {
	total := utf8.RuneCountInString(text)
	if total == 0 {
		return models.LanguageLatin
	}

	arabic := 0
	for _, r := range text {
		if IsArabic(r) {
			arabic++
		}
	}

	if arabic*100 > total*ArabicThresholdPercent {
		return models.LanguageArabicScript
	}
	return models.LanguageLatin
}
