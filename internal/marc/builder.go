// Package marc renders extracted metadata as MARC 21 records.
package marc

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/marcextract/internal/models"
)

// Leader is the fixed record leader for language material, monograph
const Leader = "00000nam a2200000 i 4500"

const (
	controlDateLayout = "20060102150405"
	date008Layout     = "060102"
)

// namespace for control numbers
var controlNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/lehigh-university-libraries/marcextract"))

// boilerplate holds the fixed-language subfield values of a record
type boilerplate struct {
	Edition  string
	Extent   string
	Note     string
	LangNote string
}

func boilerplateFor(hint models.LanguageHint) boilerplate {
	if hint == models.LanguageArabicScript {
		return boilerplate{
			Edition:  "الطبعة الأولى.",
			Extent:   "1 مصدر إلكتروني.",
			Note:     "تم استخراج البيانات الوصفية آليا من نص الوثيقة.",
			LangNote: hint.Note(),
		}
	}
	return boilerplate{
		Edition:  "First edition.",
		Extent:   "1 online resource.",
		Note:     "Metadata extracted automatically from the document text.",
		LangNote: hint.Note(),
	}
}

// Build renders md into the field-tagged, structured and MARCXML views.
// It is total: any Metadata value yields a complete record.
func Build(md models.Metadata, hint models.LanguageHint, generatedAt time.Time) models.CatalogRecord {
	generatedAt = generatedAt.UTC()
	md = cloneMetadata(md)
	id := ControlNumber(md, generatedAt)

	return models.CatalogRecord{
		Metadata:    md,
		Language:    hint,
		GeneratedAt: generatedAt,
		MRK:         GenerateMRK(md, hint, id, generatedAt),
		Structured: models.StructuredRecord{
			Leader: Leader,
			Control: models.ControlBlock{
				ID:          id,
				GeneratedAt: generatedAt.Format(time.RFC3339),
			},
			Fields: cloneMetadata(md),
		},
		MARCXML: GenerateMARCXML(md, hint, id, generatedAt),
	}
}

// ControlNumber derives a name-based UUID from the metadata and generation time
func ControlNumber(md models.Metadata, generatedAt time.Time) string {
	parts := []string{
		md.Title, md.Author, strings.Join(md.CoAuthors, ";"), md.Publisher, md.Place,
		md.Year, md.ISBN, md.ISSN, md.Language,
		generatedAt.UTC().Format(time.RFC3339Nano),
	}
	return uuid.NewSHA1(controlNamespace, []byte(strings.Join(parts, "\x1f"))).String()
}

func cloneMetadata(md models.Metadata) models.Metadata {
	coauthors := make([]string, len(md.CoAuthors))
	copy(coauthors, md.CoAuthors)
	md.CoAuthors = coauthors
	return md
}
