package marc

import (
	"fmt"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/marcextract/internal/models"
)

// GenerateMRK writes the record in MARC mnemonic (.mrk) form, one "=TAG  " line
// per field. Blank indicators are written as '#'. Values are substituted
// verbatim; a '$' inside a value is not escaped.
func GenerateMRK(md models.Metadata, hint models.LanguageHint, id string, generatedAt time.Time) string {
	var marc strings.Builder
	bp := boilerplateFor(hint)

	writeField := func(tag, data string) {
		marc.WriteString("=" + tag + "  " + data + "\n")
	}

	writeField("LDR", Leader)
	writeField("001", id)
	writeField("005", generatedAt.Format(controlDateLayout))
	writeField("008", fixedField008(md, hint, generatedAt))

	if md.ISBN != "" {
		writeField("020", "##$a"+md.ISBN)
	}
	if md.ISSN != "" {
		writeField("022", "##$a"+md.ISSN)
	}

	writeField("041", "0#$a"+hint.Code())
	writeField("100", "1#$a"+md.Author)
	writeField("245", fmt.Sprintf("10$a%s /$c%s.", md.Title, md.Author))
	writeField("250", "##$a"+bp.Edition)
	writeField("264", fmt.Sprintf("#1$a%s :$b%s,$c%s.", md.Place, md.Publisher, md.Year))
	writeField("300", "##$a"+bp.Extent)

	// RDA content, media and carrier types
	writeField("336", "##$atext$btxt$2rdacontent")
	writeField("337", "##$acomputer$bc$2rdamedia")
	writeField("338", "##$aonline resource$bcr$2rdacarrier")

	writeField("500", "##$a"+bp.Note)
	writeField("520", "##$a"+md.Summary)
	writeField("546", "##$a"+bp.LangNote)

	for _, name := range md.CoAuthors {
		writeField("700", "1#$a"+name)
	}

	return marc.String()
}

// fixedField008 builds the 40 character fixed-length data elements for books
func fixedField008(md models.Metadata, hint models.LanguageHint, generatedAt time.Time) string {
	dateType, date1 := "n", "uuuu"
	if isYear(md.Year) {
		dateType, date1 = "s", md.Year
	}

	var f strings.Builder
	f.WriteString(generatedAt.Format(date008Layout)) // 00-05 date entered
	f.WriteString(dateType)                          // 06
	f.WriteString(date1)                             // 07-10
	f.WriteString("    ")                            // 11-14 date 2
	f.WriteString("xx ")                             // 15-17 place unknown
	f.WriteString("     o     000 0 ")               // 18-34 books, online
	f.WriteString(hint.Code())                       // 35-37
	f.WriteString(" d")                              // 38-39

	return strings.ReplaceAll(f.String(), " ", "#")
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
