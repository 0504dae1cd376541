package marc

import (
	"encoding/xml"
	"time"

	"github.com/lehigh-university-libraries/marcextract/internal/models"
)

// MARCXMLNamespace is the MARC 21 slim schema namespace
const MARCXMLNamespace = "http://www.loc.gov/MARC21/slim"

type xmlRecord struct {
	XMLName       xml.Name          `xml:"record"`
	Xmlns         string            `xml:"xmlns,attr"`
	Leader        string            `xml:"leader"`
	ControlFields []xmlControlField `xml:"controlfield"`
	DataFields    []xmlDataField    `xml:"datafield"`
}

type xmlControlField struct {
	Tag   string `xml:"tag,attr"`
	Value string `xml:",chardata"`
}

type xmlDataField struct {
	Tag       string        `xml:"tag,attr"`
	Ind1      string        `xml:"ind1,attr"`
	Ind2      string        `xml:"ind2,attr"`
	Subfields []xmlSubfield `xml:"subfield"`
}

type xmlSubfield struct {
	Code  string `xml:"code,attr"`
	Value string `xml:",chardata"`
}

func datafield(tag, ind1, ind2 string, codeValues ...string) xmlDataField {
	df := xmlDataField{Tag: tag, Ind1: ind1, Ind2: ind2}
	for i := 0; i+1 < len(codeValues); i += 2 {
		df.Subfields = append(df.Subfields, xmlSubfield{Code: codeValues[i], Value: codeValues[i+1]})
	}
	return df
}

// GenerateMARCXML renders the populated metadata fields as a MARCXML record.
// Subfields carry the bare values, without ISBD punctuation.
func GenerateMARCXML(md models.Metadata, hint models.LanguageHint, id string, generatedAt time.Time) string {
	rec := xmlRecord{
		Xmlns:  MARCXMLNamespace,
		Leader: Leader,
		ControlFields: []xmlControlField{
			{Tag: "001", Value: id},
			{Tag: "005", Value: generatedAt.Format(time.RFC3339)},
		},
	}

	if md.ISBN != "" {
		rec.DataFields = append(rec.DataFields, datafield("020", " ", " ", "a", md.ISBN))
	}
	if md.ISSN != "" {
		rec.DataFields = append(rec.DataFields, datafield("022", " ", " ", "a", md.ISSN))
	}
	rec.DataFields = append(rec.DataFields,
		datafield("041", "0", " ", "a", hint.Code()),
		datafield("100", "1", " ", "a", md.Author),
		datafield("245", "1", "0", "a", md.Title, "c", md.Author),
		datafield("264", " ", "1", "a", md.Place, "b", md.Publisher, "c", md.Year),
		datafield("520", " ", " ", "a", md.Summary),
		datafield("546", " ", " ", "a", hint.Note()),
	)
	for _, name := range md.CoAuthors {
		rec.DataFields = append(rec.DataFields, datafield("700", "1", " ", "a", name))
	}

	out, err := xml.MarshalIndent(rec, "", "  ")
	if err != nil {
		// only reachable with types encoding/xml cannot marshal
		panic("marc: marshal MARCXML: " + err.Error())
	}
	return xml.Header + string(out) + "\n"
}
