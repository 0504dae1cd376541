package marc

import (
	"encoding/json"
	"encoding/xml"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/marcextract/internal/models"
	"gopkg.in/yaml.v3"
)

var frozen = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func sampleMetadata() models.Metadata {
	return models.Metadata{
		Title:     "The Great Work",
		Author:    "Jane Doe",
		CoAuthors: []string{},
		Publisher: "Acme Press",
		Place:     "[Place of publication not identified]",
		Year:      "1998",
		ISBN:      "1234567890",
		Summary:   "A study of great works.",
		Language:  "eng",
	}
}

func mrkTags(mrk string) []string {
	var tags []string
	for _, line := range strings.Split(strings.TrimRight(mrk, "\n"), "\n") {
		tags = append(tags, line[1:4])
	}
	return tags
}

func findLine(mrk, tag string) string {
	for _, line := range strings.Split(mrk, "\n") {
		if strings.HasPrefix(line, "="+tag+"  ") {
			return line
		}
	}
	return ""
}

func TestGenerateMRK_Lines(t *testing.T) {
	rec := Build(sampleMetadata(), models.LanguageLatin, frozen)

	tests := []struct {
		tag  string
		want string
	}{
		{"LDR", "=LDR  " + Leader},
		{"005", "=005  20240102030405"},
		{"020", "=020  ##$a1234567890"},
		{"041", "=041  0#$aeng"},
		{"100", "=100  1#$aJane Doe"},
		{"245", "=245  10$aThe Great Work /$cJane Doe."},
		{"264", "=264  #1$a[Place of publication not identified] :$bAcme Press,$c1998."},
		{"336", "=336  ##$atext$btxt$2rdacontent"},
		{"337", "=337  ##$acomputer$bc$2rdamedia"},
		{"338", "=338  ##$aonline resource$bcr$2rdacarrier"},
		{"520", "=520  ##$aA study of great works."},
		{"546", "=546  ##$aText in English."},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := findLine(rec.MRK, tt.tag); got != tt.want {
				t.Errorf("line %s = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}

	if got := findLine(rec.MRK, "001"); got != "=001  "+rec.Structured.Control.ID {
		t.Errorf("001 line %q does not carry control id %q", got, rec.Structured.Control.ID)
	}
}

func TestGenerateMRK_TagOrder(t *testing.T) {
	md := sampleMetadata()
	md.ISSN = "1234-567X"
	md.CoAuthors = []string{"John Smith", "Mary Jones"}
	rec := Build(md, models.LanguageLatin, frozen)

	want := []string{
		"LDR", "001", "005", "008", "020", "022", "041", "100", "245", "250", "264",
		"300", "336", "337", "338", "500", "520", "546", "700", "700",
	}
	if got := mrkTags(rec.MRK); !reflect.DeepEqual(got, want) {
		t.Errorf("tags = %v, want %v", got, want)
	}
	if !strings.HasSuffix(rec.MRK, "=700  1#$aJohn Smith\n=700  1#$aMary Jones\n") {
		t.Errorf("co-author lines missing or out of order:\n%s", rec.MRK)
	}
}

func TestGenerateMRK_AbsentIdentifiersAndBoilerplate(t *testing.T) {
	md := sampleMetadata()
	md.ISBN = ""
	rec := Build(md, models.LanguageLatin, frozen)

	if findLine(rec.MRK, "020") != "" || findLine(rec.MRK, "022") != "" {
		t.Errorf("expected no 020/022 lines for absent identifiers:\n%s", rec.MRK)
	}
	for _, tag := range []string{"LDR", "001", "005", "008", "041", "100", "245", "250", "264", "300", "336", "337", "338", "500", "520", "546"} {
		if findLine(rec.MRK, tag) == "" {
			t.Errorf("missing %s line", tag)
		}
	}
}

func TestGenerateMRK_DelimitersNotEscaped(t *testing.T) {
	md := sampleMetadata()
	md.Title = "Cost $bof living"
	rec := Build(md, models.LanguageLatin, frozen)

	if got := findLine(rec.MRK, "245"); got != "=245  10$aCost $bof living /$cJane Doe." {
		t.Errorf("245 = %q", got)
	}
}

func TestFixedField008(t *testing.T) {
	tests := []struct {
		name string
		year string
		hint models.LanguageHint
		want string
	}{
		{"known year", "1998", models.LanguageLatin, "240102s1998####xx######o#####000#0#eng#d"},
		{"unknown year", "Unknown Year", models.LanguageLatin, "240102nuuuu####xx######o#####000#0#eng#d"},
		{"arabic", "1420", models.LanguageArabicScript, "240102s1420####xx######o#####000#0#ara#d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := sampleMetadata()
			md.Year = tt.year
			got := fixedField008(md, tt.hint, frozen)
			if got != tt.want {
				t.Errorf("008 = %q, want %q", got, tt.want)
			}
			if len(got) != 40 {
				t.Errorf("008 length = %d, want 40", len(got))
			}
		})
	}
}

func TestBuild_ArabicBoilerplate(t *testing.T) {
	md := sampleMetadata()
	md.Language = "ara"
	rec := Build(md, models.LanguageArabicScript, frozen)

	if got := findLine(rec.MRK, "041"); got != "=041  0#$aara" {
		t.Errorf("041 = %q", got)
	}
	if got := findLine(rec.MRK, "546"); got != "=546  ##$aText in Arabic." {
		t.Errorf("546 = %q", got)
	}
	if got := findLine(rec.MRK, "250"); got != "=250  ##$aالطبعة الأولى." {
		t.Errorf("250 = %q", got)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a := Build(sampleMetadata(), models.LanguageLatin, frozen)
	b := Build(sampleMetadata(), models.LanguageLatin, frozen)

	if a.MRK != b.MRK || a.MARCXML != b.MARCXML {
		t.Error("expected identical output for identical input and clock")
	}

	c := Build(sampleMetadata(), models.LanguageLatin, frozen.Add(time.Second))
	if c.Structured.Control.ID == a.Structured.Control.ID {
		t.Error("expected a different control number for a different generation time")
	}
}

func TestBuild_StructuredFields(t *testing.T) {
	md := sampleMetadata()
	rec := Build(md, models.LanguageLatin, frozen)

	if rec.Structured.Leader != Leader {
		t.Errorf("leader = %q", rec.Structured.Leader)
	}
	if rec.Structured.Control.GeneratedAt != "2024-01-02T03:04:05Z" {
		t.Errorf("generated_at = %q", rec.Structured.Control.GeneratedAt)
	}
	if !reflect.DeepEqual(rec.Structured.Fields, md) {
		t.Errorf("fields = %+v, want %+v", rec.Structured.Fields, md)
	}
}

func TestBuild_MARCXMLRoundTrip(t *testing.T) {
	md := sampleMetadata()
	md.ISSN = "1234-567X"
	md.CoAuthors = []string{"John Smith", "Mary Jones"}
	md.Title = "Tom & Jerry <Collected>"
	rec := Build(md, models.LanguageLatin, frozen)

	var parsed xmlRecord
	if err := xml.Unmarshal([]byte(rec.MARCXML), &parsed); err != nil {
		t.Fatalf("MARCXML does not parse: %v", err)
	}

	if parsed.Leader != Leader {
		t.Errorf("leader = %q", parsed.Leader)
	}
	if len(parsed.ControlFields) != 2 || parsed.ControlFields[0].Value != rec.Structured.Control.ID ||
		parsed.ControlFields[1].Value != rec.Structured.Control.GeneratedAt {
		t.Errorf("control fields = %+v", parsed.ControlFields)
	}

	got := models.Metadata{CoAuthors: []string{}}
	var note string
	for _, df := range parsed.DataFields {
		sub := map[string]string{}
		for _, sf := range df.Subfields {
			sub[sf.Code] = sf.Value
		}
		switch df.Tag {
		case "020":
			got.ISBN = sub["a"]
		case "022":
			got.ISSN = sub["a"]
		case "041":
			got.Language = sub["a"]
		case "100":
			got.Author = sub["a"]
		case "245":
			got.Title = sub["a"]
		case "264":
			got.Place, got.Publisher, got.Year = sub["a"], sub["b"], sub["c"]
		case "520":
			got.Summary = sub["a"]
		case "546":
			note = sub["a"]
		case "700":
			got.CoAuthors = append(got.CoAuthors, sub["a"])
		}
	}

	if !reflect.DeepEqual(got, rec.Structured.Fields) {
		t.Errorf("MARCXML fields = %+v\nstructured fields = %+v", got, rec.Structured.Fields)
	}
	if note != "Text in English." {
		t.Errorf("546 = %q, want %q", note, "Text in English.")
	}
}

func TestGenerateMARCXML_ArabicLanguageNote(t *testing.T) {
	out := GenerateMARCXML(sampleMetadata(), models.LanguageArabicScript, "id", frozen)
	if !strings.Contains(out, `<datafield tag="546" ind1=" " ind2=" ">`) {
		t.Fatalf("missing 546 datafield:\n%s", out)
	}
	if !strings.Contains(out, `<subfield code="a">Text in Arabic.</subfield>`) {
		t.Errorf("546 note not rendered:\n%s", out)
	}
}

func TestRender(t *testing.T) {
	rec := Build(sampleMetadata(), models.LanguageLatin, frozen)

	mrk, err := Render(rec, "mrk")
	if err != nil || string(mrk) != rec.MRK {
		t.Errorf("Render(mrk) = %q, %v", mrk, err)
	}

	data, err := Render(rec, "json")
	if err != nil {
		t.Fatalf("Render(json): %v", err)
	}
	var fromJSON models.StructuredRecord
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(fromJSON, rec.Structured) {
		t.Errorf("JSON round trip = %+v, want %+v", fromJSON, rec.Structured)
	}

	data, err = Render(rec, "yaml")
	if err != nil {
		t.Fatalf("Render(yaml): %v", err)
	}
	var fromYAML models.StructuredRecord
	if err := yaml.Unmarshal(data, &fromYAML); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if fromYAML.Fields.Title != rec.Structured.Fields.Title || fromYAML.Control.ID != rec.Structured.Control.ID {
		t.Errorf("YAML round trip = %+v", fromYAML)
	}

	if _, err := Render(rec, "pdf"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
