package models

import "time"

// RawDocument is the payload handed to the extraction pipeline for a single call
type RawDocument struct {
	Payload   []byte
	Extension string // declared file extension, e.g. ".txt" or ".pdf"
}

// LanguageHint is the script classification of a document
type LanguageHint int

const (
	LanguageLatin LanguageHint = iota
	LanguageArabicScript
)

// Code returns the MARC language code for the hint
func (h LanguageHint) Code() string {
	if h == LanguageArabicScript {
		return "ara"
	}
	return "eng"
}

// Note returns the 546 language note for the hint
func (h LanguageHint) Note() string {
	if h == LanguageArabicScript {
		return "Text in Arabic."
	}
	return "Text in English."
}

func (h LanguageHint) String() string {
	if h == LanguageArabicScript {
		return "arabic_script"
	}
	return "latin"
}

// Metadata holds the bibliographic attributes inferred from a document.
// Every field carries a value after extraction; ISBN, ISSN and CoAuthors may be empty.
type Metadata struct {
	Title     string   `json:"title" yaml:"title"`
	Author    string   `json:"author" yaml:"author"`
	CoAuthors []string `json:"coauthors" yaml:"coauthors"`
	Publisher string   `json:"publisher" yaml:"publisher"`
	Place     string   `json:"place" yaml:"place"`
	Year      string   `json:"year" yaml:"year"`
	ISBN      string   `json:"isbn" yaml:"isbn"`
	ISSN      string   `json:"issn" yaml:"issn"`
	Summary   string   `json:"summary" yaml:"summary"`
	Language  string   `json:"language" yaml:"language"` // MARC language code
}

// ControlBlock identifies one generated record
type ControlBlock struct {
	ID          string `json:"id" yaml:"id"`
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
}

// StructuredRecord is the key-value view of a catalog record
type StructuredRecord struct {
	Leader  string       `json:"leader" yaml:"leader"`
	Control ControlBlock `json:"control" yaml:"control"`
	Fields  Metadata     `json:"fields" yaml:"fields"`
}

// CatalogRecord bundles the three serialized views built from one Metadata instance
type CatalogRecord struct {
	Metadata    Metadata         `json:"-"`
	Language    LanguageHint     `json:"-"`
	GeneratedAt time.Time        `json:"-"`
	MRK         string           `json:"mrk"`
	Structured  StructuredRecord `json:"record"`
	MARCXML     string           `json:"marcxml"`
}
