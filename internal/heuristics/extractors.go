package heuristics

import "github.com/lehigh-university-libraries/marcextract/internal/models"

// Extractor fills exactly one Metadata field. Extractors never touch the same
// field, so a set of them may run concurrently against one Metadata value.
type Extractor struct {
	Field string
	Apply func(in Input, md *models.Metadata)
}

// Extractors returns one extractor per Metadata field
func Extractors() []Extractor {
	return []Extractor{
		{"title", func(in Input, md *models.Metadata) { md.Title = Title(in) }},
		{"author", func(in Input, md *models.Metadata) { md.Author = Author(in) }},
		{"coauthors", func(in Input, md *models.Metadata) { md.CoAuthors = CoAuthors(in) }},
		{"publisher", func(in Input, md *models.Metadata) { md.Publisher = Publisher(in) }},
		{"place", func(in Input, md *models.Metadata) { md.Place = Place(in) }},
		{"year", func(in Input, md *models.Metadata) { md.Year = Year(in) }},
		{"isbn", func(in Input, md *models.Metadata) { md.ISBN = ISBN(in) }},
		{"issn", func(in Input, md *models.Metadata) { md.ISSN = ISSN(in) }},
		{"summary", func(in Input, md *models.Metadata) { md.Summary = Summary(in) }},
		{"language", func(in Input, md *models.Metadata) { md.Language = Language(in) }},
	}
}

// Extract runs every extractor in order
func Extract(in Input) models.Metadata {
	var md models.Metadata
	for _, ex := range Extractors() {
		ex.Apply(in, &md)
	}
	return md
}
