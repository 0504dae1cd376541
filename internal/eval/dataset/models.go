package dataset

import "strings"

// TitlePages is how many leading pages make up the text a record is
// evaluated on; title and verso pages sit within them.
const TitlePages = 10

// Record is a reference catalog record with the page text of its book, in
// the column layout of the Institutional Books 1.0 dataset
// (https://huggingface.co/datasets/instdin/institutional-books-1.0).
type Record struct {
	Barcode  string      `json:"barcode_src" parquet:"barcode_src"`
	Title    string      `json:"title_src" parquet:"title_src"`
	Author   string      `json:"author_src" parquet:"author_src"`
	Date1    string      `json:"date1_src" parquet:"date1_src"`
	Date2    string      `json:"date2_src" parquet:"date2_src"`
	Language string      `json:"language_src" parquet:"language_src"` // ISO 639-3 / MARC code
	IDs      Identifiers `json:"identifiers_src" parquet:"identifiers_src"`

	// OCR text per page; the post-processed column is preferred
	PagesSource []string `json:"text_by_page_src" parquet:"text_by_page_src,list"`
	PagesGen    []string `json:"text_by_page_gen" parquet:"text_by_page_gen,list"`
}

type Identifiers struct {
	LCCN []string `json:"lccn" parquet:"lccn,list"`
	ISBN []string `json:"isbn" parquet:"isbn,list"`
	OCLC []string `json:"ocolc" parquet:"ocolc,list"`
}

// Text joins the first TitlePages pages with blank lines, so every page
// starts a new paragraph.
func (r *Record) Text() string {
	pages := r.PagesGen
	if len(pages) == 0 {
		pages = r.PagesSource
	}
	if len(pages) > TitlePages {
		pages = pages[:TitlePages]
	}
	return strings.Join(pages, "\n\n")
}

// Date returns the primary publication date
func (r *Record) Date() string {
	if r.Date1 != "" {
		return r.Date1
	}
	return r.Date2
}

// ISBN returns the first ISBN, or ""
func (r *Record) ISBN() string {
	if len(r.IDs.ISBN) > 0 {
		return r.IDs.ISBN[0]
	}
	return ""
}
