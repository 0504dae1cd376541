package dataset

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
)

func TestRecordText(t *testing.T) {
	tests := []struct {
		name     string
		record   Record
		expected string
	}{
		{
			name: "uses gen text when available",
			record: Record{
				PagesGen:    []string{"Page 1 gen", "Page 2 gen"},
				PagesSource: []string{"Page 1 src", "Page 2 src"},
			},
			expected: "Page 1 gen\n\nPage 2 gen",
		},
		{
			name:     "falls back to source text",
			record:   Record{PagesSource: []string{"Page 1 src", "Page 2 src"}},
			expected: "Page 1 src\n\nPage 2 src",
		},
		{
			name:     "limits to title pages",
			record:   Record{PagesSource: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}},
			expected: "1\n\n2\n\n3\n\n4\n\n5\n\n6\n\n7\n\n8\n\n9\n\n10",
		},
		{
			name:     "returns empty for no pages",
			record:   Record{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.record.Text(); result != tt.expected {
				t.Errorf("Expected:\n%q\nGot:\n%q", tt.expected, result)
			}
		})
	}
}

func TestRecordDateAndISBN(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		date   string
		isbn   string
	}{
		{"date1 preferred", Record{Date1: "1920", Date2: "1925"}, "1920", ""},
		{"falls back to date2", Record{Date2: "1925"}, "1925", ""},
		{"first isbn", Record{IDs: Identifiers{ISBN: []string{"9780123456789", "0987654321"}}}, "", "9780123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.Date(); got != tt.date {
				t.Errorf("Date() = %q, want %q", got, tt.date)
			}
			if got := tt.record.ISBN(); got != tt.isbn {
				t.Errorf("ISBN() = %q, want %q", got, tt.isbn)
			}
		})
	}
}

const testJSONL = `{"barcode_src":"123","title_src":"Test Book","author_src":"Test Author","date1_src":"2020","text_by_page_src":["Page 1"]}

not json
{"barcode_src":"456","title_src":"Another Book","author_src":"Another Author","date1_src":"2021","text_by_page_src":["Page 1"]}
{"barcode_src":"789","title_src":"Third Book","author_src":"Third Author","date1_src":"2022","text_by_page_src":["Page 1"]}
`

func TestLoadJSONL(t *testing.T) {
	jsonlPath := filepath.Join(t.TempDir(), "test.jsonl")
	if err := os.WriteFile(jsonlPath, []byte(testJSONL), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	loader := NewLoader(jsonlPath)

	t.Run("all records, malformed lines skipped", func(t *testing.T) {
		records, err := loader.Load(context.Background(), 0)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("Expected 3 records, got %d", len(records))
		}
		if records[2].Barcode != "789" || records[2].Date() != "2022" {
			t.Errorf("unexpected third record: %+v", records[2])
		}
	})

	t.Run("sample", func(t *testing.T) {
		records, err := loader.Load(context.Background(), 2)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(records) != 2 || records[0].Title != "Test Book" || records[1].Barcode != "456" {
			t.Errorf("unexpected sample: %+v", records)
		}
	})
}

func TestReadParquet(t *testing.T) {
	want := []Record{
		{Barcode: "1", Title: "First", Author: "A. Writer", Date1: "1901", Language: "eng", PagesSource: []string{"Title: First"}},
		{Barcode: "2", Title: "Second", Author: "B. Writer", Date1: "1902", Language: "eng", IDs: Identifiers{ISBN: []string{"0123456789"}}},
		{Barcode: "3", Title: "Third", Author: "C. Writer", Date1: "1903", Language: "ara"},
	}

	var buf bytes.Buffer
	w := parquet.NewGenericWriter[Record](&buf)
	if _, err := w.Write(want); err != nil {
		t.Fatalf("parquet write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("parquet close: %v", err)
	}

	records, err := readParquet(context.Background(), bytes.NewReader(buf.Bytes()), int64(buf.Len()), 0)
	if err != nil {
		t.Fatalf("readParquet failed: %v", err)
	}
	if len(records) != len(want) {
		t.Fatalf("Expected %d records, got %d", len(want), len(records))
	}
	if records[1].ISBN() != "0123456789" || records[2].Language != "ara" || records[0].Text() != "Title: First" {
		t.Errorf("unexpected records: %+v", records)
	}

	sample, err := readParquet(context.Background(), bytes.NewReader(buf.Bytes()), int64(buf.Len()), 2)
	if err != nil {
		t.Fatalf("readParquet sample failed: %v", err)
	}
	if len(sample) != 2 {
		t.Errorf("Expected 2 records, got %d", len(sample))
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		msg  string
	}{
		{"unsupported format", "test.txt", "unsupported file format"},
		{"missing file", "/nonexistent/path/file.jsonl", "failed to open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(tt.path).Load(context.Background(), 10)
			if err == nil || !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("Expected error containing %q, got %v", tt.msg, err)
			}
		})
	}
}
