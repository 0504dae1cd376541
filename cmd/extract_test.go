package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractCmd(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "book.txt")
	if err := os.WriteFile(doc, []byte("Title: The Great Work\nAuthor: Jane Doe\nPublisher: Acme Press\n1998\nISBN: 1234567890"), 0644); err != nil {
		t.Fatalf("write document: %v", err)
	}

	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"mrk", "mrk", "=245  10$aThe Great Work /$cJane Doe."},
		{"json", "json", `"title": "The Great Work"`},
		{"yaml", "yaml", "title: The Great Work"},
		{"xml", "xml", `<subfield code="a">The Great Work</subfield>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewRootCmd("test")
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"extract", doc, "--format", tt.format})

			if err := root.ExecuteContext(context.Background()); err != nil {
				t.Fatalf("extract failed: %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out.String())
			}
		})
	}
}

func TestExtractCmd_OutputFileAndStdin(t *testing.T) {
	output := filepath.Join(t.TempDir(), "record.mrk")

	root := NewRootCmd("test")
	root.SetIn(strings.NewReader("<html><head><title>Stdin Catalog Title</title></head><body><p>by Ann Author</p></body></html>"))
	root.SetArgs([]string{"extract", "-", "--type", "html", "--output", output})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "=100  1#$aAnn Author") {
		t.Errorf("record = %s", data)
	}
}

func TestExtractCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "scan.txt")
	if err := os.WriteFile(binary, []byte{0, 1, 2, 3}, 0644); err != nil {
		t.Fatalf("write document: %v", err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"extract", filepath.Join(dir, "nope.txt")}},
		{"binary document", []string{"extract", binary}},
		{"unknown format", []string{"extract", binary, "--format", "docx"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewRootCmd("test")
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(tt.args)
			if err := root.ExecuteContext(context.Background()); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
