package textsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNoPDFText is returned for PDFs without a text layer, e.g. scanned pages
var ErrNoPDFText = errors.New("no text content found in PDF")

// pdfTokenRe matches PDF string literals in parentheses, (text here), and
// the numeric kerning adjustments between them in TJ arrays.
var pdfTokenRe = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)|(-?\d+(?:\.\d+)?)`)

// wordGap is the TJ adjustment, in thousandths of an em, read as a space
const wordGap = -200

// extractPDF reads the content stream of every page and returns its text,
// pages separated by blank lines.
func extractPDF(ctx context.Context, payload []byte) (string, error) {
	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(payload), conf)
	if err != nil {
		return "", fmt.Errorf("pdfcpu read: %w", err)
	}

	var pages []string
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if text := extractPageText(pdfCtx, pageNr); text != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) == 0 {
		return "", ErrNoPDFText
	}

	return strings.Join(pages, "\n\n"), nil
}

func extractPageText(pdfCtx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
	if err != nil || r == nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return strings.TrimSpace(textFromContentStream(data))
}

// textFromContentStream interprets the text-showing operators of a content
// stream. Positioning operators start a new line so the title page layout
// survives as separate lines.
func textFromContentStream(data []byte) string {
	var sb strings.Builder

	newline := func() {
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteByte('\n')
		}
	}

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		// (text) Tj and [(text) -100 (more text)] TJ
		case bytes.HasSuffix(line, []byte("Tj")):
			writeStrings(&sb, line, false)
		case bytes.HasSuffix(line, []byte("TJ")):
			writeStrings(&sb, line, true)

		// (text) ' and aw ac (text) " move to the next line first
		case bytes.HasSuffix(line, []byte("'")), bytes.HasSuffix(line, []byte(`"`)):
			if bytes.Contains(line, []byte("(")) {
				newline()
				writeStrings(&sb, line, false)
			}

		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")),
			bytes.Equal(line, []byte("T*")), bytes.Equal(line, []byte("ET")):
			newline()
		}
	}

	return sb.String()
}

func writeStrings(sb *strings.Builder, line []byte, kerning bool) {
	wrote := false
	for _, m := range pdfTokenRe.FindAllSubmatch(line, -1) {
		if m[2] == nil {
			sb.WriteString(decodePDFString(m[1]))
			wrote = true
			continue
		}
		if !kerning || !wrote {
			continue
		}
		if gap, err := strconv.ParseFloat(string(m[2]), 64); err == nil && gap <= wordGap {
			sb.WriteByte(' ')
		}
	}
}

// decodePDFString handles the escape sequences of PDF literal strings. Bytes
// are read as Latin-1 so the result is always valid UTF-8.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteRune(rune(raw[i]))
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteRune(rune(raw[i]))
		default:
			if raw[i] < '0' || raw[i] > '7' {
				sb.WriteRune(rune(raw[i]))
				continue
			}
			// octal escape, up to three digits
			val := int(raw[i] - '0')
			for j := 0; j < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; j++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			sb.WriteRune(rune(byte(val)))
		}
	}
	return sb.String()
}
