// Package textsource turns uploaded document payloads into plain text.
package textsource

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Format is a supported document type
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// DecodeError reports a payload that could not be turned into text
type DecodeError struct {
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s payload: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Extractor dispatches a payload to the decoder for its declared type
type Extractor struct {
	logger *slog.Logger
}

// New returns an Extractor; a nil logger uses slog.Default()
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Detect maps a declared type to a Format. The declaration may be a file
// extension (".pdf"), a bare name ("pdf") or a MIME type ("application/pdf").
// An empty declaration is resolved by sniffing the payload.
func Detect(payload []byte, declaredType string) (Format, error) {
	declared := strings.ToLower(strings.TrimSpace(declaredType))
	if i := strings.IndexByte(declared, ';'); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	declared = strings.TrimPrefix(declared, ".")

	switch declared {
	case "pdf", "application/pdf":
		return FormatPDF, nil
	case "html", "htm", "xhtml", "text/html", "application/xhtml+xml":
		return FormatHTML, nil
	case "txt", "text", "md", "mrk", "text/plain", "text/markdown":
		return FormatText, nil
	case "", "application/octet-stream":
		return sniff(payload), nil
	default:
		return "", fmt.Errorf("unsupported document type: %q", declaredType)
	}
}

func sniff(payload []byte) Format {
	contentType := http.DetectContentType(payload)
	switch {
	case strings.HasPrefix(contentType, "application/pdf"):
		return FormatPDF
	case strings.HasPrefix(contentType, "text/html"):
		return FormatHTML
	default:
		return FormatText
	}
}

// ExtractText decodes payload according to declaredType. Failures are
// returned as *DecodeError.
func (x *Extractor) ExtractText(ctx context.Context, payload []byte, declaredType string) (string, error) {
	format, err := Detect(payload, declaredType)
	if err != nil {
		return "", &DecodeError{Format: Format(declaredType), Err: err}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var text string
	switch format {
	case FormatPDF:
		text, err = extractPDF(ctx, payload)
	case FormatHTML:
		text, err = extractHTML(payload)
	default:
		text, err = decodeText(payload)
	}
	if err != nil {
		return "", &DecodeError{Format: format, Err: err}
	}

	text = norm.NFC.String(text)
	x.logger.Debug("Extracted document text", "format", format, "bytes", len(payload), "chars", len(text))
	return text, nil
}
