// Package cataloging runs the extraction pipeline: text in, catalog record out.
package cataloging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/lehigh-university-libraries/marcextract/internal/heuristics"
	"github.com/lehigh-university-libraries/marcextract/internal/language"
	"github.com/lehigh-university-libraries/marcextract/internal/marc"
	"github.com/lehigh-university-libraries/marcextract/internal/models"
	"github.com/lehigh-university-libraries/marcextract/internal/textnorm"
	"github.com/lehigh-university-libraries/marcextract/internal/textsource"
)

// ErrUnreadableInput matches every ExtractionError of kind UnreadableInput
var ErrUnreadableInput = errors.New("unreadable input")

// ErrorKind classifies pipeline failures
type ErrorKind int

const (
	// UnreadableInput means the payload could not be read as text
	UnreadableInput ErrorKind = iota + 1
)

func (k ErrorKind) String() string {
	switch k {
	case UnreadableInput:
		return "unreadable input"
	default:
		return "unknown"
	}
}

// ExtractionError is the only failure the pipeline reports
type ExtractionError struct {
	Kind ErrorKind
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return "extraction failed: " + e.Kind.String()
	}
	return fmt.Sprintf("extraction failed: %s: %v", e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func (e *ExtractionError) Is(target error) bool {
	return target == ErrUnreadableInput && e.Kind == UnreadableInput
}

// TextExtractor turns an uploaded payload into plain text
type TextExtractor interface {
	ExtractText(ctx context.Context, payload []byte, declaredType string) (string, error)
}

type Service struct {
	clock     func() time.Time
	extractor TextExtractor
	logger    *slog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithClock fixes the generation timestamp source, e.g. for reproducible output
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

func WithTextExtractor(x TextExtractor) Option {
	return func(s *Service) { s.extractor = x }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(opts ...Option) *Service {
	s := &Service{clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.extractor == nil {
		s.extractor = textsource.New(s.logger)
	}
	return s
}

// Process extracts text from an uploaded document and runs the pipeline on
// it. Decode failures are returned unchanged as *textsource.DecodeError.
func (s *Service) Process(ctx context.Context, payload []byte, declaredType string) (*models.CatalogRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := s.extractor.ExtractText(ctx, payload, declaredType)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return s.Run(ctx, models.RawDocument{Payload: []byte(text), Extension: declaredType})
}

// Run builds a catalog record from the text payload of raw
func (s *Service) Run(ctx context.Context, raw models.RawDocument) (*models.CatalogRecord, error) {
	if err := checkReadable(raw.Payload); err != nil {
		return nil, err
	}

	md, hint, err := s.analyze(ctx, string(raw.Payload))
	if err != nil {
		return nil, err
	}

	rec := marc.Build(md, hint, s.clock())
	s.logger.Info("Generated catalog record",
		"control_id", rec.Structured.Control.ID,
		"language", hint.String(),
		"title", md.Title,
		"bytes", len(raw.Payload))

	return &rec, nil
}

// ExtractMetadata runs normalization, classification and the field
// extractors without building a record.
func (s *Service) ExtractMetadata(ctx context.Context, text string) (models.Metadata, models.LanguageHint, error) {
	if err := checkReadable([]byte(text)); err != nil {
		return models.Metadata{}, models.LanguageLatin, err
	}
	return s.analyze(ctx, text)
}

func (s *Service) analyze(ctx context.Context, text string) (models.Metadata, models.LanguageHint, error) {
	normalized := textnorm.Normalize(text)
	hint := language.Classify(normalized.Joined)
	in := heuristics.NewInput(normalized, hint)

	s.logger.Debug("Classified document", "language", hint.String(), "lines", len(normalized.Lines), "paragraphs", len(normalized.Paragraphs))

	// each extractor writes a distinct field of md
	var md models.Metadata
	var g errgroup.Group
	for _, ex := range heuristics.Extractors() {
		g.Go(func() error {
			ex.Apply(in, &md)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.Metadata{}, hint, err
	}

	if err := ctx.Err(); err != nil {
		return models.Metadata{}, hint, err
	}

	return md, hint, nil
}

func checkReadable(payload []byte) error {
	if !utf8.Valid(payload) {
		return &ExtractionError{Kind: UnreadableInput, Err: errors.New("payload is not valid UTF-8")}
	}
	if bytes.IndexByte(payload, 0) >= 0 {
		return &ExtractionError{Kind: UnreadableInput, Err: errors.New("payload contains NUL bytes")}
	}
	return nil
}
