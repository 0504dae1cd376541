package evalcmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lehigh-university-libraries/marcextract/internal/cataloging"
	"github.com/lehigh-university-libraries/marcextract/internal/eval/dataset"
	"github.com/lehigh-university-libraries/marcextract/internal/eval/metrics"
	"github.com/lehigh-university-libraries/marcextract/internal/eval/results"
	"github.com/lehigh-university-libraries/marcextract/internal/heuristics"
	"github.com/lehigh-university-libraries/marcextract/internal/models"
)

// RunOptions configures an evaluation run
type RunOptions struct {
	DatasetPath string
	SampleSize  int
	Workers     int
	OutputDir   string
	Version     string
}

// NewRunCmd creates the run command
func NewRunCmd(version string) *cobra.Command {
	opts := RunOptions{Version: version}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate extraction accuracy against reference catalog records",
		Long: `Runs the extraction pipeline on the title pages of every dataset record and
compares title, author, date, ISBN and language with the reference catalog metadata.

Datasets use the Institutional Books 1.0 layout, as .parquet or .jsonl:
https://huggingface.co/datasets/instdin/institutional-books-1.0`,
		Example: `  # Evaluate 100 records
  marcextract eval run --dataset ./train-00000-of-09831.parquet --sample 100

  # Evaluate a whole JSONL file with 8 workers
  marcextract eval run --dataset ./books.jsonl --sample 0 --workers 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(opts.DatasetPath); os.IsNotExist(err) {
				return fmt.Errorf("dataset file not found: %s", opts.DatasetPath)
			}

			agg, path, err := executeRun(cmd.Context(), cataloging.NewService(), opts, time.Now())
			if err != nil {
				return err
			}

			agg.PrintSummary(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "\nResults saved to: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.DatasetPath, "dataset", "", "Path to parquet or jsonl dataset file (required)")
	cmd.Flags().IntVar(&opts.SampleSize, "sample", 10, "Number of records to evaluate (0 for all)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 4, "Records evaluated concurrently")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "evals", "Directory for YAML results")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func executeRun(ctx context.Context, service *cataloging.Service, opts RunOptions, now time.Time) (*metrics.AggregateResults, string, error) {
	slog.Info("Starting evaluation run", "dataset", opts.DatasetPath, "sample_size", opts.SampleSize, "workers", opts.Workers)

	records, err := dataset.NewLoader(opts.DatasetPath).Load(ctx, opts.SampleSize)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load dataset: %w", err)
	}
	slog.Info("Dataset loaded", "records", len(records))

	evaluated := make([]metrics.EvaluationResult, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Workers, 1))
	for i, record := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slog.Debug("Processing record", "index", i+1, "total", len(records), "barcode", record.Barcode)
			evaluated[i] = evaluateRecord(gctx, service, record)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	agg := metrics.AggregateEvaluationResults(evaluated, now)
	cfg := results.EvalConfig{
		Extractor:   "heuristics",
		Version:     opts.Version,
		DatasetPath: opts.DatasetPath,
		SampleSize:  opts.SampleSize,
		Workers:     opts.Workers,
	}
	path, err := results.SaveToYAML(opts.OutputDir, cfg, agg, now)
	if err != nil {
		return nil, "", err
	}

	slog.Info("Evaluation complete", "overall_accuracy", agg.OverallAccuracy, "output", path)
	return agg, path, nil
}

func evaluateRecord(ctx context.Context, service *cataloging.Service, record dataset.Record) metrics.EvaluationResult {
	start := time.Now()
	result := metrics.EvaluationResult{
		Barcode: record.Barcode,
		Title:   record.Title,
		Author:  record.Author,
	}

	text := record.Text()
	if text == "" {
		result.Error = "No OCR text available for title pages"
		result.ProcessingTime = time.Since(start)
		return result
	}

	rec, err := service.Run(ctx, models.RawDocument{Payload: []byte(text), Extension: ".txt"})
	result.ProcessingTime = time.Since(start)
	if err != nil {
		result.Error = fmt.Sprintf("Metadata extraction failed: %v", err)
		return result
	}

	result.GeneratedMRK = rec.MRK
	result.Extracted = extractedValues(rec.Metadata, rec.Language)
	result.Comparison = metrics.Compare(referenceValues(record), result.Extracted)

	slog.Debug("Comparison complete",
		"barcode", record.Barcode,
		"overall_score", result.Comparison.OverallScore,
		"fields_matched", result.Comparison.FieldsMatched,
		"fields_missing", result.Comparison.FieldsMissing)

	return result
}

func referenceValues(record dataset.Record) metrics.Values {
	return metrics.Values{
		Title:    record.Title,
		Author:   record.Author,
		Date:     record.Date(),
		ISBN:     record.ISBN(),
		Language: record.Language,
	}
}

// extractedValues blanks sentinel placeholders so they score as missing
func extractedValues(md models.Metadata, hint models.LanguageHint) metrics.Values {
	s := heuristics.ForLanguage(hint).Sentinels
	blank := func(v, sentinel string) string {
		if v == sentinel {
			return ""
		}
		return v
	}
	return metrics.Values{
		Title:    blank(md.Title, s.Title),
		Author:   blank(md.Author, s.Author),
		Date:     blank(md.Year, s.Year),
		ISBN:     md.ISBN,
		Language: md.Language,
	}
}
