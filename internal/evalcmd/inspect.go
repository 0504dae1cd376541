package evalcmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/marcextract/internal/cataloging"
	"github.com/lehigh-university-libraries/marcextract/internal/eval/dataset"
)

// previewChars bounds the page text shown per record
const previewChars = 500

type inspectOptions struct {
	datasetPath string
	limit       int
	interactive bool
	showText    bool
}

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var opts inspectOptions

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show reference and extracted metadata side by side",
		Long: `Inspect records from a parquet or jsonl dataset file.

For each record the reference catalog fields are printed next to what the
extractor finds in the title pages, followed by a preview of the page text.`,
		Example: `  # Inspect first 5 records interactively
  marcextract eval inspect --dataset ./data.parquet --limit 5 --interactive

  # Metadata only
  marcextract eval inspect --dataset ./data.parquet --text=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeInspect(cmd.Context(), cmd.OutOrStdout(), os.Stdin, cataloging.NewService(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.datasetPath, "dataset", "", "Path to parquet or jsonl dataset file (required)")
	cmd.Flags().IntVar(&opts.limit, "limit", 10, "Number of records to inspect (0 for all)")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", false, "Pause after each record (press Enter to continue)")
	cmd.Flags().BoolVar(&opts.showText, "text", true, "Show a preview of the title page text")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func executeInspect(ctx context.Context, out io.Writer, in io.Reader, service *cataloging.Service, opts inspectOptions) error {
	records, err := dataset.NewLoader(opts.datasetPath).Load(ctx, opts.limit)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	fmt.Fprintf(out, "Loaded %d records from %s\n", len(records), opts.datasetPath)
	fmt.Fprintln(out, strings.Repeat("=", 80))

	reader := bufio.NewReader(in)
	for i, record := range records {
		if ctx.Err() != nil {
			fmt.Fprintln(out, "\nInspection interrupted.")
			return nil
		}

		fmt.Fprintf(out, "\nRECORD %d/%d  %s\n", i+1, len(records), record.Barcode)
		fmt.Fprintln(out, strings.Repeat("-", 80))

		text := record.Text()
		md, hint, err := service.ExtractMetadata(ctx, text)
		if err != nil {
			fmt.Fprintf(out, "Extraction failed: %v\n", err)
		} else {
			fmt.Fprintf(out, "%-10s %-34s %s\n", "", "REFERENCE", "EXTRACTED")
			row := func(label, ref, got string) {
				fmt.Fprintf(out, "%-10s %-34s %s\n", label+":", ref, got)
			}
			row("Title", record.Title, md.Title)
			row("Author", record.Author, md.Author)
			row("Date", record.Date(), md.Year)
			row("ISBN", record.ISBN(), md.ISBN)
			row("Language", record.Language, md.Language)
			row("Publisher", "", md.Publisher)
			fmt.Fprintf(out, "Script: %s\n", hint)
		}

		if opts.showText {
			preview, truncated := text, false
			if r := []rune(text); len(r) > previewChars {
				preview, truncated = string(r[:previewChars]), true
			}
			fmt.Fprintf(out, "\nTEXT PREVIEW (%d characters):\n", len([]rune(text)))
			fmt.Fprintln(out, preview)
			if truncated {
				fmt.Fprintln(out, "[... truncated ...]")
			}
		}

		if opts.interactive && i < len(records)-1 {
			fmt.Fprint(out, "\nPress Enter to continue to next record (or Ctrl+C to quit)...")

			inputCh := make(chan struct{})
			go func() {
				_, _ = reader.ReadString('\n')
				close(inputCh)
			}()

			select {
			case <-ctx.Done():
				fmt.Fprintln(out, "\nInspection interrupted.")
				return nil
			case <-inputCh:
			}
		}
	}

	return nil
}
