package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/marcextract/internal/cataloging"
	"github.com/lehigh-university-libraries/marcextract/internal/marc"
)

func newExtractCmd() *cobra.Command {
	var format string
	var output string
	var docType string

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract a MARC record from a document",
		Long: `Reads a plain text, HTML or PDF document and prints the inferred MARC record.

Use "-" to read from standard input; the document type is then taken from
--type or sniffed from the content.`,
		Example: `  # Print MARC mnemonic text
  marcextract extract book.pdf

  # Structured record as YAML
  marcextract extract title-page.txt --format yaml

  # MARCXML to a file
  marcextract extract page.html --format xml --output record.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			var payload []byte
			var err error
			if path == "-" {
				payload, err = io.ReadAll(cmd.InOrStdin())
			} else {
				payload, err = os.ReadFile(path)
			}
			if err != nil {
				return fmt.Errorf("failed to read document: %w", err)
			}

			if docType == "" && path != "-" {
				docType = filepath.Ext(path)
			}

			service := cataloging.NewService(cataloging.WithLogger(slog.Default()))
			rec, err := service.Process(cmd.Context(), payload, docType)
			if err != nil {
				return fmt.Errorf("failed to extract metadata: %w", err)
			}

			data, err := marc.Render(*rec, format)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			slog.Info("Record written", "path", output, "format", format, "control_id", rec.Structured.Control.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "mrk", "Output format ("+strings.Join(marc.Formats, ", ")+")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().StringVarP(&docType, "type", "t", "", "Document type (txt, html, pdf or a MIME type); defaults to the file extension")

	return cmd
}
