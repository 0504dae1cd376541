package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd(version string) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "marcextract",
		Short: "Bibliographic metadata extraction into MARC records",
		Long: `marcextract reads the text of a document (plain text, HTML or PDF), infers its
bibliographic metadata with language-aware heuristics and renders a MARC
record as MARC mnemonic text (.mrk), a structured record and MARCXML.

It runs as a one-shot CLI, as an HTTP service, or as an evaluation harness
against reference catalog records.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newExtractCmd())
	cmd.AddCommand(newEvalCmd(version))

	return cmd
}
