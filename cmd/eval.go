package cmd

import (
	"github.com/lehigh-university-libraries/marcextract/internal/evalcmd"
	"github.com/spf13/cobra"
)

func newEvalCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Extraction accuracy evaluation tools",
		Long: `Evaluation tools for measuring how well the heuristics recover title, author,
date, ISBN and language from the title pages of reference catalog records.`,
	}

	cmd.AddCommand(evalcmd.NewRunCmd(version))
	cmd.AddCommand(evalcmd.NewInspectCmd())

	return cmd
}
