package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <pdf>",
		Short: "Print the text extracted from each page",
		Long: `Print the text lines extracted from each page of a PDF, the same lines
the transaction parser sees. Useful when a statement converts to fewer
transactions than expected.`,
		Args: cobra.ExactArgs(1),
	}

	cmd.RunE = a.withDeps("", func(cmd *cobra.Command, args []string, deps *Dependencies) error {
		pages, err := deps.Extractor.ExtractFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, p := range pages {
			fmt.Fprintf(out, "--- Page %d ---\n", p.Number)
			if p.Empty() {
				fmt.Fprintln(out, "(No text found)")
				continue
			}
			fmt.Fprintln(out, p.Text)
		}
		return nil
	})
	return cmd
}
