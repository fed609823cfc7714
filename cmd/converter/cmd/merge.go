package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMergeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <output> <input>...",
		Short: "Merge converted spreadsheets into one, sorted by date",
		Long: `Merge previously converted XLSX or CSV files into one file. Rows are
sorted by date; rows with the same date keep their input order. If any date
cannot be read the input order is kept for all rows. Unreadable inputs are
skipped with a warning.

Example:
  statement-converter merge 2025.xlsx 2025_09.xlsx 2025_10.xlsx`,
		Args: cobra.MinimumNArgs(2),
	}

	cmd.RunE = a.withDeps("", func(cmd *cobra.Command, args []string, deps *Dependencies) error {
		n, err := deps.Service.MergeFiles(cmd.Context(), args[1:], args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Merged %d transactions into %s\n", n, args[0])
		return nil
	})
	return cmd
}
