package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"github.com/FACorreiaa/statement-converter/internal/domain/statement"
	"github.com/FACorreiaa/statement-converter/internal/domain/statement/sheet"
	"github.com/FACorreiaa/statement-converter/pkg/money"
)

const counterpartyWidth = 40

func newCheckCmd(a *app) *cobra.Command {
	var find string

	cmd := &cobra.Command{
		Use:   "check <spreadsheet>",
		Short: "List the transactions of a converted file with totals",
		Long: `List date, amount and counterparty of every row of a converted XLSX or
CSV file, followed by inflow, outflow and net totals. --find keeps only rows
whose counterparty or description fuzzily matches the given text.

Example:
  statement-converter check wyciag.xlsx
  statement-converter check wyciag.xlsx --find kowalski`,
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().StringVar(&find, "find", "", "show only rows fuzzily matching this text")

	cmd.RunE = a.withDeps("", func(cmd *cobra.Command, args []string, deps *Dependencies) error {
		records, err := sheet.Open(args[0])
		if err != nil {
			return err
		}
		if find != "" {
			records = filterRecords(records, find)
		}
		return printRecords(cmd.OutOrStdout(), records, deps.Layout.Currency)
	})
	return cmd
}

// filterRecords keeps records whose counterparty or description contains the
// characters of query in order, ignoring case and diacritics.
func filterRecords(records []statement.Record, query string) []statement.Record {
	var out []statement.Record
	for _, r := range records {
		if fuzzy.MatchNormalizedFold(query, r.Counterparty) || fuzzy.MatchNormalizedFold(query, r.Description) {
			out = append(out, r)
		}
	}
	return out
}

func printRecords(w io.Writer, records []statement.Record, currency string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t  %s\n", r.Date, r.Amount, truncate(r.Counterparty, counterpartyWidth))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	amounts := make([]string, len(records))
	for i, r := range records {
		amounts[i] = r.Amount
	}
	totals, err := money.Sum(amounts, currency)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Rows: %d\n", len(records))
	fmt.Fprintf(w, "Inflow: %s  Outflow: %s  Net: %s\n",
		totals.Inflow.Display(), totals.Outflow.Display(), totals.Net.Display())
	if totals.Invalid > 0 {
		fmt.Fprintf(w, "Unreadable amounts: %d\n", totals.Invalid)
	}
	return nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}
