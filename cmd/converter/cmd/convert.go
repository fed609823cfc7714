package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/statement-converter/internal/domain/statement/service"
)

var errBatchFailed = errors.New("some documents failed to convert")

func newConvertCmd(a *app) *cobra.Command {
	var (
		mergeOutputs bool
		format       string
		workers      int
	)

	cmd := &cobra.Command{
		Use:   "convert <pdf_file_or_folder> [output]",
		Short: "Convert a statement PDF or a folder of them",
		Long: `Convert one statement PDF, or every PDF in a folder, to a spreadsheet.

For a single file the optional second argument names the output file
(default: the input name with the output format's extension).

For a folder every *.pdf is converted next to its source. With --merge the
records of all converted documents are also written, sorted by date, to one
combined file: the second argument, or combined_all_statements.xlsx in the
folder.

Example:
  statement-converter convert wyciag.pdf
  statement-converter convert wyciag.pdf wrzesien.csv
  statement-converter convert statements/ --merge --workers 8`,
		Args: cobra.RangeArgs(1, 2),
	}

	cmd.Flags().BoolVar(&mergeOutputs, "merge", false, "folder mode: also write one combined file")
	cmd.Flags().StringVar(&format, "format", "", "output format, xlsx or csv (overrides OUTPUT_FORMAT)")
	cmd.Flags().IntVar(&workers, "workers", 0, "folder mode: documents converted at once (overrides CONVERT_WORKERS)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return a.withDeps(format, func(cmd *cobra.Command, args []string, deps *Dependencies) error {
			input := args[0]
			info, err := os.Stat(input)
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			var output string
			if len(args) == 2 {
				output = args[1]
			}

			if !info.IsDir() {
				return convertFile(cmd, deps, input, output)
			}

			opts := service.BatchOptions{
				Workers: deps.Config.Convert.Workers,
				Merge:   mergeOutputs,
			}
			if workers > 0 {
				opts.Workers = workers
			}
			if mergeOutputs {
				opts.MergeOutput = output
				if opts.MergeOutput == "" {
					opts.MergeOutput = filepath.Join(input, deps.Config.Convert.CombinedOutputName)
				}
			}
			return convertFolder(cmd, deps, input, opts)
		})(cmd, args)
	}
	return cmd
}

func convertFile(cmd *cobra.Command, deps *Dependencies, input, output string) error {
	if !service.IsPDF(input) {
		return fmt.Errorf("%w: %s", service.ErrNotPDF, input)
	}

	res, err := deps.Service.ConvertFile(cmd.Context(), input, output)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Converted %d transactions from %s to %s\n", len(res.Transactions), input, res.Output)
	fmt.Fprintf(out, "Inflow: %s  Outflow: %s  Net: %s\n",
		res.Totals.Inflow.Display(), res.Totals.Outflow.Display(), res.Totals.Net.Display())
	return nil
}

func convertFolder(cmd *cobra.Command, deps *Dependencies, dir string, opts service.BatchOptions) error {
	res, err := deps.Service.ConvertBatch(cmd.Context(), dir, opts)
	if err != nil && res == nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, d := range res.Documents {
		name := filepath.Base(d.Source)
		if d.OK() {
			fmt.Fprintf(out, "OK      %s: %d transactions -> %s\n", name, len(d.Result.Transactions), filepath.Base(d.Result.Output))
			continue
		}
		fmt.Fprintf(out, "FAILED  %s: %v\n", name, d.Err)
	}
	if res.MergeOutput != "" {
		fmt.Fprintf(out, "Merged %d transactions into %s\n", res.Merged, res.MergeOutput)
	}
	fmt.Fprintln(out, res.Summary())

	if err != nil {
		return err
	}
	if res.Failed > 0 {
		return errBatchFailed
	}
	return nil
}
