// Package cmd provides the CLI commands of the statement converter.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/statement-converter/pkg/config"
)

// app carries the global flags and what PersistentPreRunE builds from them.
type app struct {
	envFile     string
	layoutFile  string
	metricsFile string
	debug       bool

	cfg    *config.Config
	logger *slog.Logger
}

// Execute runs the root command. This is called by main.main().
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "statement-converter",
		Short: "Convert Polish bank statement PDFs to spreadsheets",
		Long: `statement-converter extracts the transactions of Polish bank statement
PDFs (date, counterparty and account number, description, amount) and writes
them to XLSX or CSV files.

Example:
  statement-converter convert wyciag_09_2025.pdf
  statement-converter convert statements/ --merge
  statement-converter merge all.xlsx 2025_09.xlsx 2025_10.xlsx
  statement-converter inspect wyciag_09_2025.pdf
  statement-converter check wyciag_09_2025.xlsx --find kowalski`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.envFile, "env", "", "env file to load (default is .env when present)")
	rootCmd.PersistentFlags().StringVar(&a.layoutFile, "layout", "", "YAML statement layout (overrides STATEMENT_LAYOUT_FILE)")
	rootCmd.PersistentFlags().StringVar(&a.metricsFile, "metrics-file", "", "write prometheus metrics to this textfile (overrides METRICS_TEXTFILE)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newConvertCmd(a),
		newMergeCmd(a),
		newInspectCmd(a),
		newCheckCmd(a),
		newWatchCmd(a),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	var envFiles []string
	if a.envFile != "" {
		envFiles = append(envFiles, a.envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.layoutFile != "" {
		cfg.Convert.LayoutFile = a.layoutFile
	}
	if a.metricsFile != "" {
		cfg.Metrics.TextfilePath = a.metricsFile
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	if a.debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	a.cfg = cfg
	a.logger = slog.New(handler)
	slog.SetDefault(a.logger)
	return nil
}

// withDeps wraps a command body with dependency setup and cleanup.
func (a *app) withDeps(format string, fn func(cmd *cobra.Command, args []string, deps *Dependencies) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		deps, err := InitDependencies(a.cfg, a.logger, format)
		if err != nil {
			return err
		}
		defer deps.Cleanup()
		return fn(cmd, args, deps)
	}
}
