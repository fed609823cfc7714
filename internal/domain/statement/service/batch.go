package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/statement-converter/internal/domain/statement"
	"github.com/FACorreiaa/statement-converter/internal/domain/statement/merge"
	"github.com/FACorreiaa/statement-converter/internal/domain/statement/sheet"
)

// DefaultCombinedName is the merged output name used in folder mode.
const DefaultCombinedName = "combined_all_statements.xlsx"

// BatchOptions configures ConvertBatch.
type BatchOptions struct {
	Workers     int    // documents converted at once, at least 1
	Merge       bool   // also write one combined file
	MergeOutput string // combined file path, default <dir>/DefaultCombinedName
}

// DocumentOutcome is the result of one document of a batch.
type DocumentOutcome struct {
	Source string
	Result *DocumentResult
	Err    error
}

// OK reports whether the document was converted.
func (o DocumentOutcome) OK() bool {
	return o.Err == nil
}

// BatchResult is the result of converting a folder.
type BatchResult struct {
	RunID     uuid.UUID
	Documents []DocumentOutcome // in file name order
	Succeeded int
	Failed    int

	MergeOutput string // empty when no merge was written
	Merged      int    // rows in the merged file
	MergeSorted bool
}

// Summary is the closing line printed after a batch.
func (b *BatchResult) Summary() string {
	return fmt.Sprintf("Summary: %d successful, %d failed", b.Succeeded, b.Failed)
}

// ListPDFs returns the PDF files directly inside dir, sorted by name.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && IsPDF(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// ConvertBatch converts every PDF in dir. A failing document is recorded in
// the result and never stops the others.
func (s *Service) ConvertBatch(ctx context.Context, dir string, opts BatchOptions) (*BatchResult, error) {
	paths, err := ListPDFs(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDocuments, dir)
	}

	res := &BatchResult{
		RunID:     uuid.New(),
		Documents: make([]DocumentOutcome, len(paths)),
	}
	logger := s.logger.With(slog.String("run_id", res.RunID.String()))
	logger.Info("starting batch conversion",
		slog.String("dir", dir),
		slog.Int("documents", len(paths)))

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			doc, err := s.ConvertFile(ctx, path, "")
			res.Documents[i] = DocumentOutcome{Source: path, Result: doc, Err: err}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				logger.Warn("failed to convert statement",
					slog.String("source", path),
					slog.Any("error", err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch conversion of %s interrupted: %w", dir, err)
	}

	var sets [][]statement.Record
	for _, d := range res.Documents {
		if !d.OK() {
			res.Failed++
			continue
		}
		res.Succeeded++
		sets = append(sets, d.Result.Records())
	}

	logger.Info("batch conversion finished",
		slog.Int("succeeded", res.Succeeded),
		slog.Int("failed", res.Failed))

	if !opts.Merge {
		return res, nil
	}
	if len(sets) == 0 {
		logger.Warn("no converted documents to merge")
		return res, nil
	}

	out := opts.MergeOutput
	if out == "" {
		out = filepath.Join(dir, DefaultCombinedName)
	}
	merged := merge.Merge(s.parser.Layout().DateFormat, sets...)
	if !merged.Sorted {
		logger.Warn("dates not parseable, keeping document order",
			slog.String("date", merged.BadDate))
	}
	if err := sheet.Save(out, merged.Records); err != nil {
		return res, fmt.Errorf("failed to write merged output: %w", err)
	}

	res.MergeOutput = out
	res.Merged = len(merged.Records)
	res.MergeSorted = merged.Sorted
	logger.Info("wrote merged statements",
		slog.String("output", out),
		slog.Int("rows", res.Merged))
	return res, nil
}
