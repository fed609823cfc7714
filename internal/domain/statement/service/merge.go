package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/statement-converter/internal/domain/statement"
	"github.com/FACorreiaa/statement-converter/internal/domain/statement/merge"
	"github.com/FACorreiaa/statement-converter/internal/domain/statement/sheet"
)

// MergeFiles combines previously written spreadsheets into dst, ordered by
// date. Inputs that cannot be read are logged and skipped. It returns the
// number of rows written.
func (s *Service) MergeFiles(ctx context.Context, inputs []string, dst string) (int, error) {
	var sets [][]statement.Record
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		records, err := sheet.Open(in)
		if err != nil {
			s.logger.Warn("skipping unreadable merge input",
				slog.String("input", in),
				slog.Any("error", err))
			continue
		}
		sets = append(sets, records)
	}
	if len(sets) == 0 {
		return 0, ErrNothingToMerge
	}

	merged := merge.Merge(s.parser.Layout().DateFormat, sets...)
	if !merged.Sorted {
		s.logger.Warn("dates not parseable, keeping input order",
			slog.String("date", merged.BadDate))
	}
	if err := sheet.Save(dst, merged.Records); err != nil {
		return 0, fmt.Errorf("failed to write merged output: %w", err)
	}

	s.logger.Info("merged statements",
		slog.String("output", dst),
		slog.Int("inputs", len(sets)),
		slog.Int("rows", len(merged.Records)))
	return len(merged.Records), nil
}
