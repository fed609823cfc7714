package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/FACorreiaa/statement-converter/internal/domain/statement/ledger"
)

// Ledger records processed file versions.
type Ledger interface {
	Seen(fingerprint string) (bool, error)
	Put(e ledger.Entry) error
}

// InboxResult counts the outcome of one inbox scan.
type InboxResult struct {
	RunID     uuid.UUID
	Converted int
	Failed    int
	Skipped   int
}

// ProcessInbox converts every PDF in inbox that the ledger has not seen yet
// and records each outcome, failures included, so a broken file is not retried
// until it changes.
func (s *Service) ProcessInbox(ctx context.Context, inbox string, l Ledger) (InboxResult, error) {
	res := InboxResult{RunID: uuid.New()}
	logger := s.logger.With(slog.String("run_id", res.RunID.String()))

	paths, err := ListPDFs(inbox)
	if err != nil {
		return res, err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		fp, err := ledger.Fingerprint(path)
		if err != nil {
			logger.Warn("skipping file", slog.String("source", path), slog.Any("error", err))
			continue
		}
		seen, err := l.Seen(fp)
		if err != nil {
			return res, err
		}
		if seen {
			res.Skipped++
			s.metrics.Skipped()
			continue
		}

		entry := ledger.Entry{
			Fingerprint: fp,
			Path:        path,
			RunID:       res.RunID.String(),
		}
		doc, err := s.ConvertFile(ctx, path, "")
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		if err != nil {
			res.Failed++
			entry.Status = ledger.StatusFailed
			entry.Error = err.Error()
			logger.Warn("failed to convert statement", slog.String("source", path), slog.Any("error", err))
		} else {
			res.Converted++
			entry.Status = ledger.StatusConverted
			entry.Output = doc.Output
			entry.Transactions = len(doc.Transactions)
			entry.Totals = doc.Totals
		}

		if err := l.Put(entry); err != nil {
			return res, err
		}
	}

	logger.Info("inbox scan finished",
		slog.String("inbox", inbox),
		slog.Int("converted", res.Converted),
		slog.Int("failed", res.Failed),
		slog.Int("skipped", res.Skipped))
	return res, nil
}
