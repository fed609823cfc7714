// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/FACorreiaa/statement-converter/internal/domain/statement/service"
)

// InboxProcessor converts the new files of an inbox.
type InboxProcessor interface {
	ProcessInbox(ctx context.Context, inbox string, l service.Ledger) (service.InboxResult, error)
}

// Scheduler runs the inbox scan on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	processor InboxProcessor
	ledger    service.Ledger
	inbox     string
	spec      string
	timeout   time.Duration
	logger    *slog.Logger

	// ctx is cancelled by Stop and aborts a scan in progress.
	ctx    context.Context
	cancel context.CancelFunc

	mu sync.Mutex // one scan at a time
}

// NewScheduler creates a scheduler scanning inbox according to spec, a
// standard 5-field cron expression.
func NewScheduler(processor InboxProcessor, l service.Ledger, inbox, spec string, logger *slog.Logger) *Scheduler {
	// Create cron with seconds disabled (standard 5-field format)
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:      c,
		processor: processor,
		ledger:    l,
		inbox:     inbox,
		spec:      spec,
		timeout:   30 * time.Minute,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins scheduled scans.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.scheduledScan); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.String("schedule", s.spec),
		slog.String("inbox", s.inbox),
	)
	return nil
}

// Stop stops scheduling and cancels a running scan; the returned context is
// done when that scan has returned.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	s.cancel()
	return s.cron.Stop()
}

// RunNow runs one scan synchronously, outside the schedule. The scan ends
// early when ctx is done or the scheduler is stopped. A scan already running
// makes RunNow return nil without scanning.
func (s *Scheduler) RunNow(ctx context.Context) error {
	return s.scanInbox(ctx)
}

func (s *Scheduler) scheduledScan() {
	if err := s.scanInbox(s.ctx); err != nil {
		s.logger.Error("inbox scan failed",
			slog.String("inbox", s.inbox),
			slog.Any("error", err),
		)
	}
}

func (s *Scheduler) scanInbox(parent context.Context) error {
	if !s.mu.TryLock() {
		s.logger.Warn("previous inbox scan still running, skipping")
		return nil
	}
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	if _, err := s.processor.ProcessInbox(ctx, s.inbox, s.ledger); err != nil {
		return fmt.Errorf("inbox scan of %s: %w", s.inbox, err)
	}
	return nil
}
