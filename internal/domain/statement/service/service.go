// Package service orchestrates statement conversion: PDF text extraction,
// transaction parsing and spreadsheet output, for single files, folders and
// a watched inbox.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/statement-converter/internal/domain/statement"
	"github.com/FACorreiaa/statement-converter/internal/domain/statement/parser"
	"github.com/FACorreiaa/statement-converter/internal/domain/statement/pdftext"
	"github.com/FACorreiaa/statement-converter/internal/domain/statement/sheet"
	"github.com/FACorreiaa/statement-converter/pkg/metrics"
	"github.com/FACorreiaa/statement-converter/pkg/money"
)

var (
	// ErrNoTransactions is returned when a document yields no transactions.
	// Nothing is written in that case.
	ErrNoTransactions = errors.New("no transactions found")
	// ErrNotPDF is returned for input files without a .pdf extension.
	ErrNotPDF = errors.New("input is not a .pdf file")
	// ErrNoDocuments is returned when a folder holds no PDF files.
	ErrNoDocuments = errors.New("no pdf files found")
	// ErrNothingToMerge is returned when no merge input could be read.
	ErrNothingToMerge = errors.New("nothing to merge")
)

const tracerName = "github.com/FACorreiaa/statement-converter/internal/domain/statement/service"

// TextExtractor returns the text of every page of a PDF file.
type TextExtractor interface {
	ExtractFile(ctx context.Context, path string) ([]pdftext.Page, error)
}

// DocumentResult describes one converted document.
type DocumentResult struct {
	Source        string
	Output        string
	Pages         int
	EmptyPages    int
	Headers       int
	DroppedBlocks int
	Transactions  []statement.Transaction
	Totals        money.Totals
	Duration      time.Duration
}

// Records returns the exported rows of the document.
func (r *DocumentResult) Records() []statement.Record {
	return statement.Records(r.Transactions)
}

// Service converts statement documents.
type Service struct {
	extractor TextExtractor
	parser    *parser.Parser
	format    sheet.Format
	metrics   *metrics.Metrics // optional
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewService creates a conversion service writing files in format. m may be nil.
func NewService(extractor TextExtractor, p *parser.Parser, format sheet.Format, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		extractor: extractor,
		parser:    p,
		format:    format,
		metrics:   m,
		tracer:    otel.Tracer(tracerName),
		logger:    logger,
	}
}

// Format returns the output format.
func (s *Service) Format() sheet.Format {
	return s.format
}

// DefaultOutput is src with its extension replaced by the format's.
func DefaultOutput(src string, format sheet.Format) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + format.Ext()
}

// IsPDF reports whether path has a .pdf extension, in any case.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// ConvertFile converts the PDF at src and writes its records to dst. An empty
// dst means DefaultOutput(src). When the document yields no transactions the
// result is still returned, together with ErrNoTransactions.
func (s *Service) ConvertFile(ctx context.Context, src, dst string) (*DocumentResult, error) {
	ctx, span := s.tracer.Start(ctx, "statement.ConvertFile",
		trace.WithAttributes(attribute.String("statement.source", src)))
	defer span.End()

	start := time.Now()
	res, err := s.convert(ctx, src, dst)
	res.Duration = time.Since(start)

	status := metrics.StatusConverted
	switch {
	case errors.Is(err, ErrNoTransactions):
		status = metrics.StatusNoTransactions
	case err != nil:
		status = metrics.StatusFailed
	}
	s.metrics.Document(status, res.Pages, len(res.Transactions), res.DroppedBlocks, res.Duration)

	span.SetAttributes(
		attribute.Int("statement.pages", res.Pages),
		attribute.Int("statement.transactions", len(res.Transactions)),
		attribute.String("statement.status", status),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}

	s.logger.Info("converted statement",
		slog.String("source", src),
		slog.String("output", res.Output),
		slog.Int("pages", res.Pages),
		slog.Int("transactions", len(res.Transactions)),
		slog.Int("dropped_blocks", res.DroppedBlocks),
		slog.String("net", res.Totals.Net.Display()),
		slog.Duration("took", res.Duration),
	)
	return res, nil
}

func (s *Service) convert(ctx context.Context, src, dst string) (*DocumentResult, error) {
	res := &DocumentResult{Source: src, Output: dst}
	if res.Output == "" {
		res.Output = DefaultOutput(src, s.format)
	}

	if !IsPDF(src) {
		return res, fmt.Errorf("%w: %s", ErrNotPDF, src)
	}

	pages, err := s.extractor.ExtractFile(ctx, src)
	if err != nil {
		return res, fmt.Errorf("failed to extract text: %w", err)
	}

	doc, err := s.parser.ParseDocument(ctx, pdftext.Texts(pages))
	if err != nil {
		return res, err
	}
	res.Pages = doc.Pages
	res.EmptyPages = doc.EmptyPages
	res.Headers = doc.Headers
	res.DroppedBlocks = doc.DroppedBlocks
	res.Transactions = doc.Transactions

	if doc.EmptyPages > 0 {
		s.logger.Debug("pages without text",
			slog.String("source", src),
			slog.Int("empty_pages", doc.EmptyPages))
	}
	if len(res.Transactions) == 0 {
		return res, fmt.Errorf("%w in %s", ErrNoTransactions, src)
	}

	amounts := make([]string, len(res.Transactions))
	for i, tx := range res.Transactions {
		amounts[i] = tx.Amount
	}
	if res.Totals, err = money.Sum(amounts, s.parser.Layout().Currency); err != nil {
		return res, fmt.Errorf("failed to total amounts: %w", err)
	}

	if err := sheet.Save(res.Output, res.Records()); err != nil {
		return res, fmt.Errorf("failed to write %s: %w", res.Output, err)
	}
	return res, nil
}
