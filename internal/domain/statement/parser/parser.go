// Package parser turns the text lines of bank statement pages into transactions.
// A transaction starts at a header line (sequence number + date) and continues
// over a bounded number of lines carrying address, account number and
// description fragments. All patterns come from an injected Layout.
package parser

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/statement-converter/internal/domain/statement"
)

// DocumentResult is the outcome of parsing every page of one document.
type DocumentResult struct {
	Transactions  []statement.Transaction
	Pages         int
	EmptyPages    int
	Headers       int
	DroppedBlocks int
}

// Parser scans statement pages. It holds no per-page state and is safe for
// concurrent use.
type Parser struct {
	layout  *compiledLayout
	workers int
}

// New compiles the layout into a parser.
func New(layout Layout) (*Parser, error) {
	c, err := compileLayout(layout)
	if err != nil {
		return nil, err
	}
	return &Parser{layout: c, workers: runtime.GOMAXPROCS(0)}, nil
}

// MustNew is New for layouts known to be valid, such as DefaultLayout.
func MustNew(layout Layout) *Parser {
	p, err := New(layout)
	if err != nil {
		panic(err)
	}
	return p
}

// WithWorkers bounds how many pages ParseDocument scans at once.
func (p *Parser) WithWorkers(n int) *Parser {
	if n > 0 {
		p.workers = n
	}
	return p
}

// Layout returns the layout the parser was built from.
func (p *Parser) Layout() Layout {
	return p.layout.Layout
}

// ScanLines parses the ordered lines of one page.
func (p *Parser) ScanLines(lines []string) PageResult {
	s := &scanner{layout: p.layout, lines: lines}
	return s.run()
}

// ParsePage parses one page of newline separated text.
func (p *Parser) ParsePage(text string) PageResult {
	return p.ScanLines(strings.Split(text, "\n"))
}

// ParseDocument parses the pages of one document. Pages share no state, so they
// are scanned concurrently; transactions come back in page order. Pages without
// text are skipped.
func (p *Parser) ParseDocument(ctx context.Context, pages []string) (DocumentResult, error) {
	results := make([]PageResult, len(pages))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, text := range pages {
		if strings.TrimSpace(text) == "" {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := p.ParsePage(text)
			for j := range res.Transactions {
				res.Transactions[j].Page = i + 1
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return DocumentResult{}, fmt.Errorf("failed to parse document: %w", err)
	}

	doc := DocumentResult{Pages: len(pages)}
	for i, res := range results {
		if strings.TrimSpace(pages[i]) == "" {
			doc.EmptyPages++
			continue
		}
		doc.Transactions = append(doc.Transactions, res.Transactions...)
		doc.Headers += res.Headers
		doc.DroppedBlocks += res.DroppedBlocks
	}
	return doc, nil
}
