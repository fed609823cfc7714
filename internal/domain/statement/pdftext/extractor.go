// Package pdftext extracts the text of PDF pages as reading-order lines.
package pdftext

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"rsc.io/pdf"
)

// ErrUnreadable is returned when a file cannot be opened or decoded as a PDF.
var ErrUnreadable = errors.New("unreadable pdf")

// Page is the text of one page, lines joined by "\n".
type Page struct {
	Number int
	Text   string
}

// Empty reports whether the page carries no text.
func (p Page) Empty() bool {
	return strings.TrimSpace(p.Text) == ""
}

// Texts returns the page texts in page order.
func Texts(pages []Page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = p.Text
	}
	return out
}

// Extractor reads PDF files.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// ExtractFile returns the text of every page of the file at path, in order.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (pages []Page, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	// The pdf package panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%w: %s: %v", ErrUnreadable, path, r)
		}
	}()

	r, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}

	n := r.NumPage()
	pages = make([]Page, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := Page{Number: i}
		if p := r.Page(i); !p.V.IsNull() {
			page.Text = strings.Join(Lines(p.Content().Text), "\n")
		}
		pages = append(pages, page)
	}

	e.logger.Debug("extracted pdf text",
		slog.String("path", path),
		slog.Int("pages", n))

	return pages, nil
}
