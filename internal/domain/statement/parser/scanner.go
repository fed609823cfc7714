package parser

import (
	"strings"

	"github.com/FACorreiaa/statement-converter/internal/domain/statement"
)

type scanState int

const (
	scanningForHeader scanState = iota
	collectingContinuation
)

// PageResult is the outcome of scanning one page.
type PageResult struct {
	Transactions  []statement.Transaction
	Headers       int // header lines seen
	DroppedBlocks int // blocks without an amount
}

// scanner walks the lines of one page. A block is closed by the next header
// line, a boundary marker line, the end of the continuation window or the end of
// the page. The closing line is not consumed: it is examined again while
// scanning for the next header.
type scanner struct {
	layout *compiledLayout
	lines  []string

	state  scanState
	pos    int
	start  int // index of the open block's header line
	header header
	cont   []string

	result PageResult
}

func (s *scanner) run() PageResult {
	for s.pos < len(s.lines) {
		line := strings.TrimSpace(s.lines[s.pos])

		switch s.state {
		case scanningForHeader:
			s.pos++
			h, ok := s.layout.matchHeader(line)
			if !ok {
				continue
			}
			s.result.Headers++
			s.header = h
			s.start = s.pos - 1
			s.cont = nil
			s.state = collectingContinuation

		case collectingContinuation:
			if s.pos-s.start > s.layout.MaxContinuationLines ||
				s.layout.isHeader(line) ||
				s.layout.markers.contains(line) {
				s.closeBlock()
				continue
			}
			if line != "" {
				s.cont = append(s.cont, line)
			}
			s.pos++
		}
	}

	if s.state == collectingContinuation {
		s.closeBlock()
	}
	return s.result
}

func (s *scanner) closeBlock() {
	if tx, ok := buildTransaction(s.layout, s.header, s.cont); ok {
		s.result.Transactions = append(s.result.Transactions, tx)
	} else {
		s.result.DroppedBlocks++
	}
	s.cont = nil
	s.state = scanningForHeader
}
