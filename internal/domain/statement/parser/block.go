package parser

import (
	"strings"
	"unicode"

	"github.com/FACorreiaa/statement-converter/internal/domain/statement"
)

// header is what a header line yields before its continuation lines are read.
type header struct {
	lineNumber string
	date       string
	name       string
	amount     string // empty when the line carries no amount
}

// matchHeader reports whether line opens a transaction block and, if so, splits
// the rest of the line into counterparty name and transaction amount. The
// leftmost amount wins; later ones on the same line are running balances.
func (c *compiledLayout) matchHeader(line string) (header, bool) {
	m := c.header.FindStringSubmatchIndex(line)
	if m == nil {
		return header{}, false
	}

	h := header{date: line[m[2*c.dateIdx]:m[2*c.dateIdx+1]]}
	if c.lpIdx >= 0 && m[2*c.lpIdx] >= 0 {
		h.lineNumber = line[m[2*c.lpIdx]:m[2*c.lpIdx+1]]
	}

	rest := strings.TrimSpace(line[m[1]:])
	a := c.amount.FindStringSubmatchIndex(rest)
	if a == nil {
		h.name = rest
		return h, true
	}

	h.amount = stripSpaces(rest[a[2*c.amountIdx]:a[2*c.amountIdx+1]])
	h.name = strings.TrimSpace(rest[:a[0]])
	return h, true
}

func (c *compiledLayout) isHeader(line string) bool {
	return c.header.MatchString(line)
}

func (c *compiledLayout) stripBalance(s string) string {
	return c.balance.ReplaceAllString(s, "")
}

// blockBuilder accumulates the continuation lines of one block. It is a value:
// every step returns a new builder.
type blockBuilder struct {
	address      string
	account      string
	description  string
	accountFound bool
}

// withLine folds one non-empty continuation line into the block. Only the first
// line holding an account number is split around it; before the account number
// text is address, after it text is description.
func (b blockBuilder) withLine(c *compiledLayout, line string) blockBuilder {
	if !b.accountFound {
		if loc := c.account.FindStringIndex(line); loc != nil {
			b.account = stripSpaces(line[loc[0]:loc[1]])
			b.accountFound = true

			if before := strings.TrimSpace(line[:loc[0]]); before != "" && b.address == "" {
				b.address = before
			}
			after := c.stripBalance(strings.TrimSpace(line[loc[1]:]))
			b.description = joinText(b.description, after)
			return b
		}
		b.address = joinText(b.address, line)
		return b
	}

	b.description = joinText(b.description, c.stripBalance(line))
	return b
}

// buildTransaction assembles a block from its header and retained continuation
// lines. ok is false when the header had no amount: such blocks are dropped.
func buildTransaction(c *compiledLayout, h header, lines []string) (tx statement.Transaction, ok bool) {
	var b blockBuilder
	for _, line := range lines {
		b = b.withLine(c, line)
	}

	if h.amount == "" {
		return statement.Transaction{}, false
	}

	return statement.Transaction{
		LineNumber:          h.lineNumber,
		Date:                h.date,
		CounterpartyName:    h.name,
		CounterpartyAddress: b.address,
		AccountNumber:       b.account,
		Description:         b.description,
		Amount:              h.amount,
	}, true
}

func joinText(existing, s string) string {
	switch {
	case s == "":
		return existing
	case existing == "":
		return s
	default:
		return existing + " " + s
	}
}

// stripSpaces removes every whitespace rune, thousands separators included.
func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
