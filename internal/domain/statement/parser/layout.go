package parser

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ErrInvalidLayout is returned when a layout cannot be compiled.
var ErrInvalidLayout = errors.New("invalid statement layout")

// ws matches ASCII whitespace and Unicode space separators. PDF text often uses
// NBSP or narrow NBSP as the thousands separator.
const ws = `[\s\p{Zs}]`

// Default layout patterns for Polish statements with PLN amounts.
const (
	DefaultHeaderPattern        = `^(?P<lp>\d+)` + ws + `+(?P<date>\d{2}\.\d{2}\.\d{4})` + ws + `+`
	DefaultAmountPattern        = `(?:^|` + ws + `)(?P<amount>-?\d{1,3}(?:` + ws + `\d{3})*,\d{2})` + ws + `+PLN`
	DefaultAccountPattern       = `\b\d{2}` + ws + `?\d{4}` + ws + `?\d{4}` + ws + `?\d{4}` + ws + `?\d{4}` + ws + `?\d{4}` + ws + `?\d{4}\b`
	DefaultBalanceSuffixPattern = `(?:^|` + ws + `+)-?\d+(?:` + ws + `\d{3})*,\d{2}` + ws + `+PLN` + ws + `*$`
)

// Layout describes one statement layout. Patterns are RE2 expressions: the header
// pattern needs the named groups "lp" and "date", the amount pattern the named
// group "amount".
type Layout struct {
	Name                 string   `yaml:"name"`
	HeaderPattern        string   `yaml:"header_pattern"`
	AmountPattern        string   `yaml:"amount_pattern"`
	AccountPattern       string   `yaml:"account_pattern"`
	BalanceSuffixPattern string   `yaml:"balance_suffix_pattern"`
	BoundaryMarkers      []string `yaml:"boundary_markers"`
	MaxContinuationLines int      `yaml:"max_continuation_lines"`
	DateFormat           string   `yaml:"date_format"` // Go time layout of the date group
	Currency             string   `yaml:"currency"`
}

// DefaultLayout returns the layout of Polish PLN statements.
func DefaultLayout() Layout {
	return Layout{
		Name:                 "pl-pln",
		HeaderPattern:        DefaultHeaderPattern,
		AmountPattern:        DefaultAmountPattern,
		AccountPattern:       DefaultAccountPattern,
		BalanceSuffixPattern: DefaultBalanceSuffixPattern,
		BoundaryMarkers:      []string{"Wyciąg nr", "Dokument wygenerowany"},
		MaxContinuationLines: 4,
		DateFormat:           "02.01.2006",
		Currency:             "PLN",
	}
}

// LoadLayoutFile reads a YAML layout. Fields missing from the file keep their
// DefaultLayout values.
func LoadLayoutFile(path string) (Layout, error) {
	layout := DefaultLayout()

	data, err := os.ReadFile(path)
	if err != nil {
		return layout, fmt.Errorf("failed to read layout file: %w", err)
	}
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return layout, fmt.Errorf("%w: %s: %v", ErrInvalidLayout, path, err)
	}
	return layout, nil
}

// compiledLayout is a Layout with its patterns compiled and validated.
type compiledLayout struct {
	Layout

	header    *regexp.Regexp
	lpIdx     int
	dateIdx   int
	amount    *regexp.Regexp
	amountIdx int
	account   *regexp.Regexp
	balance   *regexp.Regexp
	markers   *markerSet
}

func compileLayout(l Layout) (*compiledLayout, error) {
	if l.MaxContinuationLines < 0 {
		return nil, fmt.Errorf("%w: max_continuation_lines must not be negative", ErrInvalidLayout)
	}

	c := &compiledLayout{Layout: l}

	var err error
	if c.header, err = compilePattern("header_pattern", l.HeaderPattern); err != nil {
		return nil, err
	}
	if c.amount, err = compilePattern("amount_pattern", l.AmountPattern); err != nil {
		return nil, err
	}
	if c.account, err = compilePattern("account_pattern", l.AccountPattern); err != nil {
		return nil, err
	}
	if c.balance, err = compilePattern("balance_suffix_pattern", l.BalanceSuffixPattern); err != nil {
		return nil, err
	}

	c.lpIdx = c.header.SubexpIndex("lp")
	c.dateIdx = c.header.SubexpIndex("date")
	if c.dateIdx < 0 {
		return nil, fmt.Errorf("%w: header_pattern has no (?P<date>...) group", ErrInvalidLayout)
	}
	c.amountIdx = c.amount.SubexpIndex("amount")
	if c.amountIdx < 0 {
		return nil, fmt.Errorf("%w: amount_pattern has no (?P<amount>...) group", ErrInvalidLayout)
	}

	c.markers = newMarkerSet(l.BoundaryMarkers)
	return c, nil
}

func compilePattern(field, expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidLayout, field)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidLayout, field, err)
	}
	return re, nil
}
