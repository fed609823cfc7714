// Package money does currency-safe arithmetic on statement amounts. Values are
// integer minor units held by go-money; parsing and display go through
// shopspring/decimal so no float ever touches an amount.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// PLN is the ISO-4217 code of statement amounts.
const PLN = "PLN"

// ErrInvalidAmount is returned when a text amount cannot be parsed.
var ErrInvalidAmount = errors.New("invalid amount")

// Money is an amount in one currency.
type Money struct {
	m *money.Money
}

// New creates a value from minor units.
func New(amountCents int64, currencyCode string) *Money {
	return &Money{m: money.New(amountCents, currencyCode)}
}

// Zero returns a zero value in the currency.
func Zero(currencyCode string) *Money {
	return New(0, currencyCode)
}

// NewFromDecimal rounds a decimal to the currency's minor unit.
func NewFromDecimal(amount decimal.Decimal, currencyCode string) *Money {
	multiplier := decimal.New(1, int32(fraction(currencyCode)))
	return New(amount.Mul(multiplier).Round(0).IntPart(), currencyCode)
}

// ParsePolish parses an amount printed the Polish way: comma decimal separator,
// spaces (including NBSP) or dots between thousands, optional leading minus,
// e.g. "-1 579,00" or "1.579,00".
func ParsePolish(s, currencyCode string) (*Money, error) {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '.' {
			return -1
		}
		return r
	}, s)
	clean = strings.TrimSuffix(clean, currencyCode)
	clean = strings.Replace(clean, ",", ".", 1)

	if clean == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return NewFromDecimal(d, currencyCode), nil
}

func fraction(currencyCode string) int {
	if c := money.GetCurrency(currencyCode); c != nil {
		return c.Fraction
	}
	return 2
}

// Amount returns the value in minor units.
func (m *Money) Amount() int64 {
	if m == nil || m.m == nil {
		return 0
	}
	return m.m.Amount()
}

// Currency returns the ISO-4217 code.
func (m *Money) Currency() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Currency().Code
}

func (m *Money) IsNegative() bool {
	return m != nil && m.m != nil && m.m.IsNegative()
}

// Add adds two values. Returns error if currencies don't match.
func (m *Money) Add(other *Money) (*Money, error) {
	if m == nil || m.m == nil {
		return other, nil
	}
	if other == nil || other.m == nil {
		return m, nil
	}

	result, err := m.m.Add(other.m)
	if err != nil {
		return nil, err
	}
	return &Money{m: result}, nil
}

// ToDecimal converts to a decimal in major units.
func (m *Money) ToDecimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	return decimal.New(m.m.Amount(), -int32(m.m.Currency().Fraction))
}

// String formats the value the way statements print it, e.g. "-1 579,00".
func (m *Money) String() string {
	frac := 2
	if m != nil && m.m != nil {
		frac = m.m.Currency().Fraction
	}

	s := m.ToDecimal().StringFixed(int32(frac))
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, dec, _ := strings.Cut(s, ".")

	var sb strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteRune(r)
	}
	if dec != "" {
		sb.WriteByte(',')
		sb.WriteString(dec)
	}
	return sign + sb.String()
}

// Display formats the value with its currency code, e.g. "1 579,00 PLN".
func (m *Money) Display() string {
	return m.String() + " " + m.Currency()
}

func (m *Money) MarshalJSON() ([]byte, error) {
	if m == nil || m.m == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(map[string]interface{}{
		"amount":   m.Amount(),
		"currency": m.Currency(),
		"display":  m.Display(),
	})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	m.m = money.New(v.Amount, v.Currency)
	return nil
}
