package money

import "fmt"

// Totals sums a set of signed amounts.
type Totals struct {
	Count   int    `json:"count"`
	Inflow  *Money `json:"inflow"`
	Outflow *Money `json:"outflow"` // negative or zero
	Net     *Money `json:"net"`
	// Invalid counts amounts that did not parse and were left out.
	Invalid int `json:"invalid,omitempty"`
}

// Sum parses Polish-format amounts and totals them. Amounts that do not parse
// are counted in Invalid and skipped.
func Sum(amounts []string, currencyCode string) (Totals, error) {
	t := Totals{
		Inflow:  Zero(currencyCode),
		Outflow: Zero(currencyCode),
		Net:     Zero(currencyCode),
	}

	for _, a := range amounts {
		m, err := ParsePolish(a, currencyCode)
		if err != nil {
			t.Invalid++
			continue
		}

		if m.IsNegative() {
			if t.Outflow, err = t.Outflow.Add(m); err != nil {
				return t, fmt.Errorf("failed to add outflow: %w", err)
			}
		} else {
			if t.Inflow, err = t.Inflow.Add(m); err != nil {
				return t, fmt.Errorf("failed to add inflow: %w", err)
			}
		}
		if t.Net, err = t.Net.Add(m); err != nil {
			return t, fmt.Errorf("failed to add net: %w", err)
		}
		t.Count++
	}
	return t, nil
}
