package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolish(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{"plain", "45,99", 4599, false},
		{"negative with thousands", "-1 579,00", -157900, false},
		{"spaces already removed", "-1579,00", -157900, false},
		{"nbsp separator", "18\u00a0000,00", 1800000, false},
		{"dot separator", "1.234.567,89", 123456789, false},
		{"currency suffix", "12,50 PLN", 1250, false},
		{"whole number", "100", 10000, false},
		{"empty", "", 0, true},
		{"garbage", "abc", 0, true},
		{"two commas", "1,2,3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParsePolish(tt.in, PLN)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Amount())
			assert.Equal(t, PLN, m.Currency())
		})
	}
}

func TestMoney_String(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0,00"},
		{5, "0,05"},
		{4599, "45,99"},
		{-157900, "-1 579,00"},
		{123456789, "1 234 567,89"},
		{100000, "1 000,00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.cents, PLN).String())
		})
	}

	assert.Equal(t, "-1 579,00 PLN", New(-157900, PLN).Display())
}

func TestMoney_Add(t *testing.T) {
	a := New(1000, PLN)
	b := New(-250, PLN)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(750), sum.Amount())
	assert.True(t, b.IsNegative())
	assert.False(t, sum.IsNegative())

	_, err = a.Add(New(100, "EUR"))
	assert.Error(t, err)

	var nilMoney *Money
	got, err := nilMoney.Add(a)
	require.NoError(t, err)
	assert.Equal(t, a.Amount(), got.Amount())
	assert.Zero(t, nilMoney.Amount())
	assert.Empty(t, nilMoney.Currency())
}

func TestNewFromDecimal(t *testing.T) {
	assert.Equal(t, int64(12346), NewFromDecimal(decimal.RequireFromString("123.455"), PLN).Amount())
	assert.Equal(t, "123.45", New(12345, PLN).ToDecimal().String())
}

func TestMoney_JSON(t *testing.T) {
	data, err := json.Marshal(New(-157900, PLN))
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":-157900,"currency":"PLN","display":"-1 579,00 PLN"}`, string(data))

	var m Money
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, int64(-157900), m.Amount())
	assert.Equal(t, PLN, m.Currency())
}

func TestSum(t *testing.T) {
	totals, err := Sum([]string{"-1579,00", "18000,00", "45,99", "oops", "-0,99"}, PLN)
	require.NoError(t, err)

	assert.Equal(t, 4, totals.Count)
	assert.Equal(t, 1, totals.Invalid)
	assert.Equal(t, int64(1804599), totals.Inflow.Amount())
	assert.Equal(t, int64(-157999), totals.Outflow.Amount())
	assert.Equal(t, int64(1646600), totals.Net.Amount())
	assert.Equal(t, "16 466,00", totals.Net.String())
}

func TestSum_Empty(t *testing.T) {
	totals, err := Sum(nil, PLN)
	require.NoError(t, err)
	assert.Zero(t, totals.Count)
	assert.Zero(t, totals.Net.Amount())
	assert.Equal(t, PLN, totals.Net.Currency())
}
