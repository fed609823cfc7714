package fixture

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{1, "0,01"},
		{99, "0,99"},
		{100, "1,00"},
		{157900, "1 579,00"},
		{-157900, "-1 579,00"},
		{123456789, "1 234 567,89"},
		{-100000, "-1 000,00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.cents))
		})
	}
}

func TestGroupAccount(t *testing.T) {
	digits := "61109010140000000000000000"
	assert.Equal(t, digits, groupAccount(digits, false))
	assert.Equal(t, "61 1090 1014 0000 0000 0000 0000", groupAccount(digits, true))
}

func TestGenerator_Reproducible(t *testing.T) {
	a := NewGenerator(5).Statement(2, 6)
	b := NewGenerator(5).Statement(2, 6)

	assert.Equal(t, a, b)
	require.Len(t, a.Pages, 2)
	for _, tx := range a.Expected {
		assert.Len(t, tx.AccountNumber, 26)
		assert.NotContains(t, tx.Amount, " ")
		assert.True(t, strings.Contains(tx.Amount, ","))
	}
}
