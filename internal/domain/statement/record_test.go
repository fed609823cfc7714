package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransaction_Counterparty(t *testing.T) {
	tests := []struct {
		name string
		tx   Transaction
		want string
	}{
		{"name and account", Transaction{CounterpartyName: "ACME Sp. z o.o.", AccountNumber: "61109010140000000000000000"}, "ACME Sp. z o.o. / 61109010140000000000000000"},
		{"name only", Transaction{CounterpartyName: "ACME"}, "ACME"},
		{"account only", Transaction{AccountNumber: "61109010140000000000000000"}, "61109010140000000000000000"},
		{"neither", Transaction{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tx.Counterparty())
		})
	}
}

func TestTransaction_RecordDropsAddress(t *testing.T) {
	tx := Transaction{
		Date:                "01.09.2025",
		CounterpartyName:    "Jan Kowalski",
		CounterpartyAddress: "ul. Polna 1 00-001 Warszawa",
		AccountNumber:       "61109010140000000000000000",
		Description:         "Czynsz wrzesień",
		Amount:              "-1579,00",
	}

	rec := tx.Record()

	assert.Equal(t, Record{
		Date:         "01.09.2025",
		Counterparty: "Jan Kowalski / 61109010140000000000000000",
		Description:  "Czynsz wrzesień",
		Amount:       "-1579,00",
	}, rec)
	assert.Equal(t, []string{"01.09.2025", "Jan Kowalski / 61109010140000000000000000", "Czynsz wrzesień", "-1579,00"}, rec.Values())
	assert.Len(t, Columns, len(rec.Values()))
}
