// Package statement holds the transaction model shared by the statement parser,
// the spreadsheet writer and the merge step.
package statement

// Column headers of the exported sheet, in output order. The texts match the
// files produced by the earlier converter so old and new files can be merged.
const (
	ColumnDate         = "Data"
	ColumnCounterparty = "Kontahent / Numer rachunku"
	ColumnDescription  = "Opis / Typ transakcji"
	ColumnAmount       = "Kwota"
)

// Columns lists the exported headers in order.
var Columns = []string{ColumnDate, ColumnCounterparty, ColumnDescription, ColumnAmount}

// Transaction is everything the parser recovered from one transaction block.
type Transaction struct {
	Page       int    // 1-based page the block was found on
	LineNumber string // sequence number printed on the header line

	Date                string // DD.MM.YYYY, exactly as printed
	CounterpartyName    string
	CounterpartyAddress string // collected but not exported
	AccountNumber       string // digits only
	Description         string
	Amount              string // Polish decimal, sign kept, no spaces
}

// Counterparty joins the counterparty name and account number for display.
func (t Transaction) Counterparty() string {
	switch {
	case t.CounterpartyName != "" && t.AccountNumber != "":
		return t.CounterpartyName + " / " + t.AccountNumber
	case t.CounterpartyName != "":
		return t.CounterpartyName
	default:
		return t.AccountNumber
	}
}

// Record converts the transaction to its exported row.
func (t Transaction) Record() Record {
	return Record{
		Date:         t.Date,
		Counterparty: t.Counterparty(),
		Description:  t.Description,
		Amount:       t.Amount,
	}
}

// Record is one exported row. Every field is text; the amount keeps its comma
// decimal separator.
type Record struct {
	Date         string `csv:"Data"`
	Counterparty string `csv:"Kontahent / Numer rachunku"`
	Description  string `csv:"Opis / Typ transakcji"`
	Amount       string `csv:"Kwota"`
}

// Values returns the row cells in column order.
func (r Record) Values() []string {
	return []string{r.Date, r.Counterparty, r.Description, r.Amount}
}

// Records converts a slice of transactions to exported rows, keeping order.
func Records(txs []Transaction) []Record {
	out := make([]Record, len(txs))
	for i, tx := range txs {
		out[i] = tx.Record()
	}
	return out
}
