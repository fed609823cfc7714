package sheet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/statement-converter/internal/domain/statement"
)

// SheetName is the name of the single sheet in written workbooks.
const SheetName = "Transakcje"

// textFormat is the builtin "@" number format.
const textFormat = 49

var columnWidths = []float64{12, 48, 60, 14}

// WriteXLSX writes a workbook with a header row and one row per record.
func WriteXLSX(w io.Writer, records []statement.Record) error {
	f, err := buildWorkbook(records)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes the workbook to path, replacing any existing file.
func SaveXLSX(path string, records []statement.Record) error {
	out, err := create(path)
	if err != nil {
		return err
	}
	if err := WriteXLSX(out, records); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func buildWorkbook(records []statement.Record) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: textFormat})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create text style: %w", err)
	}
	last, _ := excelize.ColumnNumberToName(len(statement.Columns))
	if err := f.SetColStyle(SheetName, "A:"+last, style); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set column style: %w", err)
	}
	for i, width := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := setRow(f, 1, statement.Columns); err != nil {
		f.Close()
		return nil, err
	}
	for i, rec := range records {
		if err := setRow(f, i+2, rec.Values()); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// ReadXLSX reads the records of the first sheet of a workbook. Columns are
// located by header text, so their order does not matter; rows with no cells
// are skipped.
func ReadXLSX(r io.Reader) ([]statement.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]statement.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		records = append(records, statement.Record{
			Date:         cellAt(row, cols[statement.ColumnDate]),
			Counterparty: cellAt(row, cols[statement.ColumnCounterparty]),
			Description:  cellAt(row, cols[statement.ColumnDescription]),
			Amount:       cellAt(row, cols[statement.ColumnAmount]),
		})
	}
	return records, nil
}

// OpenXLSX reads the workbook at path.
func OpenXLSX(path string) ([]statement.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ReadXLSX(f)
}

func mapColumns(headers []string) (map[string]int, error) {
	cols := make(map[string]int, len(headers))
	for i, h := range headers {
		cols[strings.TrimSpace(h)] = i
	}
	var errs []error
	for _, want := range statement.Columns {
		if _, ok := cols[want]; !ok {
			errs = append(errs, fmt.Errorf("missing column %q", want))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cols, nil
}

func cellAt(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
