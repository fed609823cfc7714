package sheet

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/FACorreiaa/statement-converter/internal/domain/statement"
)

// WriteCSV writes a header line and one line per record.
func WriteCSV(w io.Writer, records []statement.Record) error {
	if records == nil {
		records = []statement.Record{}
	}
	if err := gocsv.Marshal(&records, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// SaveCSV writes the CSV file to path, replacing any existing file.
func SaveCSV(path string, records []statement.Record) error {
	out, err := create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(out, records); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// ReadCSV reads records written by WriteCSV.
func ReadCSV(r io.Reader) ([]statement.Record, error) {
	var records []statement.Record
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return records, nil
}

// OpenCSV reads the CSV file at path.
func OpenCSV(path string) ([]statement.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}
