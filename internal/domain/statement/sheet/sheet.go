// Package sheet writes and reads the exported transaction tables: XLSX through
// excelize and CSV through gocsv. Every cell is text, so amounts keep their
// comma decimal separator.
package sheet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/FACorreiaa/statement-converter/internal/domain/statement"
)

// ErrUnsupportedFormat is returned for output paths that are neither .xlsx nor .csv.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// Format is an output file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name such as "xlsx" or ".CSV".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatXLSX, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Ext returns the file extension of the format, dot included.
func (f Format) Ext() string {
	return "." + string(f)
}

// FormatOf derives the format from a file name.
func FormatOf(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Save writes records to path in the format its extension names.
func Save(path string, records []statement.Record) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if format == FormatCSV {
		return SaveCSV(path, records)
	}
	return SaveXLSX(path, records)
}

// Open reads records from a file written by Save.
func Open(path string) ([]statement.Record, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format == FormatCSV {
		return OpenCSV(path)
	}
	return OpenXLSX(path)
}

func create(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}
