// Package ledger remembers which statement files were already processed, so a
// watched inbox is converted once per file version.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/FACorreiaa/statement-converter/pkg/money"
)

// ErrNotFound is returned when no entry exists for a fingerprint.
var ErrNotFound = errors.New("ledger entry not found")

const bucketDocuments = "documents"

// Entry statuses.
const (
	StatusConverted = "converted"
	StatusFailed    = "failed"
)

// Entry is the outcome of processing one file version.
type Entry struct {
	Fingerprint  string       `json:"fingerprint"`
	Path         string       `json:"path"`
	Output       string       `json:"output,omitempty"`
	Status       string       `json:"status"`
	Error        string       `json:"error,omitempty"`
	Transactions int          `json:"transactions"`
	Totals       money.Totals `json:"totals"`
	RunID        string       `json:"run_id,omitempty"`
	ProcessedAt  time.Time    `json:"processed_at"`
}

// Fingerprint identifies a file version by absolute path, size and
// modification time. Replacing a file with new content yields a new fingerprint.
func Fingerprint(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return fmt.Sprintf("%s|%d|%d", abs, info.Size(), info.ModTime().UnixNano()), nil
}

// Ledger is a bbolt backed set of processed files.
type Ledger struct {
	db *bolt.DB
}

// Open opens or creates the ledger file.
func Open(path string) (*Ledger, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketDocuments)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketDocuments, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Ledger{db: db}, nil
}

// Close closes the ledger file.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Seen reports whether the fingerprint has an entry.
func (l *Ledger) Seen(fingerprint string) (bool, error) {
	_, err := l.Get(fingerprint)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Get returns the entry of a fingerprint.
func (l *Ledger) Get(fingerprint string) (Entry, error) {
	var e Entry
	err := l.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketDocuments)).Get([]byte(fingerprint))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &e)
	})
	return e, err
}

// Put stores an entry, replacing any previous one with the same fingerprint.
func (l *Ledger) Put(e Entry) error {
	if e.Fingerprint == "" {
		return errors.New("ledger entry has no fingerprint")
	}
	if e.ProcessedAt.IsZero() {
		e.ProcessedAt = time.Now().UTC()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}
	return l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketDocuments)).Put([]byte(e.Fingerprint), data)
	})
}

// List returns every entry ordered by fingerprint.
func (l *Ledger) List() ([]Entry, error) {
	var entries []Entry
	err := l.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketDocuments)).ForEach(func(_, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("failed to unmarshal entry: %w", err)
			}
			entries = append(entries, e)
			return nil
		})
	})
	return entries, err
}
