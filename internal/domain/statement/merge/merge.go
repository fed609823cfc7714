// Package merge combines the records of several converted documents into one
// table ordered by transaction date.
package merge

import (
	"sort"
	"time"

	"github.com/FACorreiaa/statement-converter/internal/domain/statement"
)

// Result is a merged table.
type Result struct {
	Records []statement.Record
	// Sorted is false when some date did not parse and the concatenation order
	// was kept for the whole table.
	Sorted bool
	// BadDate is the first date that did not parse, if any.
	BadDate string
}

// Merge concatenates sets in argument order and stable-sorts the result by
// date. Records with equal dates keep their concatenated order. If any date
// does not parse with dateFormat nothing is reordered.
func Merge(dateFormat string, sets ...[]statement.Record) Result {
	var n int
	for _, s := range sets {
		n += len(s)
	}

	records := make([]statement.Record, 0, n)
	for _, s := range sets {
		records = append(records, s...)
	}

	dates := make([]time.Time, len(records))
	for i, rec := range records {
		d, err := time.Parse(dateFormat, rec.Date)
		if err != nil {
			return Result{Records: records, BadDate: rec.Date}
		}
		dates[i] = d
	}

	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return dates[idx[a]].Before(dates[idx[b]])
	})

	sorted := make([]statement.Record, len(records))
	for i, j := range idx {
		sorted[i] = records[j]
	}
	return Result{Records: sorted, Sorted: true}
}
