package parser

import (
	"sync"

	"github.com/cloudflare/ahocorasick"
	"golang.org/x/text/unicode/norm"
)

// markerSet finds page-boundary markers (statement number, generation stamp)
// in a single pass over a line, whatever the number of markers.
type markerSet struct {
	mu      sync.Mutex // Matcher keeps per-call state
	matcher *ahocorasick.Matcher
}

func newMarkerSet(markers []string) *markerSet {
	patterns := make([][]byte, 0, len(markers))
	for _, m := range markers {
		if m == "" {
			continue
		}
		patterns = append(patterns, []byte(norm.NFC.String(m)))
	}
	if len(patterns) == 0 {
		return &markerSet{}
	}
	return &markerSet{matcher: ahocorasick.NewMatcher(patterns)}
}

// contains reports whether line holds any marker. Lines are compared in NFC so a
// decomposed "ą" from the PDF text still matches.
func (m *markerSet) contains(line string) bool {
	if m == nil || m.matcher == nil {
		return false
	}
	in := []byte(norm.NFC.String(line))

	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matcher.Match(in)) > 0
}
