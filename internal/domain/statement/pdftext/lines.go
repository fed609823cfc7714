package pdftext

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
	"rsc.io/pdf"
)

// Lines orders the glyphs of one page into text lines, top to bottom. Glyphs
// whose baselines differ by less than a third of the font size share a line;
// within a line they are ordered left to right and a space is inserted where
// the gap to the previous glyph is wider than a sixth of the font size.
func Lines(glyphs []pdf.Text) []string {
	if len(glyphs) == 0 {
		return nil
	}

	chars := make([]pdf.Text, len(glyphs))
	copy(chars, glyphs)
	// PDF user space grows upwards, so the first line has the largest Y.
	sort.SliceStable(chars, func(i, j int) bool {
		if chars[i].Y != chars[j].Y {
			return chars[i].Y > chars[j].Y
		}
		return chars[i].X < chars[j].X
	})

	var lines []string
	for i := 0; i < len(chars); {
		baseline := chars[i].Y
		tol := math.Max(1, chars[i].FontSize/3)

		j := i + 1
		for j < len(chars) && baseline-chars[j].Y < tol {
			j++
		}

		row := chars[i:j]
		sort.SliceStable(row, func(a, b int) bool { return row[a].X < row[b].X })
		if line := joinRow(row); line != "" {
			lines = append(lines, line)
		}
		i = j
	}
	return lines
}

func joinRow(row []pdf.Text) string {
	var sb strings.Builder
	end := math.Inf(-1)

	for _, c := range row {
		if sb.Len() > 0 && c.X-end > c.FontSize/6 && !endsWithSpace(sb.String()) && !strings.HasPrefix(c.S, " ") {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.S)
		end = math.Max(end, c.X+c.W)
	}
	return strings.TrimRight(norm.NFC.String(sb.String()), " \t")
}

func endsWithSpace(s string) bool {
	return strings.HasSuffix(s, " ")
}
