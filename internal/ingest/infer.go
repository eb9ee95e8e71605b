// internal/ingest/infer.go
package ingest

import (
	"strconv"
	"strings"
)

const inferenceSampleSize = 20

// inferFromContent assigns still-missing required fields by inspecting
// the values of unconsumed columns. The rules run in a fixed order so
// the heuristic stays auditable: date, then numeric, then text columns
// by average length. Each successful pick consumes its column.
func inferFromContent(t *Table, mapping Mapping, consumed map[string]bool) {
	remaining := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !consumed[c] {
			remaining = append(remaining, c)
		}
	}

	found := mapping.fields()

	// A. Date column.
	if !found[FieldDate] {
		for _, col := range remaining {
			if isDateSample(t.Sample(col, inferenceSampleSize)) {
				mapping[col] = FieldDate
				consumed[col] = true
				remaining = remove(remaining, col)
				break
			}
		}
	}

	// B. Numeric columns: first candidate is units_sold, a second one
	// fills price when price is still open.
	if !found[FieldUnitsSold] {
		var candidates []string
		for _, col := range remaining {
			if isNumericSample(t.Sample(col, inferenceSampleSize)) {
				candidates = append(candidates, col)
			}
		}

		if len(candidates) > 0 {
			mapping[candidates[0]] = FieldUnitsSold
			consumed[candidates[0]] = true
			remaining = remove(remaining, candidates[0])

			if !found[FieldPrice] && len(candidates) > 1 {
				mapping[candidates[1]] = FieldPrice
				consumed[candidates[1]] = true
				remaining = remove(remaining, candidates[1])
			}
		}
	}

	// C. Text columns: the longest average string is description-like,
	// so it becomes sku_name; the next text column becomes sku_id.
	textCols := make([]string, 0, len(remaining))
	for _, col := range remaining {
		textCols = append(textCols, col)
	}

	found = mapping.fields()
	if !found[FieldSKUName] && len(textCols) > 0 {
		best := textCols[0]
		bestLen := avgLength(t.Sample(best, inferenceSampleSize))
		for _, col := range textCols[1:] {
			if l := avgLength(t.Sample(col, inferenceSampleSize)); l > bestLen {
				best, bestLen = col, l
			}
		}
		mapping[best] = FieldSKUName
		consumed[best] = true
		textCols = remove(textCols, best)
	}

	found = mapping.fields()
	if !found[FieldSKUID] && len(textCols) > 0 {
		mapping[textCols[0]] = FieldSKUID
		consumed[textCols[0]] = true
	}
}

// isDateSample reports whether every sampled value parses as a date
// (day-first convention).
func isDateSample(sample []string) bool {
	if len(sample) == 0 {
		return false
	}
	for _, v := range sample {
		if _, err := ParseDate(v); err != nil {
			return false
		}
	}
	return true
}

// isNumericSample reports whether a sample converts to numbers, either
// directly or after stripping non-digit/non-dot characters ("10 pcs").
// Cleaning must leave more than half the sample non-empty, otherwise the
// column was just text.
func isNumericSample(sample []string) bool {
	if len(sample) == 0 {
		return false
	}

	direct := true
	for _, v := range sample {
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			direct = false
			break
		}
	}
	if direct {
		return true
	}

	empty := 0
	for _, v := range sample {
		cleaned := stripNonNumeric(v)
		if cleaned == "" {
			empty++
			continue
		}
		if _, err := strconv.ParseFloat(cleaned, 64); err != nil {
			return false
		}
	}

	return float64(empty)/float64(len(sample)) <= 0.5
}

// stripNonNumeric drops everything except digits and dots.
func stripNonNumeric(v string) string {
	var b strings.Builder
	for _, r := range v {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func avgLength(sample []string) float64 {
	if len(sample) == 0 {
		return 0
	}
	total := 0
	for _, v := range sample {
		total += len(v)
	}
	return float64(total) / float64(len(sample))
}

func remove(cols []string, col string) []string {
	out := cols[:0]
	for _, c := range cols {
		if c != col {
			out = append(out, c)
		}
	}
	return out
}
