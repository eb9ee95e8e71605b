// internal/ingest/normalize.go
package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kiranalabs/restock/internal/domain"
)

// DefaultStoreID is injected when an upload carries no store column.
// Single-store shops never have one.
const DefaultStoreID = "STORE001"

// maxReportedErrors caps the error messages returned to the caller; all
// invalid rows are still counted.
const maxReportedErrors = 10

// dateFormats are tried in order. Day-first formats come before
// month-first, matching the ingestion convention.
var dateFormats = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
	"02-Jan-06",
	"2/1/2006",
	"1/2/2006",
}

// ParseDate parses a cell value as a calendar date, trying each known
// format. Any time-of-day suffix is dropped first.
func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if fields := strings.Fields(v); len(fields) > 0 {
		v = fields[0]
	}

	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("could not parse date: %s", v)
}

// CleanNumber converts a cell value to a number, stripping currency
// symbols and unit text ("10 pcs" -> 10). Unparseable values become 0
// rather than an error; range checks happen on the caller side.
func CleanNumber(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}

	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}

	cleaned := stripNonNumeric(strings.ToLower(v))
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return f
}

// NormalizeResult is the outcome of normalizing one resolved upload.
type NormalizeResult struct {
	Records    []domain.SalesRecord
	RowsFailed int
	Errors     []string
	// StoreID is the store of the first valid record, used to trigger
	// the downstream forecast pipeline.
	StoreID string
}

// Normalize converts a resolved table into validated SalesRecords.
// Invalid rows are rejected individually and reported; the batch never
// fails because of one row. Duplicate (store, sku, date) keys within the
// upload are collapsed to the first occurrence.
func Normalize(t *Table, res Resolution) NormalizeResult {
	// Invert mapping: canonical field -> original column.
	byField := make(map[string]string, len(res.Mapping))
	for original, field := range res.Mapping {
		byField[field] = original
	}

	var out NormalizeResult
	seen := make(map[string]bool)

	for row := range t.Rows {
		rec, err := normalizeRow(t, row, byField, res.SKUIDFromName)
		if err != nil {
			out.RowsFailed++
			if len(out.Errors) < maxReportedErrors {
				// +2: rows are 1-based and the header occupies line 1.
				out.Errors = append(out.Errors, fmt.Sprintf("Row %d: %v", row+2, err))
			}
			continue
		}

		key := rec.StoreID + "\x00" + rec.SKUID + "\x00" + rec.Date.Format("2006-01-02")
		if seen[key] {
			continue
		}
		seen[key] = true

		out.Records = append(out.Records, rec)
		if out.StoreID == "" {
			out.StoreID = rec.StoreID
		}
	}

	return out
}

func normalizeRow(t *Table, row int, byField map[string]string, skuIDFromName bool) (domain.SalesRecord, error) {
	var rec domain.SalesRecord

	cell := func(field string) string {
		col, ok := byField[field]
		if !ok {
			return ""
		}
		return strings.TrimSpace(t.Cell(row, col))
	}

	rec.SKUName = cell(FieldSKUName)
	if rec.SKUName == "" {
		return rec, fmt.Errorf("missing sku_name")
	}

	rec.SKUID = cell(FieldSKUID)
	if rec.SKUID == "" {
		if !skuIDFromName {
			return rec, fmt.Errorf("missing sku_id")
		}
		// Product identity collapses to its label.
		rec.SKUID = rec.SKUName
	}

	rec.StoreID = cell(FieldStoreID)
	if rec.StoreID == "" {
		rec.StoreID = DefaultStoreID
	}

	date, err := ParseDate(cell(FieldDate))
	if err != nil {
		return rec, err
	}
	rec.Date = date

	units := CleanNumber(cell(FieldUnitsSold))
	if units < 0 {
		return rec, fmt.Errorf("units_sold must be >= 0, got %g", units)
	}
	rec.UnitsSold = int(math.Round(units))

	if raw := cell(FieldPrice); raw != "" {
		price := CleanNumber(raw)
		if price < 0 {
			return rec, fmt.Errorf("price must be >= 0, got %g", price)
		}
		rec.Price = &price
	}

	if raw := cell(FieldDiscount); raw != "" {
		discount := CleanNumber(raw)
		if discount < 0 || discount > 100 {
			return rec, fmt.Errorf("discount must be within [0,100], got %g", discount)
		}
		rec.Discount = &discount
	}

	rec.Category = cell(FieldCategory)

	return rec, nil
}
