// internal/ingest/normalize_test.go
package ingest

import (
	"strings"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2026-01-15", "2026-01-15", true},
		{"15-01-2026", "2026-01-15", true},
		{"15/01/2026", "2026-01-15", true},
		{"01/02/2026", "2026-02-01", true}, // day first wins over month first
		{"2026/01/15", "2026-01-15", true},
		{"15-Jan-2026", "2026-01-15", true},
		{"5/1/2026", "2026-01-05", true},
		{"2026-01-15 10:30:00", "2026-01-15", true},
		{"", "", false},
		{"yesterday", "", false},
		{"32/01/2026", "", false},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if tt.ok != (err == nil) {
			t.Errorf("ParseDate(%q) err = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && got.Format("2006-01-02") != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
		}
	}
}

func TestCleanNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"10", 10},
		{"10.5", 10.5},
		{"-5", -5}, // sign survives so validation can reject it
		{"10 pcs", 10},
		{"Rs 45.50", 45.50},
		{"₹120", 120},
		{"1,250", 1250},
		{"", 0},
		{"n/a", 0},
		{"sold out", 0},
	}
	for _, tt := range tests {
		if got := CleanNumber(tt.in); got != tt.want {
			t.Errorf("CleanNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func normalizeCSV(t *testing.T, doc string) NormalizeResult {
	t.Helper()
	table := mustReadCSV(t, doc)
	return Normalize(table, ResolveColumns(table))
}

func TestNormalizeHappyPath(t *testing.T) {
	res := normalizeCSV(t,
		"store_id,sku_id,sku_name,date,units_sold,price,discount,category\n"+
			"S1,SKU1,Sugar 1kg,2026-01-01,5,45.5,10,Grocery\n"+
			"S1,SKU2,Rice 5kg,2026-01-01,3,,,\n")

	if res.RowsFailed != 0 {
		t.Fatalf("rows failed = %d, errors = %v", res.RowsFailed, res.Errors)
	}
	if len(res.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(res.Records))
	}
	if res.StoreID != "S1" {
		t.Errorf("store id = %q, want S1", res.StoreID)
	}

	r := res.Records[0]
	if r.SKUID != "SKU1" || r.SKUName != "Sugar 1kg" || r.UnitsSold != 5 {
		t.Errorf("unexpected first record: %+v", r)
	}
	if r.Price == nil || *r.Price != 45.5 {
		t.Errorf("price = %v, want 45.5", r.Price)
	}
	if r.Discount == nil || *r.Discount != 10 {
		t.Errorf("discount = %v, want 10", r.Discount)
	}
	if r.Category != "Grocery" {
		t.Errorf("category = %q, want Grocery", r.Category)
	}
	if res.Records[1].Price != nil {
		t.Error("empty price cell should stay nil")
	}
}

func TestNormalizeDefaultsAndFallbacks(t *testing.T) {
	res := normalizeCSV(t,
		"product_name,date,qty\n"+
			"Sugar,2026-01-01,10 pcs\n")

	if res.RowsFailed != 0 {
		t.Fatalf("rows failed = %d, errors = %v", res.RowsFailed, res.Errors)
	}
	r := res.Records[0]
	if r.StoreID != DefaultStoreID {
		t.Errorf("store id = %q, want default %q", r.StoreID, DefaultStoreID)
	}
	if r.SKUID != "Sugar" {
		t.Errorf("sku id = %q, want name fallback", r.SKUID)
	}
	if r.UnitsSold != 10 {
		t.Errorf("units = %d, want 10 from %q", r.UnitsSold, "10 pcs")
	}
}

func TestNormalizeRejectsBadRowsIndividually(t *testing.T) {
	res := normalizeCSV(t,
		"sku_id,sku_name,date,units_sold\n"+
			"SKU1,Sugar,2026-01-01,5\n"+
			"SKU2,Rice,not-a-date,3\n"+
			"SKU3,Salt,2026-01-01,-4\n"+
			"SKU4,,2026-01-01,2\n"+
			"SKU5,Atta,2026-01-02,7\n")

	if len(res.Records) != 2 {
		t.Fatalf("got %d records, want 2 valid", len(res.Records))
	}
	if res.RowsFailed != 3 {
		t.Errorf("rows failed = %d, want 3", res.RowsFailed)
	}
	if len(res.Errors) != 3 {
		t.Fatalf("got %d error messages, want 3: %v", len(res.Errors), res.Errors)
	}
	// Row numbers are 1-based file lines, header on line 1.
	if !strings.HasPrefix(res.Errors[0], "Row 3:") {
		t.Errorf("first error = %q, want Row 3 prefix", res.Errors[0])
	}
}

func TestNormalizeDiscountRange(t *testing.T) {
	res := normalizeCSV(t,
		"sku_id,sku_name,date,units_sold,discount\n"+
			"SKU1,Sugar,2026-01-01,5,150\n")
	if res.RowsFailed != 1 {
		t.Fatalf("discount 150 should be rejected, got %+v", res)
	}
}

func TestNormalizeDeduplicates(t *testing.T) {
	res := normalizeCSV(t,
		"sku_id,sku_name,date,units_sold\n"+
			"SKU1,Sugar,2026-01-01,5\n"+
			"SKU1,Sugar,2026-01-01,9\n"+
			"SKU1,Sugar,2026-01-02,4\n")

	if len(res.Records) != 2 {
		t.Fatalf("got %d records, want 2 after dedupe", len(res.Records))
	}
	if res.Records[0].UnitsSold != 5 {
		t.Errorf("first occurrence should win, got %d units", res.Records[0].UnitsSold)
	}
	if res.RowsFailed != 0 {
		t.Errorf("duplicates are not failures, rows failed = %d", res.RowsFailed)
	}
}

func TestNormalizeErrorCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("sku_id,sku_name,date,units_sold\n")
	for i := 0; i < 25; i++ {
		b.WriteString("SKU1,Sugar,bad-date,5\n")
	}
	res := normalizeCSV(t, b.String())
	if res.RowsFailed != 25 {
		t.Errorf("rows failed = %d, want 25", res.RowsFailed)
	}
	if len(res.Errors) != maxReportedErrors {
		t.Errorf("reported %d errors, want cap %d", len(res.Errors), maxReportedErrors)
	}
}

func TestNormalizeRoundsUnits(t *testing.T) {
	res := normalizeCSV(t,
		"sku_id,sku_name,date,units_sold\n"+
			"SKU1,Sugar,2026-01-01,4.6\n")
	if res.RowsFailed != 0 {
		t.Fatalf("errors = %v", res.Errors)
	}
	if res.Records[0].UnitsSold != 5 {
		t.Errorf("units = %d, want rounded 5", res.Records[0].UnitsSold)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); err != ErrEmptyFile {
		t.Errorf("empty csv err = %v, want ErrEmptyFile", err)
	}
}

func TestNormalizeDateValue(t *testing.T) {
	res := normalizeCSV(t,
		"sku_id,sku_name,date,units_sold\n"+
			"SKU1,Sugar,15/01/2026,5\n")
	if res.RowsFailed != 0 {
		t.Fatalf("errors = %v", res.Errors)
	}
	want := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	if !res.Records[0].Date.Equal(want) {
		t.Errorf("date = %v, want %v", res.Records[0].Date, want)
	}
}
