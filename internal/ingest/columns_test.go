// internal/ingest/columns_test.go
package ingest

import (
	"strings"
	"testing"
)

func mustReadCSV(t *testing.T, doc string) *Table {
	t.Helper()
	table, err := ReadCSV(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	return table
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Store ID", "store_id"},
		{"  STORE-ID  ", "store_id"},
		{"units   sold", "units_sold"},
		{"Units-Sold", "units_sold"},
		{"qty", "qty"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeLabel(tt.in); got != tt.want {
			t.Errorf("normalizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveColumnsAliases(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"canonical", "store_id,sku_id,sku_name,date,units_sold"},
		{"mixed case and spacing", "Store ID,SKU-Code,Product Name,Sale Date,Qty"},
		{"retail pos export", "outlet,barcode,item_name,bill_date,pieces"},
		{"upper snake", "SHOP_ID,PRODUCT_ID,DESCRIPTION,TRANSACTION_DATE,QUANTITY_SOLD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := mustReadCSV(t, tt.header+"\nS1,SKU1,Sugar 1kg,2026-01-01,5\n")
			res := ResolveColumns(table)
			if len(res.Missing) != 0 {
				t.Fatalf("missing = %v, want none", res.Missing)
			}
			fields := res.Mapping.fields()
			for _, f := range RequiredFields {
				if !fields[f] {
					t.Errorf("required field %q not mapped", f)
				}
			}
		})
	}
}

func TestResolveColumnsOptional(t *testing.T) {
	table := mustReadCSV(t,
		"sku_id,sku_name,date,units_sold,MRP,Disc,Product Category\n"+
			"SKU1,Sugar,2026-01-01,5,45,10,Grocery\n")
	res := ResolveColumns(table)
	fields := res.Mapping.fields()
	for _, f := range OptionalFields {
		if !fields[f] {
			t.Errorf("optional field %q not mapped", f)
		}
	}
}

func TestResolveColumnsSKUIDFromName(t *testing.T) {
	table := mustReadCSV(t, "product_name,date,qty\nSugar,2026-01-01,5\n")
	res := ResolveColumns(table)
	if len(res.Missing) != 0 {
		t.Fatalf("missing = %v, want none", res.Missing)
	}
	if !res.SKUIDFromName {
		t.Error("expected sku_id to fall back to sku_name")
	}
}

func TestResolveColumnsMissingStoreAccepted(t *testing.T) {
	table := mustReadCSV(t, "sku_id,sku_name,date,units_sold\nSKU1,Sugar,2026-01-01,5\n")
	res := ResolveColumns(table)
	if len(res.Missing) != 0 {
		t.Fatalf("missing = %v, want none (store_id defaults downstream)", res.Missing)
	}
	if _, ok := res.Mapping.fields()[FieldStoreID]; ok {
		t.Error("store_id should not be mapped when absent")
	}
}

func TestResolveColumnsUnresolvable(t *testing.T) {
	table := mustReadCSV(t, "alpha,beta\nfoo,bar\nbaz,quux\n")
	res := ResolveColumns(table)
	if len(res.Missing) == 0 {
		t.Fatal("expected missing required fields")
	}
	for _, f := range res.Missing {
		if f == FieldStoreID {
			t.Error("store_id must never be reported missing")
		}
	}
}

func TestInferFromContentHeaderless(t *testing.T) {
	// No recognizable headers; the first data row stands in as labels.
	doc := "Sugar,10 pcs,01/01/2026,50\n" +
		"Rice,5 pcs,02/01/2026,80\n" +
		"Salt,12 pcs,03/01/2026,20\n" +
		"Atta Whole Wheat,8 pcs,04/01/2026,60\n"
	table := mustReadCSV(t, doc)
	res := ResolveColumns(table)

	if len(res.Missing) != 0 {
		t.Fatalf("missing = %v, want none", res.Missing)
	}
	byField := make(map[string]string)
	for original, field := range res.Mapping {
		byField[field] = original
	}
	if byField[FieldDate] != "01/01/2026" {
		t.Errorf("date mapped to %q, want the date-like column", byField[FieldDate])
	}
	if byField[FieldUnitsSold] != "10 pcs" {
		t.Errorf("units_sold mapped to %q, want the first numeric column", byField[FieldUnitsSold])
	}
	if byField[FieldPrice] != "50" {
		t.Errorf("price mapped to %q, want the second numeric column", byField[FieldPrice])
	}
	if byField[FieldSKUName] != "Sugar" {
		t.Errorf("sku_name mapped to %q, want the text column", byField[FieldSKUName])
	}
	if !res.SKUIDFromName {
		t.Error("expected sku_id to fall back to sku_name")
	}
}

func TestInferFromContentPartialHeaders(t *testing.T) {
	// Recognized date header, everything else inferred.
	doc := "date,colA,colB\n" +
		"2026-01-01,Sugar,14\n" +
		"2026-01-02,Rice,7\n"
	table := mustReadCSV(t, doc)
	res := ResolveColumns(table)

	if len(res.Missing) != 0 {
		t.Fatalf("missing = %v, want none", res.Missing)
	}
	byField := make(map[string]string)
	for original, field := range res.Mapping {
		byField[field] = original
	}
	if byField[FieldUnitsSold] != "colB" {
		t.Errorf("units_sold mapped to %q, want colB", byField[FieldUnitsSold])
	}
	if byField[FieldSKUName] != "colA" {
		t.Errorf("sku_name mapped to %q, want colA", byField[FieldSKUName])
	}
}
