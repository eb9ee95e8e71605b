// internal/ingest/columns.go
package ingest

import (
	"strings"
)

// Canonical field names every upload is normalized to.
const (
	FieldStoreID   = "store_id"
	FieldSKUID     = "sku_id"
	FieldSKUName   = "sku_name"
	FieldDate      = "date"
	FieldUnitsSold = "units_sold"
	FieldPrice     = "price"
	FieldDiscount  = "discount"
	FieldCategory  = "category"
)

// RequiredFields must resolve for an upload to proceed. store_id is
// listed here but degrades to a default downstream instead of failing.
var RequiredFields = []string{FieldStoreID, FieldSKUID, FieldSKUName, FieldDate, FieldUnitsSold}

// OptionalFields are mapped when present but never block ingestion.
var OptionalFields = []string{FieldPrice, FieldDiscount, FieldCategory}

// columnAliases lists the accepted header spellings per canonical field.
// Lookup order within a field matters: first alias hit wins.
var columnAliases = map[string][]string{
	FieldStoreID: {
		"store_id", "storeid", "store", "store_code", "storecode",
		"shop_id", "shopid", "shop", "outlet_id", "outletid", "outlet",
		"branch_id", "branchid", "branch", "location_id", "locationid",
	},
	FieldSKUID: {
		"sku_id", "skuid", "sku", "sku_code", "skucode",
		"product_id", "productid", "product_code", "productcode",
		"item_id", "itemid", "item_code", "itemcode",
		"barcode", "upc", "ean", "article_id", "articleid",
	},
	FieldSKUName: {
		"sku_name", "skuname", "sku_description",
		"product_name", "productname", "product", "product_description",
		"item_name", "itemname", "item", "item_description",
		"name", "description", "article_name", "articlename",
	},
	FieldDate: {
		"date", "sale_date", "saledate", "sales_date", "salesdate",
		"transaction_date", "transactiondate", "trans_date", "transdate",
		"order_date", "orderdate", "bill_date", "billdate",
		"invoice_date", "invoicedate", "dt", "created_at", "createdat",
	},
	FieldUnitsSold: {
		"units_sold", "unitssold", "units", "unit_sold", "unitsold",
		"quantity", "qty", "quantity_sold", "quantitysold", "qty_sold", "qtysold",
		"sales_qty", "salesqty", "sale_qty", "saleqty",
		"count", "sold", "pcs", "pieces", "nos", "number",
	},
	FieldPrice: {
		"price", "unit_price", "unitprice", "selling_price", "sellingprice",
		"rate", "mrp", "cost", "amount", "value",
	},
	FieldDiscount: {
		"discount", "disc", "discount_pct", "discountpct", "discount_percent",
		"disc_pct", "offer", "rebate",
	},
	FieldCategory: {
		"category", "cat", "product_category", "productcategory",
		"item_category", "itemcategory", "type", "product_type", "producttype",
		"group", "product_group", "productgroup", "dept", "department",
	},
}

// FieldAliases returns the accepted header names for a canonical field,
// used for the descriptive error on unmappable uploads.
func FieldAliases(field string) []string {
	return columnAliases[field]
}

// normalizeLabel canonicalizes a raw header for alias comparison:
// trimmed, lowercased, runs of spaces and hyphens collapsed to one
// underscore.
func normalizeLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))

	var b strings.Builder
	sep := false
	for _, r := range label {
		if r == ' ' || r == '-' {
			sep = true
			continue
		}
		if sep && b.Len() > 0 {
			b.WriteByte('_')
		}
		sep = false
		b.WriteRune(r)
	}

	return b.String()
}

// Mapping maps original column labels to canonical field names. Every
// canonical field appearing in the value set corresponds to exactly one
// original column.
type Mapping map[string]string

// fields returns the set of canonical fields currently mapped.
func (m Mapping) fields() map[string]bool {
	out := make(map[string]bool, len(m))
	for _, field := range m {
		out[field] = true
	}
	return out
}

// matchHeader finds the original column whose normalized label matches an
// alias of target. Returns "" when no header matches.
func matchHeader(columns []string, consumed map[string]bool, target string) string {
	normalized := make(map[string]string, len(columns))
	for _, c := range columns {
		if consumed[c] {
			continue
		}
		if _, ok := normalized[normalizeLabel(c)]; !ok {
			normalized[normalizeLabel(c)] = c
		}
	}

	for _, alias := range columnAliases[target] {
		if original, ok := normalized[alias]; ok {
			return original
		}
	}

	return ""
}

// Resolution is the outcome of column resolution for one upload.
type Resolution struct {
	Mapping Mapping
	// Missing lists required fields that could not be resolved. Only
	// sku_name, date and units_sold can appear here; store_id always
	// degrades to a default and sku_id falls back to sku_name.
	Missing []string
	// SKUIDFromName marks that sku_id was not found and each record's
	// sku_id must be synthesized as a copy of its sku_name.
	SKUIDFromName bool
}

// ResolveColumns maps a table's original headers to the canonical field
// set. Header alias matching runs first; content-based inference covers
// whatever the headers could not.
func ResolveColumns(t *Table) Resolution {
	mapping := make(Mapping)
	consumed := make(map[string]bool)

	for _, target := range append(append([]string{}, RequiredFields...), OptionalFields...) {
		if original := matchHeader(t.Columns, consumed, target); original != "" {
			mapping[original] = target
			consumed[original] = true
		}
	}

	missing := missingRequired(mapping)
	if len(missing) == 0 {
		return Resolution{Mapping: mapping}
	}

	// Headers were not enough; look at the data itself.
	inferFromContent(t, mapping, consumed)

	return finalizeResolution(mapping)
}

func missingRequired(m Mapping) []string {
	found := m.fields()
	var missing []string
	for _, field := range RequiredFields {
		if !found[field] {
			missing = append(missing, field)
		}
	}
	return missing
}

// finalizeResolution applies the post-pass fallbacks: sku_id collapses to
// sku_name, and a missing store_id is accepted (a default is injected
// downstream).
func finalizeResolution(mapping Mapping) Resolution {
	res := Resolution{Mapping: mapping}
	found := mapping.fields()

	for _, field := range RequiredFields {
		switch {
		case found[field]:
		case field == FieldStoreID:
			// Default store injected by the normalizer.
		case field == FieldSKUID && found[FieldSKUName]:
			res.SKUIDFromName = true
		default:
			res.Missing = append(res.Missing, field)
		}
	}

	return res
}
