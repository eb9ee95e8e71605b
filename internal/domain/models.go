// internal/domain/models.go
package domain

import "time"

// Store represents one retail location. Sales, forecasts and
// recommendations are always scoped to a single store.
type Store struct {
	ID        int64     `json:"id" db:"id"`
	StoreID   string    `json:"store_id" db:"store_id"`
	Name      string    `json:"name" db:"name"`
	Location  string    `json:"location" db:"location"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SKU is a distinct product as sold at a specific store.
type SKU struct {
	ID           int64     `json:"id" db:"id"`
	SKUID        string    `json:"sku_id" db:"sku_id"`
	SKUName      string    `json:"sku_name" db:"sku_name"`
	Category     string    `json:"category" db:"category"`
	StoreID      int64     `json:"-" db:"store_id"`
	CurrentStock int       `json:"current_stock" db:"current_stock"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// SalesRecord is one validated day of sales for a (store, sku) pair.
// Records are immutable once created and uniquely keyed by
// (store_id, sku_id, date); re-ingestion replaces, never accumulates.
type SalesRecord struct {
	StoreID   string    `json:"store_id"`
	SKUID     string    `json:"sku_id"`
	SKUName   string    `json:"sku_name"`
	Date      time.Time `json:"date"`
	UnitsSold int       `json:"units_sold"`
	Price     *float64  `json:"price,omitempty"`
	Discount  *float64  `json:"discount,omitempty"`
	Category  string    `json:"category,omitempty"`
}

// SalesTransaction is the persisted form of a SalesRecord, keyed by the
// database ids of its store and sku.
type SalesTransaction struct {
	ID        int64     `db:"id"`
	StoreID   int64     `db:"store_id"`
	SKUID     int64     `db:"sku_id"`
	Date      time.Time `db:"date"`
	UnitsSold int       `db:"units_sold"`
	Price     *float64  `db:"price"`
	Discount  *float64  `db:"discount"`
	CreatedAt time.Time `db:"created_at"`
}

// ForecastPoint is a single forecasted day for one sku.
type ForecastPoint struct {
	Date            time.Time `json:"date"`
	PredictedUnits  float64   `json:"predicted_units"`
	ConfidenceLower float64   `json:"confidence_lower"`
	ConfidenceUpper float64   `json:"confidence_upper"`
}

// ForecastResult is a persisted forecast point with its model identity,
// kept for audit. Forecasts are regenerated wholesale, not edited.
type ForecastResult struct {
	ID              int64         `json:"id" db:"id"`
	StoreID         int64         `json:"-" db:"store_id"`
	SKUID           int64         `json:"-" db:"sku_id"`
	ForecastDate    time.Time     `json:"forecast_date" db:"forecast_date"`
	PredictedUnits  float64       `json:"predicted_units" db:"predicted_units"`
	ConfidenceLower float64       `json:"confidence_lower" db:"confidence_lower"`
	ConfidenceUpper float64       `json:"confidence_upper" db:"confidence_upper"`
	ModelUsed       ForecastModel `json:"model_used" db:"model_used"`
	Horizon         int           `json:"forecast_horizon" db:"forecast_horizon"`
	GeneratedAt     time.Time     `json:"generated_at" db:"generated_at"`
}

// ReorderRecommendation is one line of the actionable reorder list.
// A new batch for a store deactivates the prior batch, it never merges.
type ReorderRecommendation struct {
	ID                int64     `json:"id" db:"id"`
	StoreID           int64     `json:"-" db:"store_id"`
	SKUID             int64     `json:"-" db:"sku_id"`
	ReorderQty        int       `json:"reorder_qty" db:"reorder_qty"`
	Reason            string    `json:"reason" db:"reason"`
	Urgency           Urgency   `json:"urgency" db:"urgency"`
	ForecastedDemand  float64   `json:"forecasted_demand" db:"forecasted_demand"`
	CurrentStock      int       `json:"current_stock" db:"current_stock"`
	VelocityChangePct float64   `json:"velocity_change_pct" db:"velocity_change_pct"`
	GeneratedAt       time.Time `json:"generated_at" db:"generated_at"`
	IsActive          bool      `json:"is_active" db:"is_active"`
}

// ReorderItem is the API-facing reorder line, keyed by the natural sku id.
type ReorderItem struct {
	SKUID             string  `json:"sku_id"`
	SKUName           string  `json:"sku_name"`
	ReorderQty        int     `json:"reorder_qty"`
	Reason            string  `json:"reason"`
	Urgency           Urgency `json:"urgency"`
	ForecastedDemand  float64 `json:"forecasted_demand"`
	CurrentStock      int     `json:"current_stock"`
	VelocityChangePct float64 `json:"velocity_change_pct"`
}

// ReorderSummary counts pending recommendations by urgency tier.
type ReorderSummary struct {
	TotalItems int `json:"total_items"`
	Critical   int `json:"critical"`
	High       int `json:"high"`
	Medium     int `json:"medium"`
	Low        int `json:"low"`
}

// Festival is one configured festival date with its expected demand lift.
type Festival struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Date             time.Time `json:"date" db:"date"`
	Region           string    `json:"region" db:"region"`
	ImpactMultiplier float64   `json:"impact_multiplier" db:"impact_multiplier"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// UploadReport is the structured result of one CSV/XLSX ingestion.
// Ingestion never aborts on a bad row; it reports counts and the first
// few error messages instead.
type UploadReport struct {
	UploadID      string   `json:"upload_id"`
	Success       bool     `json:"success"`
	RowsProcessed int      `json:"rows_processed"`
	RowsFailed    int      `json:"rows_failed"`
	Errors        []string `json:"errors"`
	StoreID       string   `json:"store_id,omitempty"`
}
