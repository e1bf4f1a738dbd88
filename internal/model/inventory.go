package model

import "time"

// InventoryItem is the stock record for an item at a campus. There is at
// most one record per (item_name, campus); perishables additionally carry
// expiry-dated sub-batches whose stocks always sum to Quantity.
type InventoryItem struct {
	ID            int64         `json:"id"`
	ItemName      string        `json:"item_name"`
	Category      string        `json:"category"`
	Campus        string        `json:"campus"`
	Unit          string        `json:"unit"`
	Quantity      int           `json:"quantity"`
	LowThreshold  int           `json:"low_threshold"`
	HighThreshold int           `json:"high_threshold"`
	StockLevel    string        `json:"stock_level"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Batches       []ExpiryBatch `json:"expiry_date_list,omitempty"`
}

// ExpiryBatch is a sub-quantity of a perishable item tagged with its own
// expiry date (ISO date string, e.g. "2025-10-31").
type ExpiryBatch struct {
	ID         int64  `json:"-"`
	ExpiryDate string `json:"expiry_date"`
	Stock      int    `json:"stock"`
}

// Stock levels.
const (
	StockLow    = "Low"
	StockMedium = "Medium"
	StockHigh   = "High"
)

// CategoryFood marks perishable items, which are tracked in expiry batches.
const CategoryFood = "Food"

// Perishable reports whether items of the category carry expiry batches.
func Perishable(category string) bool {
	return category == CategoryFood
}

// ClassifyStock maps a quantity to a stock level relative to the item's
// thresholds. Callers must ensure low < high (enforced at record creation).
func ClassifyStock(quantity, low, high int) string {
	switch {
	case quantity <= low:
		return StockLow
	case quantity >= high:
		return StockHigh
	default:
		return StockMedium
	}
}

// ExpiryDateLayout is the wire and storage format for batch expiry dates.
const ExpiryDateLayout = "2006-01-02"

// ValidExpiryDate reports whether date parses as an ISO calendar date.
func ValidExpiryDate(date string) bool {
	_, err := time.Parse(ExpiryDateLayout, date)
	return err == nil
}
