package model

import "time"

// RecipientRequest is an ad hoc want-list entry for an item not currently
// in stock. Submitting one also creates a Pending collection record.
type RecipientRequest struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	UserEmail   string    `json:"user_email"`
	Category    string    `json:"category"`
	ProductName string    `json:"product_name"`
	Details     string    `json:"details,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// WeeklyItem is an entry in the admin-curated list of items needed this
// week, shown to donors as donation suggestions.
type WeeklyItem struct {
	ID        int64     `json:"id"`
	Campus    string    `json:"campus"`
	ItemName  string    `json:"item_name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}
