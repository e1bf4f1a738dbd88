package model

// Notification is a derived alert over the current inventory snapshot.
// Notifications are never persisted; they are recomputed on every read.
type Notification struct {
	Type       string `json:"type"`
	Severity   string `json:"severity,omitempty"`
	ItemName   string `json:"item_name"`
	Campus     string `json:"campus"`
	ExpiryDate string `json:"expiry_date,omitempty"`
	Title      string `json:"title"`
	Message    string `json:"message"`
}

// Notification types.
const (
	NotificationLowStock = "Low Stock"
	NotificationExpiry   = "Expiry"
)

// Expiry severities.
const (
	SeverityExpired  = "expired"
	SeverityExpiring = "expiring"
)
