package model

import "time"

// Collection is one entry in the collection history: a reserved or
// requested item a student will pick up. Ref is the public identifier
// embedded in QR payloads.
type Collection struct {
	ID          int64      `json:"id"`
	Ref         string     `json:"ref"`
	UserID      int64      `json:"user_id"`
	UserName    string     `json:"user_name"`
	ItemName    string     `json:"item_name"`
	Category    string     `json:"category"`
	NumItem     int        `json:"num_item"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CollectedAt *time.Time `json:"collected_at,omitempty"`
}

// Collection statuses. Collected is terminal: a record never leaves it.
const (
	CollectionPending = "Pending"
	CollectionReady   = "Ready to collect"
	CollectionDone    = "Collected"
)
