package model

import "time"

// Donation is a donor's application to donate items. Admins review it
// exactly once: Pending transitions to Approved or Rejected and the record
// is terminal afterwards.
type Donation struct {
	ID              int64      `json:"id"`
	DonorID         int64      `json:"donor_id"`
	DonorName       string     `json:"donor_name"`
	Category        string     `json:"category"`
	ItemType        string     `json:"item_type"`
	NumberOfItems   int        `json:"number_of_items"`
	DropoffLocation string     `json:"dropoff_location"`
	DeliveryDate    string     `json:"delivery_date,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	PhotoMime       string     `json:"photo_mime,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy      *int64     `json:"reviewed_by,omitempty"`
}

// Donation statuses.
const (
	DonationPending  = "Pending"
	DonationApproved = "Approved"
	DonationRejected = "Rejected"
)
