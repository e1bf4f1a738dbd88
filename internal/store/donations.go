package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yzlim/campuspantry/internal/model"
)

// CreateDonationParams describes a donor's application. Photo is the
// already-normalized image data (may be nil).
type CreateDonationParams struct {
	DonorID         int64
	DonorName       string
	Category        string
	ItemType        string
	NumberOfItems   int
	DropoffLocation string
	DeliveryDate    string
	Notes           string
	Photo           []byte
	PhotoMime       string
}

// CreateDonation files a donation application in Pending status.
func CreateDonation(ctx context.Context, db *sql.DB, p CreateDonationParams) (*model.Donation, error) {
	if p.Category == "" || p.ItemType == "" || p.DropoffLocation == "" {
		return nil, fmt.Errorf("%w: category, item type and dropoff location required", ErrValidation)
	}
	if p.NumberOfItems <= 0 {
		return nil, fmt.Errorf("%w: number of items must be positive", ErrValidation)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO donations (donor_id, donor_name, category, item_type, number_of_items,
		                        dropoff_location, delivery_date, notes, photo, photo_mime, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.DonorID, p.DonorName, p.Category, p.ItemType, p.NumberOfItems,
		p.DropoffLocation, p.DeliveryDate, p.Notes, p.Photo, p.PhotoMime, model.DonationPending,
	)
	if err != nil {
		return nil, fmt.Errorf("creating donation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting donation id: %w", err)
	}

	return GetDonation(ctx, db, id)
}

// GetDonation returns a donation by ID (without photo data).
func GetDonation(ctx context.Context, db *sql.DB, id int64) (*model.Donation, error) {
	d := &model.Donation{}
	var deliveryDate, notes, photoMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, donor_id, donor_name, category, item_type, number_of_items,
		        dropoff_location, delivery_date, notes, photo_mime, status,
		        created_at, reviewed_at, reviewed_by
		 FROM donations WHERE id = ?`, id,
	).Scan(&d.ID, &d.DonorID, &d.DonorName, &d.Category, &d.ItemType, &d.NumberOfItems,
		&d.DropoffLocation, &deliveryDate, &notes, &photoMime, &d.Status,
		&d.CreatedAt, &d.ReviewedAt, &d.ReviewedBy)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting donation: %w", err)
	}
	d.DeliveryDate = deliveryDate.String
	d.Notes = notes.String
	d.PhotoMime = photoMime.String
	return d, nil
}

// GetDonationPhoto returns the stored photo and its MIME type.
func GetDonationPhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM donations WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting donation photo: %w", err)
	}
	if len(photo) == 0 {
		return nil, "", ErrNotFound
	}
	return photo, mime.String, nil
}

// ListDonations returns donations, newest first. donorID 0 lists all
// donors; status "" lists all statuses.
func ListDonations(ctx context.Context, db *sql.DB, donorID int64, status string) ([]model.Donation, error) {
	query := `SELECT id, donor_id, donor_name, category, item_type, number_of_items,
	                 dropoff_location, delivery_date, notes, photo_mime, status,
	                 created_at, reviewed_at, reviewed_by
	          FROM donations`
	var conds []string
	var args []any
	if donorID != 0 {
		conds = append(conds, "donor_id = ?")
		args = append(args, donorID)
	}
	if status != "" {
		conds = append(conds, "status = ?")
		args = append(args, status)
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing donations: %w", err)
	}
	defer rows.Close()

	var donations []model.Donation
	for rows.Next() {
		var d model.Donation
		var deliveryDate, notes, photoMime sql.NullString
		if err := rows.Scan(&d.ID, &d.DonorID, &d.DonorName, &d.Category, &d.ItemType, &d.NumberOfItems,
			&d.DropoffLocation, &deliveryDate, &notes, &photoMime, &d.Status,
			&d.CreatedAt, &d.ReviewedAt, &d.ReviewedBy); err != nil {
			return nil, fmt.Errorf("scanning donation: %w", err)
		}
		d.DeliveryDate = deliveryDate.String
		d.Notes = notes.String
		d.PhotoMime = photoMime.String
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

// ReviewDonation transitions a Pending donation to Approved or Rejected.
// The transition happens exactly once; reviewing a reviewed donation fails
// with ErrInvalidState.
func ReviewDonation(ctx context.Context, db *sql.DB, id int64, status string, reviewerID int64) (*model.Donation, error) {
	if status != model.DonationApproved && status != model.DonationRejected {
		return nil, fmt.Errorf("%w: review status must be %q or %q", ErrValidation,
			model.DonationApproved, model.DonationRejected)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE donations SET status = ?, reviewed_at = CURRENT_TIMESTAMP, reviewed_by = ?
		 WHERE id = ? AND status = ?`,
		status, reviewerID, id, model.DonationPending,
	)
	if err != nil {
		return nil, fmt.Errorf("reviewing donation: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		d, err := GetDonation(ctx, db, id)
		if err != nil {
			return nil, err
		}
		if d == nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: donation already %s", ErrInvalidState, d.Status)
	}

	return GetDonation(ctx, db, id)
}
