package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/yzlim/campuspantry/internal/model"
)

// CreateRequest files an ad hoc item request: a recipient_requests row plus
// a Pending collection record, in one transaction. No stock is touched;
// the request represents a want-list entry for an item not in inventory.
func CreateRequest(ctx context.Context, db *sql.DB, userID int64, userName, userEmail, category, productName, details string) (*model.Collection, error) {
	if category == "" || productName == "" {
		return nil, fmt.Errorf("%w: category and product name required", ErrValidation)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO recipient_requests (user_id, user_email, category, product_name, details)
		 VALUES (?, ?, ?, ?, ?)`,
		userID, userEmail, category, productName, details,
	)
	if err != nil {
		return nil, fmt.Errorf("creating recipient request: %w", err)
	}

	ref := uuid.NewString()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO collections (ref, user_id, user_name, item_name, category, num_item, status)
		 VALUES (?, ?, ?, ?, ?, 1, ?)`,
		ref, userID, userName, productName, category, model.CollectionPending,
	)
	if err != nil {
		return nil, fmt.Errorf("creating pending collection record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing request: %w", err)
	}

	id, _ := result.LastInsertId()
	return GetCollection(ctx, db, id)
}

// ListRequests returns recipient requests, newest first. userID 0 lists all.
func ListRequests(ctx context.Context, db *sql.DB, userID int64) ([]model.RecipientRequest, error) {
	query := `SELECT id, user_id, user_email, category, product_name, details, created_at
	          FROM recipient_requests`
	var args []any
	if userID != 0 {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing recipient requests: %w", err)
	}
	defer rows.Close()

	var requests []model.RecipientRequest
	for rows.Next() {
		var req model.RecipientRequest
		var details sql.NullString
		if err := rows.Scan(&req.ID, &req.UserID, &req.UserEmail, &req.Category,
			&req.ProductName, &details, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning recipient request: %w", err)
		}
		req.Details = details.String
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
