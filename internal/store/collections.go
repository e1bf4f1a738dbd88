package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/yzlim/campuspantry/internal/model"
)

// Reserve decrements stock for an inventory record and creates a
// Ready-to-collect collection entry, all in one transaction. The decrement
// is conditional (quantity >= numItem), so concurrent reservations can
// never drive the quantity below zero; losers get ErrInsufficientStock.
func Reserve(ctx context.Context, db *sql.DB, userID int64, userName string, inventoryID int64, numItem int) (*model.Collection, error) {
	if numItem < 1 {
		return nil, fmt.Errorf("%w: requested quantity must be at least 1", ErrValidation)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE inventory SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND quantity >= ?`,
		numItem, inventoryID, numItem,
	)
	if err != nil {
		return nil, fmt.Errorf("decrementing stock: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		var exists int
		err = tx.QueryRowContext(ctx,
			`SELECT 1 FROM inventory WHERE id = ?`, inventoryID,
		).Scan(&exists)
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("checking inventory record: %w", err)
		}
		return nil, ErrInsufficientStock
	}

	var (
		itemName, category string
		quantity           int
		low, high          int
	)
	err = tx.QueryRowContext(ctx,
		`SELECT item_name, category, quantity, low_threshold, high_threshold
		 FROM inventory WHERE id = ?`, inventoryID,
	).Scan(&itemName, &category, &quantity, &low, &high)
	if err != nil {
		return nil, fmt.Errorf("reading inventory record: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE inventory SET stock_level = ? WHERE id = ?`,
		model.ClassifyStock(quantity, low, high), inventoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating stock level: %w", err)
	}

	if model.Perishable(category) {
		if err := consumeBatches(ctx, tx, inventoryID, numItem); err != nil {
			return nil, err
		}
	}

	ref := uuid.NewString()
	result, err = tx.ExecContext(ctx,
		`INSERT INTO collections (ref, user_id, user_name, item_name, category, num_item, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ref, userID, userName, itemName, category, numItem, model.CollectionReady,
	)
	if err != nil {
		return nil, fmt.Errorf("creating collection record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing reservation: %w", err)
	}

	id, _ := result.LastInsertId()
	return GetCollection(ctx, db, id)
}

// consumeBatches depletes expiry batches earliest-expiry-first so the sum
// of batch stocks keeps matching the record quantity.
func consumeBatches(ctx context.Context, tx *sql.Tx, inventoryID int64, numItem int) error {
	batches, err := loadBatches(ctx, tx, inventoryID)
	if err != nil {
		return err
	}

	remaining := numItem
	for _, b := range batches {
		if remaining == 0 {
			break
		}
		take := min(remaining, b.Stock)
		if take == b.Stock {
			_, err = tx.ExecContext(ctx,
				`DELETE FROM inventory_batches WHERE id = ?`, b.ID)
		} else {
			_, err = tx.ExecContext(ctx,
				`UPDATE inventory_batches SET stock = stock - ? WHERE id = ?`, take, b.ID)
		}
		if err != nil {
			return fmt.Errorf("consuming expiry batch: %w", err)
		}
		remaining -= take
	}
	if remaining > 0 {
		// Batches out of sync with the record quantity.
		return fmt.Errorf("expiry batches short by %d for inventory %d", remaining, inventoryID)
	}
	return nil
}

// Redeem marks a Ready-to-collect record as Collected. The transition is
// a single guarded update, so racing scans of the same code resolve to
// exactly one winner; everyone else gets ErrInvalidState.
func Redeem(ctx context.Context, db *sql.DB, ref string) (*model.Collection, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE collections SET status = ?, collected_at = CURRENT_TIMESTAMP
		 WHERE ref = ? AND status = ?`,
		model.CollectionDone, ref, model.CollectionReady,
	)
	if err != nil {
		return nil, fmt.Errorf("marking collection collected: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		c, err := GetCollectionByRef(ctx, db, ref)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: collection is %q, not %q", ErrInvalidState, c.Status, model.CollectionReady)
	}

	return GetCollectionByRef(ctx, db, ref)
}

// GetCollection returns a collection record by ID.
func GetCollection(ctx context.Context, db *sql.DB, id int64) (*model.Collection, error) {
	return scanCollection(db.QueryRowContext(ctx,
		`SELECT id, ref, user_id, user_name, item_name, category, num_item, status, created_at, collected_at
		 FROM collections WHERE id = ?`, id))
}

// GetCollectionByRef returns a collection record by its public reference.
func GetCollectionByRef(ctx context.Context, db *sql.DB, ref string) (*model.Collection, error) {
	return scanCollection(db.QueryRowContext(ctx,
		`SELECT id, ref, user_id, user_name, item_name, category, num_item, status, created_at, collected_at
		 FROM collections WHERE ref = ?`, ref))
}

func scanCollection(row *sql.Row) (*model.Collection, error) {
	c := &model.Collection{}
	err := row.Scan(&c.ID, &c.Ref, &c.UserID, &c.UserName, &c.ItemName, &c.Category,
		&c.NumItem, &c.Status, &c.CreatedAt, &c.CollectedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning collection record: %w", err)
	}
	return c, nil
}

// ListCollections returns collection records, newest first. userID 0 lists
// all users (admin view).
func ListCollections(ctx context.Context, db *sql.DB, userID int64) ([]model.Collection, error) {
	query := `SELECT id, ref, user_id, user_name, item_name, category, num_item, status, created_at, collected_at
	          FROM collections`
	var args []any
	if userID != 0 {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	defer rows.Close()

	var collections []model.Collection
	for rows.Next() {
		var c model.Collection
		if err := rows.Scan(&c.ID, &c.Ref, &c.UserID, &c.UserName, &c.ItemName, &c.Category,
			&c.NumItem, &c.Status, &c.CreatedAt, &c.CollectedAt); err != nil {
			return nil, fmt.Errorf("scanning collection record: %w", err)
		}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}
