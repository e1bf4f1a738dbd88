package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/yzlim/campuspantry/internal/model"
)

// AddStockParams describes a proposed stock addition (donation intake or
// restock). Thresholds are only consulted when the addition creates the
// first record for the item anywhere; otherwise they are inherited.
type AddStockParams struct {
	ItemName      string
	Category      string
	Campus        string
	Quantity      int
	Unit          string
	ExpiryDate    string
	LowThreshold  int
	HighThreshold int
}

// AddStock merges a stock addition into the inventory, keyed by
// (item_name, campus):
//
//   - A record exists at the target campus: merge into it. Perishables
//     upsert the matching expiry batch and recompute quantity as the sum
//     of batches; non-perishables add to the running total.
//   - A record for the item exists at another campus: create the
//     target-campus record, inheriting thresholds and unit from it
//     (thresholds belong to the item type, not the campus instance).
//   - Otherwise: create a fresh record with the caller's thresholds.
//
// After any call the stored stock_level matches model.ClassifyStock and,
// for perishables, quantity equals the sum of batch stocks.
func AddStock(ctx context.Context, db *sql.DB, p AddStockParams) (*model.InventoryItem, error) {
	if err := validateAddStock(p); err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		id        int64
		category  string
		quantity  int
		low, high int
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, category, quantity, low_threshold, high_threshold
		 FROM inventory WHERE item_name = ? AND campus = ?`,
		p.ItemName, p.Campus,
	).Scan(&id, &category, &quantity, &low, &high)

	switch {
	case err == sql.ErrNoRows:
		id, err = createRecord(ctx, tx, p)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("looking up inventory record: %w", err)
	default:
		if category != p.Category {
			return nil, fmt.Errorf("%w: item %q at %s is categorised as %q, not %q",
				ErrValidation, p.ItemName, p.Campus, category, p.Category)
		}
		if err := mergeIntoRecord(ctx, tx, id, quantity, low, high, p); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing stock addition: %w", err)
	}

	return GetInventoryItem(ctx, db, id)
}

func validateAddStock(p AddStockParams) error {
	if p.ItemName == "" || p.Category == "" || p.Campus == "" {
		return fmt.Errorf("%w: item name, category and campus required", ErrValidation)
	}
	if p.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if model.Perishable(p.Category) {
		if !model.ValidExpiryDate(p.ExpiryDate) {
			return fmt.Errorf("%w: perishable items require an expiry date (YYYY-MM-DD)", ErrValidation)
		}
	} else if p.ExpiryDate != "" {
		return fmt.Errorf("%w: expiry date only applies to perishable items", ErrValidation)
	}
	return nil
}

// mergeIntoRecord folds the addition into an existing same-campus record.
func mergeIntoRecord(ctx context.Context, tx *sql.Tx, id int64, quantity, low, high int, p AddStockParams) error {
	newQty := quantity + p.Quantity

	if model.Perishable(p.Category) {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO inventory_batches (inventory_id, expiry_date, stock) VALUES (?, ?, ?)
			 ON CONFLICT (inventory_id, expiry_date) DO UPDATE SET stock = stock + ?`,
			id, p.ExpiryDate, p.Quantity, p.Quantity,
		)
		if err != nil {
			return fmt.Errorf("merging expiry batch: %w", err)
		}

		// Quantity is authoritative from the batches, not the running total.
		err = tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(stock), 0) FROM inventory_batches WHERE inventory_id = ?`, id,
		).Scan(&newQty)
		if err != nil {
			return fmt.Errorf("summing expiry batches: %w", err)
		}
	}

	_, err := tx.ExecContext(ctx,
		`UPDATE inventory SET quantity = ?, stock_level = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		newQty, model.ClassifyStock(newQty, low, high), id,
	)
	if err != nil {
		return fmt.Errorf("updating inventory record: %w", err)
	}
	return nil
}

// createRecord creates a new record at the target campus, inheriting
// thresholds and unit from a sibling campus when one exists.
func createRecord(ctx context.Context, tx *sql.Tx, p AddStockParams) (int64, error) {
	low, high, unit := p.LowThreshold, p.HighThreshold, p.Unit

	var sibLow, sibHigh int
	var sibUnit string
	err := tx.QueryRowContext(ctx,
		`SELECT low_threshold, high_threshold, unit FROM inventory
		 WHERE item_name = ? ORDER BY id LIMIT 1`, p.ItemName,
	).Scan(&sibLow, &sibHigh, &sibUnit)
	switch {
	case err == sql.ErrNoRows:
		if low < 0 || low >= high {
			return 0, fmt.Errorf("%w: thresholds must satisfy 0 <= low < high", ErrValidation)
		}
	case err != nil:
		return 0, fmt.Errorf("looking up sibling campus record: %w", err)
	default:
		low, high, unit = sibLow, sibHigh, sibUnit
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO inventory (item_name, category, campus, unit, quantity, low_threshold, high_threshold, stock_level)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ItemName, p.Category, p.Campus, unit, p.Quantity, low, high,
		model.ClassifyStock(p.Quantity, low, high),
	)
	if err != nil {
		return 0, fmt.Errorf("creating inventory record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting inventory id: %w", err)
	}

	if model.Perishable(p.Category) {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO inventory_batches (inventory_id, expiry_date, stock) VALUES (?, ?, ?)`,
			id, p.ExpiryDate, p.Quantity,
		)
		if err != nil {
			return 0, fmt.Errorf("creating expiry batch: %w", err)
		}
	}

	return id, nil
}

// InventoryFilter narrows ListInventory results. Zero values mean no
// filtering on that dimension.
type InventoryFilter struct {
	Campus      string
	Category    string
	StockLevel  string
	InStockOnly bool
}

// ListInventory returns inventory records matching the filter, with expiry
// batches attached for perishables.
func ListInventory(ctx context.Context, db *sql.DB, filter InventoryFilter) ([]model.InventoryItem, error) {
	query := `SELECT id, item_name, category, campus, unit, quantity,
	                 low_threshold, high_threshold, stock_level, updated_at
	          FROM inventory`
	var conds []string
	var args []any

	if filter.Campus != "" {
		conds = append(conds, "campus = ?")
		args = append(args, filter.Campus)
	}
	if filter.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.StockLevel != "" {
		conds = append(conds, "stock_level = ?")
		args = append(args, filter.StockLevel)
	}
	if filter.InStockOnly {
		conds = append(conds, "quantity > 0")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY item_name, campus"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	defer rows.Close()

	var items []model.InventoryItem
	for rows.Next() {
		var item model.InventoryItem
		if err := rows.Scan(&item.ID, &item.ItemName, &item.Category, &item.Campus, &item.Unit,
			&item.Quantity, &item.LowThreshold, &item.HighThreshold, &item.StockLevel, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning inventory record: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		if !model.Perishable(items[i].Category) {
			continue
		}
		batches, err := loadBatches(ctx, db, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Batches = batches
	}
	return items, nil
}

// GetInventoryItem returns an inventory record by ID, with batches.
func GetInventoryItem(ctx context.Context, db *sql.DB, id int64) (*model.InventoryItem, error) {
	item := &model.InventoryItem{}
	err := db.QueryRowContext(ctx,
		`SELECT id, item_name, category, campus, unit, quantity,
		        low_threshold, high_threshold, stock_level, updated_at
		 FROM inventory WHERE id = ?`, id,
	).Scan(&item.ID, &item.ItemName, &item.Category, &item.Campus, &item.Unit,
		&item.Quantity, &item.LowThreshold, &item.HighThreshold, &item.StockLevel, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting inventory record: %w", err)
	}

	if model.Perishable(item.Category) {
		item.Batches, err = loadBatches(ctx, db, item.ID)
		if err != nil {
			return nil, err
		}
	}
	return item, nil
}

// DeleteInventoryItem removes a record and its batches.
func DeleteInventoryItem(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM inventory WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting inventory record: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

type rowQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// loadBatches returns the expiry batches for an inventory record, earliest
// expiry first.
func loadBatches(ctx context.Context, q rowQuerier, inventoryID int64) ([]model.ExpiryBatch, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, expiry_date, stock FROM inventory_batches
		 WHERE inventory_id = ? ORDER BY expiry_date`, inventoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading expiry batches: %w", err)
	}
	defer rows.Close()

	var batches []model.ExpiryBatch
	for rows.Next() {
		var b model.ExpiryBatch
		if err := rows.Scan(&b.ID, &b.ExpiryDate, &b.Stock); err != nil {
			return nil, fmt.Errorf("scanning expiry batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}
