package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yzlim/campuspantry/internal/model"
)

// AddWeeklyItem adds an item to the needed-this-week list for a campus.
func AddWeeklyItem(ctx context.Context, db *sql.DB, campus, itemName, category string) (*model.WeeklyItem, error) {
	if campus == "" || itemName == "" || category == "" {
		return nil, fmt.Errorf("%w: campus, item name and category required", ErrValidation)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO weekly_items (campus, item_name, category) VALUES (?, ?, ?)`,
		campus, itemName, category,
	)
	if err != nil {
		return nil, fmt.Errorf("adding weekly item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting weekly item id: %w", err)
	}

	item := &model.WeeklyItem{}
	err = db.QueryRowContext(ctx,
		`SELECT id, campus, item_name, category, created_at FROM weekly_items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Campus, &item.ItemName, &item.Category, &item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting weekly item: %w", err)
	}
	return item, nil
}

// ListWeeklyItems returns the needed-items list, optionally filtered by campus.
func ListWeeklyItems(ctx context.Context, db *sql.DB, campus string) ([]model.WeeklyItem, error) {
	query := `SELECT id, campus, item_name, category, created_at FROM weekly_items`
	var args []any
	if campus != "" {
		query += ` WHERE campus = ?`
		args = append(args, campus)
	}
	query += ` ORDER BY campus, item_name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing weekly items: %w", err)
	}
	defer rows.Close()

	var items []model.WeeklyItem
	for rows.Next() {
		var item model.WeeklyItem
		if err := rows.Scan(&item.ID, &item.Campus, &item.ItemName, &item.Category, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning weekly item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteWeeklyItem removes an entry from the list.
func DeleteWeeklyItem(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM weekly_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting weekly item: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
