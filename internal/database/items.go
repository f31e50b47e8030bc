package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sharehub/internal/domain"
	"sharehub/internal/models"
)

const itemColumns = `id, owner_id, name, description, available, request_id`

func scanItem(row interface{ Scan(...any) error }) (*models.Item, error) {
	var item models.Item
	var requestID sql.NullInt64
	err := row.Scan(&item.ID, &item.OwnerID, &item.Name, &item.Description, &item.Available, &requestID)
	if err != nil {
		return nil, err
	}
	if requestID.Valid {
		item.RequestID = &requestID.Int64
	}
	return &item, nil
}

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	query := `INSERT INTO items (owner_id, name, description, available, request_id) VALUES (?, ?, ?, ?, ?)`
	var requestID sql.NullInt64
	if item.RequestID != nil {
		requestID = sql.NullInt64{Int64: *item.RequestID, Valid: true}
	}
	result, err := db.ExecContext(ctx, query, item.OwnerID, item.Name, item.Description, item.Available, requestID)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create item id: %w", err)
	}
	item.ID = id
	return nil
}

func (db *DB) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`
	item, err := scanItem(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return item, nil
}

func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	query := `UPDATE items SET name = ?, description = ?, available = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, item.Name, item.Description, item.Available, item.ID)
	if err != nil {
		return fmt.Errorf("update item %d: %w", item.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("item %d: %w", item.ID, domain.ErrNotFound)
	}
	return nil
}

func (db *DB) DeleteItem(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (db *DB) ListItemsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = ? ORDER BY id`
	args := []any{ownerID}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items by owner %d: %w", ownerID, err)
	}
	defer rows.Close()
	return collectItems(rows)
}

func (db *DB) CountItemsByOwner(ctx context.Context, ownerID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM items WHERE owner_id = ?`
	if err := db.QueryRowContext(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count items by owner %d: %w", ownerID, err)
	}
	return count, nil
}

func (db *DB) SearchItemsByText(ctx context.Context, text string) ([]models.Item, error) {
	pattern := "%" + strings.ToLower(text) + "%"
	query := `SELECT ` + itemColumns + ` FROM items
              WHERE available = 1 AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)
              ORDER BY id`
	rows, err := db.QueryContext(ctx, query, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

func (db *DB) ListItemsByRequestIDs(ctx context.Context, requestIDs []int64) (map[int64][]models.Item, error) {
	result := make(map[int64][]models.Item)
	if len(requestIDs) == 0 {
		return result, nil
	}

	marks, args := placeholders(requestIDs)
	query := `SELECT ` + itemColumns + ` FROM items WHERE request_id IN (` + marks + `) ORDER BY id`
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items by requests: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		result[*item.RequestID] = append(result[*item.RequestID], *item)
	}
	return result, rows.Err()
}

func collectItems(rows *sql.Rows) ([]models.Item, error) {
	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
