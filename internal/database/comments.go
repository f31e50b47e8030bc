package database

import (
	"context"
	"database/sql"
	"fmt"

	"sharehub/internal/models"
)

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `INSERT INTO comments (item_id, text, author_name, created) VALUES (?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query, comment.ItemID, comment.Text, comment.AuthorName, comment.Created.String())
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create comment id: %w", err)
	}
	comment.ID = id
	return nil
}

func (db *DB) ListCommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error) {
	query := `SELECT id, item_id, text, author_name, created FROM comments
              WHERE item_id = ? ORDER BY id`
	rows, err := db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list comments for item %d: %w", itemID, err)
	}
	defer rows.Close()
	return collectComments(rows)
}

func (db *DB) ListCommentsByItems(ctx context.Context, itemIDs []int64) (map[int64][]models.Comment, error) {
	result := make(map[int64][]models.Comment)
	if len(itemIDs) == 0 {
		return result, nil
	}

	marks, args := placeholders(itemIDs)
	query := `SELECT id, item_id, text, author_name, created FROM comments
              WHERE item_id IN (` + marks + `) ORDER BY id`
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments by items: %w", err)
	}
	defer rows.Close()

	comments, err := collectComments(rows)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		result[c.ItemID] = append(result[c.ItemID], c)
	}
	return result, nil
}

func (db *DB) CountCommentsByItem(ctx context.Context, itemID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM comments WHERE item_id = ?`
	if err := db.QueryRowContext(ctx, query, itemID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count comments for item %d: %w", itemID, err)
	}
	return count, nil
}

func collectComments(rows *sql.Rows) ([]models.Comment, error) {
	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		var created string
		if err := rows.Scan(&c.ID, &c.ItemID, &c.Text, &c.AuthorName, &created); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		var err error
		if c.Created, err = models.ParseDateTime(created); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
