package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sharehub/internal/domain"
	"sharehub/internal/models"
)

func (db *DB) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	query := `INSERT INTO requests (description, requester_id, created) VALUES (?, ?, ?)`
	result, err := db.ExecContext(ctx, query, request.Description, request.RequesterID, request.Created.String())
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create request id: %w", err)
	}
	request.ID = id
	return nil
}

func (db *DB) GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error) {
	query := `SELECT id, description, requester_id, created FROM requests WHERE id = ?`
	request, err := scanRequest(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("request %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get request %d: %w", id, err)
	}
	return request, nil
}

func (db *DB) ListRequestsByRequester(ctx context.Context, requesterID int64) ([]models.ItemRequest, error) {
	query := `SELECT id, description, requester_id, created FROM requests
              WHERE requester_id = ? ORDER BY created DESC`
	rows, err := db.QueryContext(ctx, query, requesterID)
	if err != nil {
		return nil, fmt.Errorf("list requests by requester %d: %w", requesterID, err)
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (db *DB) ListOtherRequests(ctx context.Context, requesterID int64, limit, offset int) ([]models.ItemRequest, error) {
	query := `SELECT id, description, requester_id, created FROM requests
              WHERE requester_id != ? ORDER BY created`
	args := []any{requesterID}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list other requests: %w", err)
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (db *DB) CountOtherRequests(ctx context.Context, requesterID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM requests WHERE requester_id != ?`
	if err := db.QueryRowContext(ctx, query, requesterID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count other requests: %w", err)
	}
	return count, nil
}

func (db *DB) CountRequestsByRequester(ctx context.Context, requesterID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM requests WHERE requester_id = ?`
	if err := db.QueryRowContext(ctx, query, requesterID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count requests by requester %d: %w", requesterID, err)
	}
	return count, nil
}

func scanRequest(row interface{ Scan(...any) error }) (*models.ItemRequest, error) {
	var r models.ItemRequest
	var created string
	err := row.Scan(&r.ID, &r.Description, &r.RequesterID, &created)
	if err != nil {
		return nil, err
	}
	if r.Created, err = models.ParseDateTime(created); err != nil {
		return nil, err
	}
	return &r, nil
}

func collectRequests(rows *sql.Rows) ([]models.ItemRequest, error) {
	var requests []models.ItemRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		requests = append(requests, *r)
	}
	return requests, rows.Err()
}
