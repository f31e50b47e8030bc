package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sharehub/internal/domain"
	"sharehub/internal/models"
)

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (name, email) VALUES (?, ?)`
	result, err := db.ExecContext(ctx, query, user.Name, user.Email)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create user id: %w", err)
	}
	user.ID = id
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := `SELECT id, name, email FROM users WHERE id = ?`
	err := db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Name, &user.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &user, nil
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `SELECT id, name, email FROM users WHERE email = ?`
	err := db.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.Name, &user.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user with email %s: %w", email, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT id, name, email FROM users ORDER BY id`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (db *DB) UpdateUser(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET name = ?, email = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, user.Name, user.Email, user.ID)
	if err != nil {
		return fmt.Errorf("update user %d: %w", user.ID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("user %d: %w", user.ID, domain.ErrNotFound)
	}
	return nil
}

func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (db *DB) UserExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`
	if err := db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user %d: %w", id, err)
	}
	return exists, nil
}
