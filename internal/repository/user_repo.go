package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/tmarchand/folio/internal/models"
)

// ErrUserNotFound is returned when a user id has no row.
var ErrUserNotFound = errors.New("user not found")

// UserRepository stores the users that scope holdings and snapshots.
type UserRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sqlx.DB, log *logrus.Logger) *UserRepository {
	return &UserRepository{db: db, log: log}
}

// EnsureExists inserts the user if missing; existing rows are left untouched.
func (r *UserRepository) EnsureExists(ctx context.Context, userID, displayName, email string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_info (user_id, display_name, email)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO NOTHING`, userID, displayName, email)
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

// Get returns one user by id.
func (r *UserRepository) Get(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u,
		`SELECT user_id, display_name, email FROM user_info WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// List returns all users, used by the snapshot job's per-user fan-out.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users,
		`SELECT user_id, display_name, email FROM user_info ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
