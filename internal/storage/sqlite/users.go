package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mtunzisteven/foodStorageManager/internal/models"
	"github.com/mtunzisteven/foodStorageManager/internal/storage"
)

// CreateUser inserts a new user into the database.
// The insert is a single statement: on a duplicate email nothing is written.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `
		INSERT INTO users (id, seq_id, email, password_hash, family_size, admin, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.SequenceID,
		user.Email,
		user.PasswordHash,
		user.FamilySize,
		user.Admin,
		user.CreatedAt,
	)

	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", storage.ErrDuplicateEmail, user.Email)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

// GetUserByID retrieves a user by their internal id.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

func (s *SQLiteStore) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, seq_id, email, password_hash, family_size, admin, created_at
		FROM users
		WHERE ` + where

	user := &models.User{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.SequenceID,
		&user.Email,
		&user.PasswordHash,
		&user.FamilySize,
		&user.Admin,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// UpdateUser overwrites the mutable fields of an existing user.
// Last-write-wins: no version check is performed.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET email = ?, password_hash = ?, family_size = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FamilySize,
		user.ID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", storage.ErrDuplicateEmail, user.Email)
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// ListPantry returns the user's pantry back-references ordered by product id.
func (s *SQLiteStore) ListPantry(ctx context.Context, userID string) ([]models.PantryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT product_id, quantity FROM pantry_items WHERE user_id = ? ORDER BY product_id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pantry: %w", err)
	}
	defer rows.Close()

	var items []models.PantryItem
	for rows.Next() {
		var item models.PantryItem
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan pantry item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pantry items: %w", err)
	}

	return items, nil
}

// AddPantryItem appends one back-reference as a single row insert, so two
// concurrent appends for the same user cannot drop each other.
func (s *SQLiteStore) AddPantryItem(ctx context.Context, userID string, item models.PantryItem) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO pantry_items (user_id, product_id, quantity) VALUES (?, ?, ?)",
		userID, item.ProductID, item.Quantity,
	)
	if err != nil {
		return fmt.Errorf("failed to add pantry item: %w", err)
	}
	return nil
}

// RemovePantryItem removes the back-reference to productID. Removing a
// reference that is already gone is a no-op, which keeps reconciliation
// idempotent.
func (s *SQLiteStore) RemovePantryItem(ctx context.Context, userID, productID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM pantry_items WHERE user_id = ? AND product_id = ?",
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove pantry item: %w", err)
	}
	return nil
}
