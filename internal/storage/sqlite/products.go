package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mtunzisteven/foodStorageManager/internal/models"
	"github.com/mtunzisteven/foodStorageManager/internal/storage"
)

// CreateProduct inserts a new product into the database.
func (s *SQLiteStore) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}

	query := `
		INSERT INTO products (id, seq_id, name, servings, added_date, expiry_date, owner_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		product.ID,
		product.SequenceID,
		product.Name,
		product.Servings,
		product.AddedDate,
		product.ExpiryDate,
		product.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// GetProduct retrieves a product by its internal id.
func (s *SQLiteStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.getProduct(ctx, "id = ?", id)
}

// GetProductBySequenceID retrieves a product by its public integer id.
func (s *SQLiteStore) GetProductBySequenceID(ctx context.Context, seqID int64) (*models.Product, error) {
	return s.getProduct(ctx, "seq_id = ?", seqID)
}

func (s *SQLiteStore) getProduct(ctx context.Context, where string, arg any) (*models.Product, error) {
	query := `
		SELECT id, seq_id, name, servings, added_date, expiry_date, owner_id
		FROM products
		WHERE ` + where

	product := &models.Product{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&product.ID,
		&product.SequenceID,
		&product.Name,
		&product.Servings,
		&product.AddedDate,
		&product.ExpiryDate,
		&product.OwnerID,
	)

	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// ListProductsByOwner returns one page of the owner's products plus the
// owner's total count. Ordered by sequence id so pagination is stable
// regardless of insertion interleaving.
func (s *SQLiteStore) ListProductsByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]models.Product, int, error) {
	if page < 1 {
		page = 1
	}

	var total int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products WHERE owner_id = ?",
		ownerID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, seq_id, name, servings, added_date, expiry_date, owner_id
		 FROM products
		 WHERE owner_id = ?
		 ORDER BY seq_id
		 LIMIT ? OFFSET ?`,
		ownerID, pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.SequenceID, &p.Name, &p.Servings, &p.AddedDate, &p.ExpiryDate, &p.OwnerID); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, total, nil
}

// UpdateProduct overwrites the mutable fields of an existing product.
// OwnerID is immutable and deliberately absent from the SET clause.
// Last-write-wins: no version check is performed.
func (s *SQLiteStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = ?, servings = ?, expiry_date = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		product.Name,
		product.Servings,
		product.ExpiryDate,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
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

// DeleteProduct removes a product by its internal id.
func (s *SQLiteStore) DeleteProduct(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// ProductExists reports whether the given internal id resolves.
func (s *SQLiteStore) ProductExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM products WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return true, nil
}
