// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mtunzisteven/foodStorageManager/internal/models"
)

var (
	// ErrNotFound is returned when an entity id does not resolve.
	ErrNotFound = errors.New("storage: not found")

	// ErrDuplicateEmail is returned when a user insert violates the unique
	// email index. The insert is atomic: nothing is written on failure.
	ErrDuplicateEmail = errors.New("storage: email already registered")

	// ErrUnknownCounter is returned when a counter name has no seeded row.
	ErrUnknownCounter = errors.New("storage: unknown counter")
)

// Store defines the interface for food storage persistence.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Update methods are plain read-modify-write with no version checking:
// concurrent updates to the same row are last-write-wins. Callers must not
// assume isolation between overlapping updates.
type Store interface {
	CounterStore
	UserStore
	ProductStore

	// Close releases any resources held by the store.
	Close() error
}

// CounterStore is the durable record behind the sequence allocator.
type CounterStore interface {
	// IncrementCounter atomically increments the named counter and returns
	// the new value. The read-and-increment happens as one statement at the
	// persistence layer; no two calls can observe the same value.
	// Returns ErrUnknownCounter if the name has no seeded row.
	IncrementCounter(ctx context.Context, name string) (int64, error)

	// GetCounter returns the current value of the named counter without
	// modifying it. Used by the allocator's health probe.
	GetCounter(ctx context.Context, name string) (int64, error)
}

// UserStore persists user accounts and their pantry back-references.
type UserStore interface {
	// CreateUser inserts a new user. The user.ID field is populated by the
	// store (UUID); SequenceID must already be set by the caller.
	// Returns ErrDuplicateEmail if the email is taken; no partial write occurs.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns ErrNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by internal id. Returns ErrNotFound if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// UpdateUser overwrites the mutable fields of an existing user
	// (email, password hash, family size). Returns ErrNotFound if absent.
	UpdateUser(ctx context.Context, user *models.User) error

	// ListPantry returns the user's pantry back-references.
	ListPantry(ctx context.Context, userID string) ([]models.PantryItem, error)

	// AddPantryItem appends one back-reference to the user's pantry as a
	// single atomic row insert.
	AddPantryItem(ctx context.Context, userID string, item models.PantryItem) error

	// RemovePantryItem removes the back-reference to productID as a single
	// atomic row delete. Removing an absent reference is not an error.
	RemovePantryItem(ctx context.Context, userID, productID string) error
}

// ProductStore persists products.
type ProductStore interface {
	// CreateProduct inserts a new product. The product.ID field is populated
	// by the store (UUID); SequenceID and OwnerID must already be set.
	CreateProduct(ctx context.Context, product *models.Product) error

	// GetProduct retrieves a product by internal id. Returns ErrNotFound if absent.
	GetProduct(ctx context.Context, id string) (*models.Product, error)

	// GetProductBySequenceID retrieves a product by its public integer id.
	// Returns ErrNotFound if absent.
	GetProductBySequenceID(ctx context.Context, seqID int64) (*models.Product, error)

	// ListProductsByOwner returns one page of the owner's products ordered by
	// sequence id, plus the owner's total product count. Filtering happens in
	// the query; another owner's products are never returned.
	ListProductsByOwner(ctx context.Context, ownerID string, page, pageSize int) ([]models.Product, int, error)

	// UpdateProduct overwrites the mutable fields of an existing product
	// (name, servings, expiry date). OwnerID is never changed.
	// Returns ErrNotFound if absent.
	UpdateProduct(ctx context.Context, product *models.Product) error

	// DeleteProduct removes a product by internal id. Returns ErrNotFound if absent.
	DeleteProduct(ctx context.Context, id string) error

	// ProductExists reports whether the given internal id resolves.
	// Used by pantry reconciliation.
	ProductExists(ctx context.Context, id string) (bool, error)
}
