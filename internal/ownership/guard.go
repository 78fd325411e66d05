// Package ownership decides whether an acting identity may access a resource.
package ownership

import (
	"context"
	"errors"
	"fmt"

	"github.com/mtunzisteven/foodStorageManager/internal/models"
	"github.com/mtunzisteven/foodStorageManager/internal/storage"
)

var (
	// ErrNotFound is returned when the resource does not resolve. Existence
	// is always checked before ownership, so probing an id never reveals
	// whether it belongs to someone else: absent and foreign ids are
	// indistinguishable until the resource actually exists.
	ErrNotFound = errors.New("ownership: resource not found")

	// ErrNotOwner is returned when the resource exists but the acting
	// identity does not own it.
	ErrNotOwner = errors.New("ownership: resource belongs to another user")
)

// Level is the access being requested.
type Level int

const (
	// Read covers fetching a resource. Pantry contents are private, so
	// reads are owner-only like everything else.
	Read Level = iota
	// Mutate covers update and delete.
	Mutate
)

// Guard resolves products and enforces owner-only access. Both levels permit
// only the owner; there is no admin override.
type Guard struct {
	products storage.ProductStore
}

// NewGuard creates a Guard backed by the given product store.
func NewGuard(products storage.ProductStore) *Guard {
	return &Guard{products: products}
}

// AuthorizeProduct resolves the product with the given public id and checks
// actorID's access at the given level. The existence check runs first: an id
// that does not resolve yields ErrNotFound no matter who asks, and only an
// existing product can yield ErrNotOwner.
func (g *Guard) AuthorizeProduct(ctx context.Context, productSeqID int64, actorID string, level Level) (*models.Product, error) {
	product, err := g.products.GetProductBySequenceID(ctx, productSeqID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, productSeqID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve product %d: %w", productSeqID, err)
	}

	if product.OwnerID != actorID {
		return nil, fmt.Errorf("%w: product %d", ErrNotOwner, productSeqID)
	}

	return product, nil
}
