package ownership

import (
	"context"
	"errors"
	"testing"

	"github.com/mtunzisteven/foodStorageManager/internal/models"
	"github.com/mtunzisteven/foodStorageManager/internal/storage"
)

// fakeProducts implements the subset of storage.ProductStore the guard uses;
// the remaining methods are never called in these tests.
type fakeProducts struct {
	storage.ProductStore
	bySeq map[int64]*models.Product
	err   error
}

func (f *fakeProducts) GetProductBySequenceID(_ context.Context, seqID int64) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	product, ok := f.bySeq[seqID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return product, nil
}

func TestAuthorizeProduct(t *testing.T) {
	ctx := context.Background()
	owned := &models.Product{ID: "p-1", SequenceID: 7, Name: "Rice", OwnerID: "owner-1"}
	guard := NewGuard(&fakeProducts{bySeq: map[int64]*models.Product{7: owned}})

	t.Run("owner allowed", func(t *testing.T) {
		for _, level := range []Level{Read, Mutate} {
			product, err := guard.AuthorizeProduct(ctx, 7, "owner-1", level)
			if err != nil {
				t.Fatalf("AuthorizeProduct(level %d) failed: %v", level, err)
			}
			if product.ID != "p-1" {
				t.Errorf("Resolved wrong product: %+v", product)
			}
		}
	})

	t.Run("non-owner on existing product is denied, not hidden", func(t *testing.T) {
		for _, level := range []Level{Read, Mutate} {
			_, err := guard.AuthorizeProduct(ctx, 7, "intruder", level)
			if !errors.Is(err, ErrNotOwner) {
				t.Errorf("level %d: expected ErrNotOwner, got %v", level, err)
			}
		}
	})

	t.Run("absent product is not found for everyone", func(t *testing.T) {
		// Existence is checked before ownership: the owner and a stranger
		// get the same answer for an id that does not resolve.
		for _, actor := range []string{"owner-1", "intruder"} {
			_, err := guard.AuthorizeProduct(ctx, 999, actor, Mutate)
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("actor %q: expected ErrNotFound, got %v", actor, err)
			}
			if errors.Is(err, ErrNotOwner) {
				t.Errorf("actor %q: ownership leaked for an absent product", actor)
			}
		}
	})

	t.Run("store failure is neither denial nor not-found", func(t *testing.T) {
		broken := NewGuard(&fakeProducts{err: errors.New("disk gone")})
		_, err := broken.AuthorizeProduct(ctx, 7, "owner-1", Read)
		if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotOwner) {
			t.Errorf("Expected an unclassified failure, got %v", err)
		}
	})
}
