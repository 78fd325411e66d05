package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mtunzisteven/foodStorageManager/internal/metrics"
	"github.com/mtunzisteven/foodStorageManager/internal/models"
	"github.com/mtunzisteven/foodStorageManager/internal/ownership"
	"github.com/mtunzisteven/foodStorageManager/internal/storage"
)

// DefaultPageSize is the fixed page size for product listings.
const DefaultPageSize = 20

// defaultQuantity is the pantry quantity for a freshly created product.
const defaultQuantity = 1

// PantryService orchestrates the product lifecycle: id allocation, persistence,
// ownership checks and maintenance of the user's pantry back-references.
//
// CreateProduct and DeleteProduct each perform two storage writes (the product
// row and the pantry back-reference) that are not wrapped in a transaction. A
// failure between the two leaves the pantry disagreeing with the product
// table; that disagreement is counted, logged and repaired by ReconcilePantry,
// never returned as a failure of the caller's request.
type PantryService struct {
	products  storage.ProductStore
	users     storage.UserStore
	allocator IDAllocator
	guard     *ownership.Guard
	logger    *slog.Logger
}

// NewPantryService creates a PantryService.
func NewPantryService(products storage.ProductStore, users storage.UserStore, allocator IDAllocator, guard *ownership.Guard, logger *slog.Logger) *PantryService {
	return &PantryService{
		products:  products,
		users:     users,
		allocator: allocator,
		guard:     guard,
		logger:    logger,
	}
}

// ProductInput is the payload for creating or updating a product.
type ProductInput struct {
	Name       string
	Servings   string
	ExpiryDate int64 // Unix milliseconds
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if strings.TrimSpace(in.Servings) == "" {
		return fmt.Errorf("%w: servings is required", ErrValidation)
	}
	if in.ExpiryDate <= 0 {
		return fmt.Errorf("%w: expiry date is required", ErrValidation)
	}
	return nil
}

// CreateProduct allocates the next product id, persists the product owned by
// the acting user, and appends the pantry back-reference. The append is a
// single atomic row insert, so two concurrent creates for the same owner
// cannot drop each other's entry.
func (s *PantryService) CreateProduct(ctx context.Context, actorID string, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	seqID, err := s.allocator.NextID(ctx, models.CounterProducts)
	if err != nil {
		return nil, classifyAllocation(err)
	}

	product := &models.Product{
		SequenceID: seqID,
		Name:       strings.TrimSpace(in.Name),
		Servings:   strings.TrimSpace(in.Servings),
		AddedDate:  time.Now().UnixMilli(),
		ExpiryDate: in.ExpiryDate,
		OwnerID:    actorID,
	}
	if err := s.products.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	item := models.PantryItem{ProductID: product.ID, Quantity: defaultQuantity}
	if err := s.users.AddPantryItem(ctx, actorID, item); err != nil {
		// The product exists without its back-reference. Surface the
		// inconsistency here; reconciliation cannot recreate a missing
		// entry, so the pantry view simply lacks this product until the
		// user touches it again.
		metrics.ConsistencyWarnings.Inc()
		s.logger.Warn("pantry append failed after product create",
			"user_id", actorID, "product_id", product.ID, "error", err)
	}

	s.logger.Info("product created",
		"product_id", product.ID, "seq_id", product.SequenceID, "owner_id", actorID)
	return product, nil
}

// GetProduct returns one of the acting user's products.
func (s *PantryService) GetProduct(ctx context.Context, actorID string, productSeqID int64) (*models.Product, error) {
	product, err := s.guard.AuthorizeProduct(ctx, productSeqID, actorID, ownership.Read)
	if err != nil {
		return nil, classifyGuard(err)
	}
	return product, nil
}

// UpdateProduct applies field changes to a product the acting user owns.
// Read-modify-write, last-write-wins: concurrent updates are not detected.
func (s *PantryService) UpdateProduct(ctx context.Context, actorID string, productSeqID int64, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product, err := s.guard.AuthorizeProduct(ctx, productSeqID, actorID, ownership.Mutate)
	if err != nil {
		return nil, classifyGuard(err)
	}

	product.Name = strings.TrimSpace(in.Name)
	product.Servings = strings.TrimSpace(in.Servings)
	product.ExpiryDate = in.ExpiryDate

	if err := s.products.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productSeqID)
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info("product updated", "product_id", product.ID, "owner_id", actorID)
	return product, nil
}

// DeleteProduct removes a product the acting user owns, then pulls the pantry
// back-reference. The two writes are not transactional: if the pantry removal
// fails the dangling reference stays behind and reconciliation drops it on the
// next pantry read.
func (s *PantryService) DeleteProduct(ctx context.Context, actorID string, productSeqID int64) error {
	product, err := s.guard.AuthorizeProduct(ctx, productSeqID, actorID, ownership.Mutate)
	if err != nil {
		return classifyGuard(err)
	}

	if err := s.products.DeleteProduct(ctx, product.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, productSeqID)
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := s.users.RemovePantryItem(ctx, actorID, product.ID); err != nil {
		metrics.ConsistencyWarnings.Inc()
		s.logger.Warn("pantry removal failed after product delete",
			"user_id", actorID, "product_id", product.ID, "error", err)
	}

	s.logger.Info("product deleted", "product_id", product.ID, "owner_id", actorID)
	return nil
}

// ListProducts returns one page of the acting user's products and the total
// count. The pantry is reconciled opportunistically before listing.
func (s *PantryService) ListProducts(ctx context.Context, actorID string, page int) ([]models.Product, int, error) {
	s.ReconcilePantry(ctx, actorID)

	products, total, err := s.products.ListProductsByOwner(ctx, actorID, page, DefaultPageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return products, total, nil
}

// GetPantry returns the acting user's pantry back-references after
// reconciliation.
func (s *PantryService) GetPantry(ctx context.Context, actorID string) ([]models.PantryItem, error) {
	s.ReconcilePantry(ctx, actorID)

	items, err := s.users.ListPantry(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return items, nil
}

// ReconcilePantry drops pantry entries whose product no longer resolves. The
// pass is idempotent and best-effort: errors are logged and the caller's read
// proceeds with whatever state is left.
func (s *PantryService) ReconcilePantry(ctx context.Context, userID string) {
	items, err := s.users.ListPantry(ctx, userID)
	if err != nil {
		s.logger.Warn("pantry reconciliation skipped", "user_id", userID, "error", err)
		return
	}

	for _, item := range items {
		exists, err := s.products.ProductExists(ctx, item.ProductID)
		if err != nil {
			s.logger.Warn("pantry reconciliation check failed",
				"user_id", userID, "product_id", item.ProductID, "error", err)
			continue
		}
		if exists {
			continue
		}

		metrics.ConsistencyWarnings.Inc()
		if err := s.users.RemovePantryItem(ctx, userID, item.ProductID); err != nil {
			s.logger.Warn("pantry reconciliation repair failed",
				"user_id", userID, "product_id", item.ProductID, "error", err)
			continue
		}
		metrics.ReconciliationRepairs.Inc()
		s.logger.Info("dangling pantry reference removed",
			"user_id", userID, "product_id", item.ProductID)
	}
}
