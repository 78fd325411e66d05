package models

// Product represents a perishable item in a user's food storage.
type Product struct {
	// ID is the opaque internal identifier (UUID format).
	ID string

	// SequenceID is the integer id issued by the sequence allocator.
	SequenceID int64

	// Name is the product's display name (e.g., "Rice").
	Name string

	// Servings describes how many servings the product provides. Kept as a
	// free-form string ("4", "6-8") to match what users actually enter.
	Servings string

	// AddedDate is when the product was stored, in Unix milliseconds.
	// Set server-side at creation.
	AddedDate int64

	// ExpiryDate is when the product expires, in Unix milliseconds.
	ExpiryDate int64

	// OwnerID is the internal id of the User who created this product.
	// Immutable after creation.
	OwnerID string
}
