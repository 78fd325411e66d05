package models

import "time"

// User represents a registered account.
type User struct {
	// ID is the opaque internal identifier (UUID format), used as the
	// storage key and as the owner reference on Products.
	ID string

	// SequenceID is the small integer id issued by the sequence allocator
	// at signup. This is the id exposed through the API.
	SequenceID int64

	// Email is the user's login email. Unique across all users.
	Email string

	// PasswordHash is the bcrypt digest of the user's password.
	// Never serialized out of the service layer.
	PasswordHash string

	// FamilySize is the number of people the pantry feeds. Used by the
	// frontend for serving suggestions.
	FamilySize int

	// Admin marks administrative accounts. No admin override exists for
	// pantry access; the flag is informational.
	Admin bool

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser builds a User with a fresh creation timestamp. The internal ID is
// assigned by the store on insert; the sequence id must already be allocated.
func NewUser(seqID int64, email, passwordHash string, familySize int) *User {
	return &User{
		SequenceID:   seqID,
		Email:        email,
		PasswordHash: passwordHash,
		FamilySize:   familySize,
		CreatedAt:    time.Now().Unix(),
	}
}

// PantryItem is one entry in a user's pantry: a back-reference to a Product
// the user owns, plus a quantity. The Product row is the source of truth;
// a PantryItem whose product no longer resolves is a dangling reference that
// reconciliation removes.
type PantryItem struct {
	// ProductID is the internal id of the referenced Product.
	ProductID string

	// Quantity is how many units of the product the pantry holds.
	Quantity int
}
