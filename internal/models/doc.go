// Package models defines the core domain records for the food storage manager.
//
// # Records
//
//   - User: a registered account owning a private pantry
//   - Product: a perishable item, always owned by exactly one User
//   - PantryItem: denormalized back-reference from a User to an owned Product
//   - Counter: the durable row behind a named id sequence
//
// # Design principles
//
//  1. Products carry the authoritative ownership reference (OwnerID); the
//     pantry is a secondary index maintained by the service layer and repaired
//     by reconciliation when the two disagree.
//  2. Every record has an opaque internal id (UUID) used as the storage key and
//     a small sequential id (int64) issued by the sequence allocator, which is
//     what the API exposes.
//  3. Relationships use id strings, never pointers, to avoid circular
//     references between User and Product.
package models
