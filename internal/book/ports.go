package book

import (
	"context"
)

// Repository defines the contract for shelf storage. Every call is scoped to an owner.
type Repository interface {
	// Upsert inserts b or overwrites the owner's row with the same id. created_at is never
	// overwritten; status is kept when keepStatus is set.
	Upsert(ctx context.Context, b Book, keepStatus bool) error
	// Insert fails with ErrAlreadyExists when the owner already has a row with b.ID.
	Insert(ctx context.Context, b Book) error
	List(ctx context.Context, owner string) ([]Book, error)
	Get(ctx context.Context, owner, id string) (Book, error)
	UpdateStatus(ctx context.Context, owner, id string, status Status) error
	// Delete removes the book and its comments.
	Delete(ctx context.Context, owner, id string) error
}
