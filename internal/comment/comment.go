package comment

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no comment matches under the book and owner.
	ErrNotFound = errors.New("comment not found")
	// ErrBookNotFound is returned when the parent book does not exist for the owner.
	ErrBookNotFound = errors.New("book not found")
	// ErrEmptyText is returned for blank comment text.
	ErrEmptyText = errors.New("comment text required")
)

// Comment is a free-text note attached to a book on an owner's shelf.
type Comment struct {
	ID        string    `json:"id"`
	BookID    string    `json:"bookId"`
	Owner     string    `json:"owner"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository defines comment storage. Every call is scoped to an owner and book.
type Repository interface {
	Create(ctx context.Context, c Comment) error
	ListByBook(ctx context.Context, owner, bookID string) ([]Comment, error)
	Delete(ctx context.Context, owner, bookID, id string) error
}

// BookChecker reports whether the owner has the book. It returns false, nil when absent.
type BookChecker interface {
	Exists(ctx context.Context, owner, bookID string) (bool, error)
}
