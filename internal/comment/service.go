package comment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	books BookChecker
	now   func() time.Time
	newID func() string
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

func NewService(repo Repository, books BookChecker, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		books: books,
		now:   time.Now,
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) requireBook(ctx context.Context, owner, bookID string) error {
	ok, err := s.books.Exists(ctx, owner, bookID)
	if err != nil {
		return fmt.Errorf("check book: %w", err)
	}
	if !ok {
		return ErrBookNotFound
	}
	return nil
}

// Add attaches a comment to the owner's book.
func (s *Service) Add(ctx context.Context, owner, bookID, text string) (Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Comment{}, ErrEmptyText
	}
	if err := s.requireBook(ctx, owner, bookID); err != nil {
		return Comment{}, err
	}

	c := Comment{
		ID:        s.newID(),
		BookID:    bookID,
		Owner:     owner,
		Text:      text,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Comment{}, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

// List returns the book's comments, most recent first.
func (s *Service) List(ctx context.Context, owner, bookID string) ([]Comment, error) {
	if err := s.requireBook(ctx, owner, bookID); err != nil {
		return nil, err
	}
	comments, err := s.repo.ListByBook(ctx, owner, bookID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if comments == nil {
		comments = []Comment{}
	}
	return comments, nil
}

// Delete removes one comment from the owner's book.
func (s *Service) Delete(ctx context.Context, owner, bookID, id string) error {
	if err := s.requireBook(ctx, owner, bookID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, owner, bookID, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
