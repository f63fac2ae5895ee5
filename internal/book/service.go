package book

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service provides shelf business logic. Every operation takes the acting owner explicitly.
type Service struct {
	repo       Repository
	now        func() time.Time
	newID      func() string
	keepStatus bool
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides how ids for manual books are generated.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// WithKeepStatusOnResave keeps the reading status when a book is saved from search again.
func WithKeepStatusOnResave(keep bool) Option {
	return func(s *Service) { s.keepStatus = keep }
}

// NewService creates a new book service.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		now:   time.Now,
		newID: func() string { return "manual-" + newID() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newID returns a time-ordered UUID so rows sharing a createdAt still sort by insertion.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// UpsertFromSource saves a search result to the owner's shelf and returns the stored row.
func (s *Service) UpsertFromSource(ctx context.Context, owner string, v Volume, raw []byte) (Book, error) {
	if owner == "" {
		return Book{}, invalid("owner required")
	}
	if strings.TrimSpace(v.ID) == "" {
		return Book{}, invalid("volume id required")
	}

	b := v.ToBook(owner, raw)
	b.CreatedAt = s.timestamp()
	if err := s.repo.Upsert(ctx, b, s.keepStatus); err != nil {
		return Book{}, fmt.Errorf("upsert book: %w", err)
	}
	return s.Get(ctx, owner, b.ID)
}

// CreateManual adds a user-entered book. A supplied id that already exists fails with ErrAlreadyExists.
func (s *Service) CreateManual(ctx context.Context, owner string, in ManualInput) (Book, error) {
	if owner == "" {
		return Book{}, invalid("owner required")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Book{}, invalid("title required")
	}

	status := StatusToRead
	if strings.TrimSpace(in.Status) != "" {
		st, err := ParseStatus(in.Status)
		if err != nil {
			return Book{}, err
		}
		status = st
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = s.newID()
	}
	raw := in.Raw
	if raw == "" {
		raw = manualRaw
	}

	b := Book{
		ID:            id,
		Owner:         owner,
		Title:         title,
		Authors:       in.Authors,
		Publisher:     in.Publisher,
		PublishedDate: in.PublishedDate,
		Description:   in.Description,
		Thumbnail:     in.Thumbnail,
		InfoLink:      in.InfoLink,
		Status:        status,
		Raw:           raw,
		CreatedAt:     s.timestamp(),
	}
	if err := s.repo.Insert(ctx, b); err != nil {
		return Book{}, fmt.Errorf("insert book: %w", err)
	}
	return b, nil
}

// List returns the owner's books, most recently created first.
func (s *Service) List(ctx context.Context, owner string) ([]Book, error) {
	books, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// Get returns a single book. Books of other owners are reported as ErrNotFound.
func (s *Service) Get(ctx context.Context, owner, id string) (Book, error) {
	b, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return Book{}, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

// PatchStatus sets the reading status. An empty status leaves the row unchanged.
// A missing book is reported before an invalid status.
func (s *Service) PatchStatus(ctx context.Context, owner, id, status string) (Book, error) {
	b, err := s.Get(ctx, owner, id)
	if err != nil {
		return Book{}, err
	}
	if strings.TrimSpace(status) == "" {
		return b, nil
	}
	st, err := ParseStatus(status)
	if err != nil {
		return Book{}, err
	}
	if err := s.repo.UpdateStatus(ctx, owner, id, st); err != nil {
		return Book{}, fmt.Errorf("update status: %w", err)
	}
	b.Status = st
	return b, nil
}

// Delete removes a book together with its comments.
func (s *Service) Delete(ctx context.Context, owner, id string) error {
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}
