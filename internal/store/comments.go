package store

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"shelfit/internal/comment"
)

// CommentRepo implements comment.Repository.
type CommentRepo struct {
	db DB
	q  queries
}

var _ comment.Repository = (*CommentRepo)(nil)

func (r *CommentRepo) Create(ctx context.Context, c comment.Comment) error {
	ctx, cancel := r.q.withTimeout(ctx)
	defer cancel()

	query, args, err := build(r.q.insert(tableComments).Rows(goqu.Record{
		"id":         c.ID,
		"owner_id":   c.Owner,
		"book_id":    c.BookID,
		"text":       c.Text,
		"created_at": micros(c.CreatedAt),
	}))
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, query, args...)
	return err
}

func (r *CommentRepo) ListByBook(ctx context.Context, owner, bookID string) ([]comment.Comment, error) {
	ctx, cancel := r.q.withTimeout(ctx)
	defer cancel()

	query, args, err := build(r.q.from(tableComments).
		Select("id", "owner_id", "book_id", "text", "created_at").
		Where(goqu.Ex{"owner_id": owner, "book_id": bookID}).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()))
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []comment.Comment
	for rows.Next() {
		var (
			c         comment.Comment
			createdAt int64
		)
		if err := rows.Scan(&c.ID, &c.Owner, &c.BookID, &c.Text, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt = fromMicros(createdAt)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *CommentRepo) Delete(ctx context.Context, owner, bookID, id string) error {
	ctx, cancel := r.q.withTimeout(ctx)
	defer cancel()

	query, args, err := build(r.q.delete(tableComments).
		Where(goqu.Ex{"owner_id": owner, "book_id": bookID, "id": id}))
	if err != nil {
		return err
	}
	n, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return comment.ErrNotFound
	}
	return nil
}
