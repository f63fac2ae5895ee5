package store

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"shelfit/internal/book"
)

var bookColumns = []any{
	"id", "owner_id", "title", "authors", "publisher", "published_date",
	"description", "thumbnail", "info_link", "status", "raw", "created_at",
}

// BookRepo implements book.Repository.
type BookRepo struct {
	db DB
	q  queries
}

var _ book.Repository = (*BookRepo)(nil)

func bookRecord(b book.Book) goqu.Record {
	return goqu.Record{
		"owner_id":       b.Owner,
		"id":             b.ID,
		"title":          b.Title,
		"authors":        b.Authors,
		"publisher":      b.Publisher,
		"published_date": b.PublishedDate,
		"description":    b.Description,
		"thumbnail":      b.Thumbnail,
		"info_link":      b.InfoLink,
		"status":         string(b.Status),
		"raw":            b.Raw,
		"created_at":     micros(b.CreatedAt),
	}
}

func (r *BookRepo) Upsert(ctx context.Context, b book.Book, keepStatus bool) error {
	ctx, cancel := r.q.withTimeout(ctx)
	defer cancel()

	set := goqu.Record{
		"title":          excluded("title"),
		"authors":        excluded("authors"),
		"publisher":      excluded("publisher"),
		"published_date": excluded("published_date"),
		"description":    excluded("description"),
		"thumbnail":      excluded("thumbnail"),
		"info_link":      excluded("info_link"),
		"raw":            excluded("raw"),
	}
	if !keepStatus {
		set["status"] = excluded("status")
	}
	query, args, err := build(r.q.insert(tableBooks).
		Rows(bookRecord(b)).
		OnConflict(goqu.DoUpdate("owner_id, id", set)))
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, query, args...)
	return err
}

func (r *BookRepo) Insert(ctx context.Context, b book.Book) error {
	ctx, cancel := r.q.withTimeout(ctx)
	defer cancel()

	query, args, err := build(r.q.insert(tableBooks).
		Rows(bookRecord(b)).
		OnConflict(goqu.DoNothing()))
	if err != nil {
		return err
	}
	n, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return book.ErrAlreadyExists
	}
	return nil
}

func (r *BookRepo) List(ctx context.Context, owner string) ([]book.Book, error) {
	ctx, cancel := r.q.withTimeout(ctx)
	defer cancel()

	query, args, err := build(r.q.from(tableBooks).
		Select(bookColumns...).
		Where(goqu.Ex{"owner_id": owner}).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()))
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []book.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *BookRepo) Get(ctx context.Context, owner, id string) (book.Book, error) {
	ctx, cancel := r.q.withTimeout(ctx)
	defer cancel()

	query, args, err := build(r.q.from(tableBooks).
		Select(bookColumns...).
		Where(goqu.Ex{"owner_id": owner, "id": id}).
		Limit(1))
	if err != nil {
		return book.Book{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return book.Book{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return book.Book{}, err
		}
		return book.Book{}, book.ErrNotFound
	}
	return scanBook(rows)
}

// Exists reports whether the owner has a book with id.
func (r *BookRepo) Exists(ctx context.Context, owner, id string) (bool, error) {
	_, err := r.Get(ctx, owner, id)
	if errors.Is(err, book.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *BookRepo) UpdateStatus(ctx context.Context, owner, id string, status book.Status) error {
	ctx, cancel := r.q.withTimeout(ctx)
	defer cancel()

	query, args, err := build(r.q.update(tableBooks).
		Set(goqu.Record{"status": string(status)}).
		Where(goqu.Ex{"owner_id": owner, "id": id}))
	if err != nil {
		return err
	}
	n, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return book.ErrNotFound
	}
	return nil
}

func (r *BookRepo) Delete(ctx context.Context, owner, id string) error {
	ctx, cancel := r.q.withTimeout(ctx)
	defer cancel()

	delComments, commentArgs, err := build(r.q.delete(tableComments).
		Where(goqu.Ex{"owner_id": owner, "book_id": id}))
	if err != nil {
		return err
	}
	delBook, bookArgs, err := build(r.q.delete(tableBooks).
		Where(goqu.Ex{"owner_id": owner, "id": id}))
	if err != nil {
		return err
	}

	return r.db.InTx(ctx, func(tx Executor) error {
		if _, err := tx.Exec(ctx, delComments, commentArgs...); err != nil {
			return err
		}
		n, err := tx.Exec(ctx, delBook, bookArgs...)
		if err != nil {
			return err
		}
		if n == 0 {
			return book.ErrNotFound
		}
		return nil
	})
}

func scanBook(rows Rows) (book.Book, error) {
	var (
		b         book.Book
		status    string
		createdAt int64
	)
	if err := rows.Scan(
		&b.ID,
		&b.Owner,
		&b.Title,
		&b.Authors,
		&b.Publisher,
		&b.PublishedDate,
		&b.Description,
		&b.Thumbnail,
		&b.InfoLink,
		&status,
		&b.Raw,
		&createdAt,
	); err != nil {
		return book.Book{}, err
	}
	b.Status = book.Status(status)
	b.CreatedAt = fromMicros(createdAt)
	return b, nil
}
