package store

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"shelfit/internal/auth"
)

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	db DB
	q  queries
}

var _ auth.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u auth.User) error {
	ctx, cancel := r.q.withTimeout(ctx)
	defer cancel()

	query, args, err := build(r.q.insert(tableUsers).Rows(goqu.Record{
		"id":            u.ID,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"verified":      u.Verified,
		"created_at":    micros(u.CreatedAt),
	}))
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return auth.ErrEmailInUse
		}
		return err
	}
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	return r.getOne(ctx, goqu.Ex{"email": email})
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (auth.User, error) {
	return r.getOne(ctx, goqu.Ex{"id": id})
}

func (r *UserRepo) MarkVerified(ctx context.Context, id string) error {
	ctx, cancel := r.q.withTimeout(ctx)
	defer cancel()

	query, args, err := build(r.q.update(tableUsers).
		Set(goqu.Record{"verified": true}).
		Where(goqu.Ex{"id": id}))
	if err != nil {
		return err
	}
	n, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, where goqu.Ex) (auth.User, error) {
	ctx, cancel := r.q.withTimeout(ctx)
	defer cancel()

	query, args, err := build(r.q.from(tableUsers).
		Select("id", "email", "password_hash", "verified", "created_at").
		Where(where).
		Limit(1))
	if err != nil {
		return auth.User{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return auth.User{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return auth.User{}, err
		}
		return auth.User{}, auth.ErrUserNotFound
	}
	var (
		u         auth.User
		createdAt int64
	)
	if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Verified, &createdAt); err != nil {
		return auth.User{}, err
	}
	u.CreatedAt = fromMicros(createdAt)
	return u, nil
}
