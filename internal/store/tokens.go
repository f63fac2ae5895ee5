package store

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"

	"shelfit/internal/auth"
)

// TokenRepo implements auth.TokenRepository.
type TokenRepo struct {
	db DB
	q  queries
}

var _ auth.TokenRepository = (*TokenRepo)(nil)

var errTokenExpired = errors.New("verification token expired")

func (r *TokenRepo) Create(ctx context.Context, t auth.VerificationToken) error {
	ctx, cancel := r.q.withTimeout(ctx)
	defer cancel()

	query, args, err := build(r.q.insert(tableTokens).Rows(goqu.Record{
		"token":      t.Token,
		"user_id":    t.UserID,
		"expires_at": micros(t.ExpiresAt),
	}))
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, query, args...)
	return err
}

// Consume deletes the token whether or not it has expired, so a stale link cannot be retried.
func (r *TokenRepo) Consume(ctx context.Context, token string, now time.Time) (string, error) {
	ctx, cancel := r.q.withTimeout(ctx)
	defer cancel()

	sel, selArgs, err := build(r.q.from(tableTokens).
		Select("user_id", "expires_at").
		Where(goqu.Ex{"token": token}).
		Limit(1))
	if err != nil {
		return "", err
	}
	del, delArgs, err := build(r.q.delete(tableTokens).Where(goqu.Ex{"token": token}))
	if err != nil {
		return "", err
	}

	var (
		userID  string
		expired bool
	)
	err = r.db.InTx(ctx, func(tx Executor) error {
		uid, expiresAt, found, err := lookupToken(ctx, tx, sel, selArgs)
		if err != nil {
			return err
		}
		if !found {
			return auth.ErrInvalidToken
		}
		if _, err := tx.Exec(ctx, del, delArgs...); err != nil {
			return err
		}
		userID = uid
		expired = !now.Before(fromMicros(expiresAt))
		return nil
	})
	if err != nil {
		return "", err
	}
	if expired {
		return "", errors.Join(auth.ErrInvalidToken, errTokenExpired)
	}
	return userID, nil
}

// lookupToken closes its rows before returning so the same connection can run the delete.
func lookupToken(ctx context.Context, tx Executor, query string, args []any) (string, int64, bool, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return "", 0, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return "", 0, false, rows.Err()
	}
	var (
		userID    string
		expiresAt int64
	)
	if err := rows.Scan(&userID, &expiresAt); err != nil {
		return "", 0, false, err
	}
	return userID, expiresAt, true, nil
}
