// Package identity resolves the acting owner of a request.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"shelfit/internal/platform/crypto"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Identity is the caller as seen by the shelf services.
type Identity struct {
	Subject string
	Email   string
}

// Resolver derives the caller's identity from a request.
type Resolver interface {
	Resolve(ctx context.Context, r *http.Request) (Identity, error)
}

// Fixed resolves every request to the same identity. Used in single-tenant demo mode.
type Fixed struct {
	Subject string
}

func (f Fixed) Resolve(context.Context, *http.Request) (Identity, error) {
	return Identity{Subject: f.Subject}, nil
}

// BearerJWT verifies an HS256 bearer token. It serves both tokens issued by the local
// credential service and tokens issued by an external identity provider sharing a secret.
type BearerJWT struct {
	Secret   string
	Audience string
}

func (b BearerJWT) Resolve(_ context.Context, r *http.Request) (Identity, error) {
	token, ok := bearerToken(r)
	if !ok {
		return Identity{}, ErrMissingToken
	}

	var opts []jwt.ParserOption
	if b.Audience != "" {
		opts = append(opts, jwt.WithAudience(b.Audience))
	}
	claims, err := crypto.ParseToken(b.Secret, token, opts...)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return Identity{Subject: claims.Subject, Email: claims.Email}, nil
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(h[len(prefix):])
	return token, token != ""
}

// Mode selects a Resolver strategy.
type Mode string

const (
	ModeDemo     Mode = "demo"
	ModeLocal    Mode = "local"
	ModeExternal Mode = "external"
)

type Config struct {
	Mode             Mode
	DemoOwner        string
	LocalSecret      string
	ExternalSecret   string
	ExternalAudience string
}

// NewResolver returns the strategy configured by cfg.
func NewResolver(cfg Config) (Resolver, error) {
	switch cfg.Mode {
	case ModeDemo, "":
		owner := cfg.DemoOwner
		if owner == "" {
			owner = "demo-user"
		}
		return Fixed{Subject: owner}, nil
	case ModeLocal:
		if cfg.LocalSecret == "" {
			return nil, errors.New("identity: local mode requires a JWT secret")
		}
		return BearerJWT{Secret: cfg.LocalSecret}, nil
	case ModeExternal:
		if cfg.ExternalSecret == "" {
			return nil, errors.New("identity: external mode requires a JWT secret")
		}
		return BearerJWT{Secret: cfg.ExternalSecret, Audience: cfg.ExternalAudience}, nil
	default:
		return nil, fmt.Errorf("identity: unknown mode %q", cfg.Mode)
	}
}
