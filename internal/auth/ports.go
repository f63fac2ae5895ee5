package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrMissingFields      = errors.New("email and password required")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("email not verified")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrMailDelivery       = errors.New("verification email could not be sent")
)

// User is a local account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Verified     bool
	CreatedAt    time.Time
}

// PublicUser is the user as shown to clients.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email}
}

// VerificationToken is a single-use email verification secret.
type VerificationToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

type UserRepository interface {
	// Create fails with ErrEmailInUse when the email is taken.
	Create(ctx context.Context, u User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	MarkVerified(ctx context.Context, id string) error
}

type TokenRepository interface {
	Create(ctx context.Context, t VerificationToken) error
	// Consume deletes the token and returns its user. Unknown or expired tokens yield ErrInvalidToken.
	Consume(ctx context.Context, token string, now time.Time) (string, error)
}

// Mailer delivers verification links.
type Mailer interface {
	SendVerification(ctx context.Context, to, verifyURL string) error
}
