package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"shelfit/internal/logging"
	"shelfit/internal/platform/crypto"
)

type Config struct {
	JWTSecret       string
	SessionTTL      time.Duration
	VerifyTokenTTL  time.Duration
	FrontendBaseURL string
}

type Service struct {
	users  UserRepository
	tokens TokenRepository
	mailer Mailer
	log    logging.Logger
	cfg    Config
	now    func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMailer enables email delivery. Without a mailer the link is logged and returned to the caller.
func WithMailer(m Mailer) Option {
	return func(s *Service) { s.mailer = m }
}

func NewService(users UserRepository, tokens TokenRepository, log logging.Logger, cfg Config, opts ...Option) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}
	if cfg.VerifyTokenTTL <= 0 {
		cfg.VerifyTokenTTL = 24 * time.Hour
	}
	s := &Service{
		users:  users,
		tokens: tokens,
		log:    log,
		cfg:    cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type SignupResult struct {
	User PublicUser
	// VerifyURLDev is set only when no mailer is configured.
	VerifyURLDev string
}

type LoginResult struct {
	Token string
	User  PublicUser
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Signup(ctx context.Context, email, password string) (SignupResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return SignupResult{}, ErrMissingFields
	}
	if err := crypto.ValidatePasswordStrength(password); err != nil {
		return SignupResult{}, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return SignupResult{}, ErrEmailInUse
	} else if !errors.Is(err, ErrUserNotFound) {
		return SignupResult{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return SignupResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	u := User{
		ID:           "u_" + uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return SignupResult{}, fmt.Errorf("create user: %w", err)
	}

	secret, err := crypto.RandomHex(24)
	if err != nil {
		return SignupResult{}, fmt.Errorf("generate token: %w", err)
	}
	tok := VerificationToken{
		Token:     "v_" + secret,
		UserID:    u.ID,
		ExpiresAt: now.Add(s.cfg.VerifyTokenTTL),
	}
	if err := s.tokens.Create(ctx, tok); err != nil {
		return SignupResult{}, fmt.Errorf("create verification token: %w", err)
	}

	verifyURL := s.verifyURL(tok.Token)
	res := SignupResult{User: u.Public()}
	if s.mailer == nil {
		s.log.Info(ctx, "verification link (dev only)", "email", email, "url", verifyURL)
		res.VerifyURLDev = verifyURL
		return res, nil
	}
	if err := s.mailer.SendVerification(ctx, email, verifyURL); err != nil {
		return SignupResult{}, fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}
	return res, nil
}

func (s *Service) verifyURL(token string) string {
	base := strings.TrimRight(s.cfg.FrontendBaseURL, "/")
	return base + "/verify?token=" + url.QueryEscape(token)
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrMissingFields
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("lookup user: %w", err)
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !u.Verified {
		return LoginResult{}, ErrNotVerified
	}

	token, _, err := crypto.GenerateToken(s.cfg.JWTSecret, u.ID, u.Email, s.cfg.SessionTTL)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign token: %w", err)
	}
	return LoginResult{Token: token, User: u.Public()}, nil
}

// Verify consumes the token and marks its user verified.
func (s *Service) Verify(ctx context.Context, token string) (PublicUser, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return PublicUser{}, ErrInvalidToken
	}

	userID, err := s.tokens.Consume(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return PublicUser{}, ErrInvalidToken
		}
		return PublicUser{}, fmt.Errorf("consume token: %w", err)
	}
	if err := s.users.MarkVerified(ctx, userID); err != nil {
		return PublicUser{}, fmt.Errorf("mark verified: %w", err)
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return PublicUser{}, fmt.Errorf("get user: %w", err)
	}
	return u.Public(), nil
}
