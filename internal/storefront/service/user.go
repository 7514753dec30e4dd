package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/marketloft/storefront/internal/storefront/domain"
	"github.com/marketloft/storefront/internal/storefront/store"
	"github.com/marketloft/storefront/pkg/cryptox"
	"github.com/marketloft/storefront/pkg/idx"
	"github.com/marketloft/storefront/pkg/slogx"

	"github.com/pquerna/otp/totp"
)

const minPasswordLength = 8

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrWeakPassword       = errors.New("weak_password")
	ErrInvalidOTP         = errors.New("invalid_otp")
)

// AdminConfig is the env-configured admin account. The admin is not a
// stored user; it exists only as configuration. TOTPSecret is optional
// and, when set, requires a valid code on every admin login.
type AdminConfig struct {
	Email      string
	Password   string
	TOTPSecret string
}

// UserService handles registration and both login flows.
type UserService struct {
	Store    store.Store
	Sessions *SessionService
	Admin    AdminConfig
}

// Register validates and creates an account, then opens a session.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*domain.User, *domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, nil, ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Cart:         map[string]int{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, err
	}

	pair, err := s.Sessions.CreateSession(user)
	if err != nil {
		return nil, nil, err
	}

	l.Info("user registered", slog.String("user_id", user.ID))
	return &user, pair, nil
}

// Login checks the credentials and opens a session. Lookup and
// password failures collapse into one error so the response does not
// leak which emails exist.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if cryptox.VerifyPassword(password, user.PasswordHash) != nil {
		l.Info("login failed", slog.String("user_id", user.ID))
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.Sessions.CreateSession(user)
	if err != nil {
		return nil, nil, err
	}
	return &user, pair, nil
}

// AdminLogin authenticates the env-configured admin account. When a
// TOTP secret is configured the code is mandatory.
func (s *UserService) AdminLogin(ctx context.Context, email, password, otp string) (*domain.User, *domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	if s.Admin.Email == "" || s.Admin.Password == "" {
		return nil, nil, ErrInvalidCredentials
	}

	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(strings.TrimSpace(email))), []byte(s.Admin.Email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.Admin.Password)) == 1
	if !emailOK || !passOK {
		l.Info("admin login failed")
		return nil, nil, ErrInvalidCredentials
	}

	if s.Admin.TOTPSecret != "" {
		if otp == "" || !totp.Validate(otp, s.Admin.TOTPSecret) {
			l.Info("admin login rejected: bad otp")
			return nil, nil, ErrInvalidOTP
		}
	}

	admin := domain.User{
		ID:      "admin",
		Name:    "Administrator",
		Email:   s.Admin.Email,
		IsAdmin: true,
	}
	pair, err := s.Sessions.CreateSession(admin)
	if err != nil {
		return nil, nil, err
	}
	return &admin, pair, nil
}
