// Package service holds the business logic of the API: logging users in,
// authorizing bearer tokens and mutating car listings. Persistence is
// delegated to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/carlot/internal/models"
	"github.com/atinyakov/carlot/internal/repository"
	"github.com/atinyakov/carlot/internal/token"
)

var (
	// ErrInvalidCredentials is returned by Login for an unknown email, a wrong
	// password or a disabled account. Callers cannot tell which.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken is returned by Authorize when the token is rejected or
	// names a user that no longer exists.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInactiveUser is returned by Authorize for a valid token whose user
	// has been disabled.
	ErrInactiveUser = errors.New("inactive user")
)

// UserRepository looks up accounts by login email.
type UserRepository interface {
	// FindByEmail returns repository.ErrNotFound when no user has this email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenIssuer signs and checks session tokens.
type TokenIssuer interface {
	Issue(email string, userID int64) (string, error)
	Verify(tok string) (*token.Claims, error)
}

// AuthService verifies passwords and tokens.
type AuthService struct {
	users  UserRepository
	tokens TokenIssuer
}

// NewAuthService constructs an AuthService.
func NewAuthService(users UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login checks email and password and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	if !CheckPassword(u.PasswordHash, password) || !u.IsActive {
		return "", ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(u.Email, u.ID)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return tok, nil
}

// Authorize resolves a bearer token to an active user. The user is read
// from the store on every call, so disabling an account takes effect
// immediately even for tokens that have not expired.
func (s *AuthService) Authorize(ctx context.Context, tok string) (*models.User, error) {
	claims, err := s.tokens.Verify(tok)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	u, err := s.users.FindByEmail(ctx, claims.Email())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("authorize: %w", err)
	}

	if !u.IsActive {
		return nil, ErrInactiveUser
	}
	return u, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// CheckPassword reports whether password matches the bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
