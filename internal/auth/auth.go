// Package auth checks account credentials against bcrypt hashes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/logger"
)

// Seed account created on an empty database.
const (
	SeedEmail    = "teacher@school.edu"
	SeedPassword = "teacher"
	SeedName     = "Demo Teacher"
)

// Authenticator verifies credentials and registers accounts.
type Authenticator struct {
	users domain.UserRepository
	cost  int
	log   *logger.Logger
}

// Option configures the Authenticator.
type Option func(*Authenticator)

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(a *Authenticator) { a.cost = cost }
}

// New creates an authenticator over users.
func New(users domain.UserRepository, log *logger.Logger, opts ...Option) *Authenticator {
	a := &Authenticator{users: users, cost: bcrypt.DefaultCost, log: log}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Verify returns the account for email when password matches. Unknown
// emails and wrong passwords both yield domain.ErrInvalidCredentials.
func (a *Authenticator) Verify(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := a.users.FindUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrNotFound) {
		a.log.Debug("login for unknown account %q", email)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("looking up account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		a.log.Debug("wrong password for %q", email)
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

// Register creates an account with a hashed password.
func (a *Authenticator) Register(ctx context.Context, email, password, name string, role domain.Role) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, &domain.ValidationError{Fields: missing(email, password)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := a.users.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	a.log.Info("registered %s account %s", role, email)
	return u, nil
}

// EnsureSeedAccount creates the demo teacher unless it already exists.
func (a *Authenticator) EnsureSeedAccount(ctx context.Context) error {
	_, err := a.Register(ctx, SeedEmail, SeedPassword, SeedName, domain.RoleTeacher)
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil
	}
	return err
}

func missing(email, password string) []string {
	var out []string
	if email == "" {
		out = append(out, "email")
	}
	if password == "" {
		out = append(out, "password")
	}
	return out
}
