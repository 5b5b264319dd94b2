// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Every service method is a pipeline: pure validation first (fails fast,
// no I/O), then the store calls. That ordering keeps the rules testable
// with an in-memory fake — no live database needed to cover every
// validation branch.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/specia/specia-server/internal/apperror"
	"github.com/specia/specia-server/internal/auth"
	"github.com/specia/specia-server/internal/model"
	"github.com/specia/specia-server/internal/repository"
)

// MinPasswordLength is the registration floor. Nothing fancier is enforced;
// bcrypt's slowness carries the rest.
const MinPasswordLength = 8

// emailPattern is deliberately loose — something@something.something. Real
// validation is the verification mail the business sends manually.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// AuthMetrics is the slice of the metrics collector this service reports
// to. An interface (rather than the concrete Collector) keeps the service
// testable with a no-op fake.
type AuthMetrics interface {
	RecordLogin(outcome string)
	RecordSignup()
}

// AuthService handles registration, login, and the identity lookups behind
// the authenticated routes.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	metrics   AuthMetrics
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// metrics may be nil; counters are then skipped.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	metrics AuthMetrics,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		metrics:   metrics,
		logger:    logger,
	}
}

// AuthResult bundles the user record and the issued JWT so the handler can
// respond in one step. Register returns one too — signing up logs you in.
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Register creates a new account with a hashed password and issues a token.
//
// Validation (in order): name, email, and password are required; the email
// must look like an email; the password must be at least 8 characters. A
// case-insensitive duplicate email fails with ErrConflict — the repository
// enforces it at the schema level, so the check here is not racy.
//
// The plaintext password never touches the user struct: it goes straight
// into bcrypt and only the hash is stored.
func (s *AuthService) Register(ctx context.Context, name, email, password, phone string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, apperror.ValidationFailed("name", "name, email, and password are required")
	}
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", "name, email, and password are required")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperror.ValidationFailed("email", "invalid email address")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password", "password must be at least 8 characters")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(phone),
		PasswordHash: hash,
		Role:         model.RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)
	if s.metrics != nil {
		s.metrics.RecordSignup()
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues a token.
//
// The "invalid email or password" message is deliberately identical for an
// unknown email and a wrong password — the response must not reveal which
// accounts exist. The one exception is a social-only account (no password
// hash at all): telling that user to use social login is a usability
// requirement, and the account's existence is already known to its owner.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", "email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.recordLogin("failure")
			return nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, fmt.Errorf("service/auth: looking up user by email: %w", err)
	}

	if user.PasswordHash == "" {
		s.recordLogin("failure")
		return nil, apperror.Unauthorized("this account uses social login, please sign in with your social provider")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.recordLogin("failure")
		return nil, apperror.Unauthorized("invalid email or password")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	s.recordLogin("success")

	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) recordLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordLogin(outcome)
	}
}

// CheckEmail reports whether an email address is still available for
// registration. A pure read — no reservation is made.
func (s *AuthService) CheckEmail(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, apperror.ValidationFailed("email", "email is required")
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("service/auth: checking email availability: %w", err)
	}
	return false, nil
}

// GetUserByID returns the user for the given internal ID. Used by the
// /auth/me handler after the middleware validates the JWT.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}
