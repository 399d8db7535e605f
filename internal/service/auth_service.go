// Package service implements the business operations behind the HTTP handlers.
package service

import (
	"context"
	"strings"

	"mingle/internal/auth"
	"mingle/internal/models"
	"mingle/internal/observability"
	"mingle/internal/repository"
	"mingle/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

const invalidCredentials = "Invalid email or password"

type AuthService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	tokens auth.TokenService
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, tokens auth.TokenService) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register validates the input, stores a new user with a hashed password and
// returns it. Emails are compared lower-cased.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (user *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "auth_service", "register")
	defer func() {
		span.End(err)
		observability.LogServiceCall(ctx, "auth", "register", err)
	}()

	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)

	if err := validation.ValidateName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("User already exists", models.ErrDuplicateEmail)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user = &models.User{
		Name:     name,
		Email:    email,
		Password: digest,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	span.AddAttributes(attribute.Int("user.id", int(user.ID)))
	return user, nil
}

// Login returns a token for valid credentials. Unknown email and wrong
// password produce the same validation error.
func (s *AuthService) Login(ctx context.Context, email, password string) (token string, user *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "auth_service", "login")
	defer func() {
		span.End(err)
		observability.LogServiceCall(ctx, "auth", "login", err)
	}()

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, models.NewValidationError(invalidCredentials)
	}

	user, err = s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil || !s.hasher.Compare(password, user.Password) {
		return "", nil, models.NewValidationError(invalidCredentials)
	}

	token, err = s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	return token, user, nil
}

// Me returns the caller's own account.
func (s *AuthService) Me(ctx context.Context, userID uint) (user *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "auth_service", "me",
		attribute.Int("user.id", int(userID)),
	)
	defer func() {
		span.End(err)
		observability.LogServiceCall(ctx, "auth", "me", err)
	}()

	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) (users []models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "auth_service", "list_users",
		attribute.Int("page.limit", limit),
		attribute.Int("page.offset", offset),
	)
	defer func() {
		span.End(err)
		observability.LogServiceCall(ctx, "auth", "list_users", err)
	}()

	users, err = s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	span.AddAttributes(attribute.Int("result.count", len(users)))
	return users, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
