package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mingle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	t.Run("stores normalized user with hashed password", func(t *testing.T) {
		t.Parallel()
		var stored *models.User
		users := noopUserRepo()
		users.createFn = func(_ context.Context, u *models.User) error {
			u.ID = 7
			stored = u
			return nil
		}
		svc := NewAuthService(users, plainHasher{}, &tokenStub{})

		user, err := svc.Register(context.Background(), RegisterInput{
			Name:     "  Alice  ",
			Email:    " Alice@Example.COM ",
			Password: "secret1",
		})
		require.NoError(t, err)
		assert.Equal(t, uint(7), user.ID)
		require.NotNil(t, stored)
		assert.Equal(t, "Alice", stored.Name)
		assert.Equal(t, "alice@example.com", stored.Email)
		assert.Equal(t, "hashed:secret1", stored.Password)
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		svc := NewAuthService(noopUserRepo(), plainHasher{}, &tokenStub{})
		cases := []RegisterInput{
			{Name: "Al", Email: "al@example.com", Password: "secret1"},
			{Name: "Alice", Email: "not-an-email", Password: "secret1"},
			{Name: "Alice", Email: "alice@example.com", Password: "short"},
			{Name: "Alice", Email: "alice@example.com", Password: strings.Repeat("p", 73)},
		}
		for _, in := range cases {
			_, err := svc.Register(context.Background(), in)
			assertAppErrorCode(t, err, models.CodeValidation)
		}
	})

	t.Run("existing email is a conflict", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: 1, Email: email}, nil
		}
		users.createFn = func(context.Context, *models.User) error {
			t.Fatal("create must not be called")
			return nil
		}
		svc := NewAuthService(users, plainHasher{}, &tokenStub{})

		_, err := svc.Register(context.Background(), RegisterInput{Name: "Alice", Email: "ALICE@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, models.ErrDuplicateEmail)
		assert.Equal(t, 400, err.(*models.AppError).Status())
	})

	t.Run("racing insert surfaces store conflict", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.createFn = func(context.Context, *models.User) error {
			return models.NewConflictError("User already exists", models.ErrDuplicateEmail)
		}
		svc := NewAuthService(users, plainHasher{}, &tokenStub{})

		_, err := svc.Register(context.Background(), RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, models.ErrDuplicateEmail)
	})

	t.Run("hash failure is internal", func(t *testing.T) {
		t.Parallel()
		svc := NewAuthService(noopUserRepo(), plainHasher{err: errors.New("boom")}, &tokenStub{})

		_, err := svc.Register(context.Background(), RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
		assertAppErrorCode(t, err, models.CodeInternal)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	registered := &models.User{ID: 3, Name: "Bob", Email: "bob@example.com", Password: "hashed:secret1"}
	users := noopUserRepo()
	users.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		if email == registered.Email {
			return registered, nil
		}
		return nil, nil
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		tokens := &tokenStub{}
		svc := NewAuthService(users, plainHasher{}, tokens)

		token, user, err := svc.Login(context.Background(), "BOB@example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "token-for-user", token)
		assert.Equal(t, registered.ID, user.ID)
		assert.Equal(t, []uint{3}, tokens.issued)
	})

	failures := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", "secret1"},
		{"wrong password", "bob@example.com", "wrong-password"},
		{"empty email", "", "secret1"},
		{"empty password", "bob@example.com", ""},
	}
	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := NewAuthService(users, plainHasher{}, &tokenStub{})

			_, _, err := svc.Login(context.Background(), tc.email, tc.password)
			assertAppErrorCode(t, err, models.CodeValidation)
			assert.Equal(t, invalidCredentials, err.(*models.AppError).Message)
		})
	}

	t.Run("store failure propagates", func(t *testing.T) {
		t.Parallel()
		broken := noopUserRepo()
		broken.getByEmailFn = func(context.Context, string) (*models.User, error) {
			return nil, models.NewInternalError(errors.New("db down"))
		}
		svc := NewAuthService(broken, plainHasher{}, &tokenStub{})

		_, _, err := svc.Login(context.Background(), "bob@example.com", "secret1")
		assertAppErrorCode(t, err, models.CodeInternal)
	})
}

func TestAuthService_MeAndList(t *testing.T) {
	t.Parallel()

	users := noopUserRepo()
	users.listFn = func(_ context.Context, limit, offset int) ([]models.User, error) {
		assert.Equal(t, 10, limit)
		assert.Equal(t, 5, offset)
		return []models.User{{ID: 1}, {ID: 2}}, nil
	}
	svc := NewAuthService(users, plainHasher{}, &tokenStub{})

	me, err := svc.Me(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, uint(4), me.ID)

	list, err := svc.ListUsers(context.Background(), 10, 5)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
