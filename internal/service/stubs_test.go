package service

import (
	"context"
	"errors"
	"testing"

	"mingle/internal/models"
	"mingle/internal/repository"

	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn     func(context.Context, *models.Post) error
	getByIDFn    func(context.Context, uint) (*models.Post, error)
	listFn       func(context.Context, repository.PostFilter) ([]*models.Post, error)
	reactFn      func(context.Context, uint, uint, models.ReactionKind, repository.PostCheck) (int, error)
	addCommentFn func(context.Context, uint, *models.Comment, repository.PostCheck) ([]models.Comment, error)
	deleteFn     func(context.Context, uint, repository.PostCheck) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.PostFilter) ([]*models.Post, error) {
	return s.listFn(ctx, filter)
}
func (s *postRepoStub) React(ctx context.Context, postID, userID uint, kind models.ReactionKind, check repository.PostCheck) (int, error) {
	return s.reactFn(ctx, postID, userID, kind, check)
}
func (s *postRepoStub) AddComment(ctx context.Context, postID uint, comment *models.Comment, check repository.PostCheck) ([]models.Comment, error) {
	return s.addCommentFn(ctx, postID, comment, check)
}
func (s *postRepoStub) Delete(ctx context.Context, postID uint, check repository.PostCheck) error {
	return s.deleteFn(ctx, postID, check)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, p *models.Post) error { p.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:    func(_ context.Context, _ repository.PostFilter) ([]*models.Post, error) { return nil, nil },
		reactFn: func(_ context.Context, _, _ uint, _ models.ReactionKind, _ repository.PostCheck) (int, error) {
			return 1, nil
		},
		addCommentFn: func(_ context.Context, _ uint, c *models.Comment, _ repository.PostCheck) ([]models.Comment, error) {
			return []models.Comment{*c}, nil
		},
		deleteFn: func(_ context.Context, _ uint, _ repository.PostCheck) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
	listFn       func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:    func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:     func(_ context.Context, u *models.User) error { u.ID = 1; return nil },
		listFn:       func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

// plainHasher stores passwords with a fixed prefix.
type plainHasher struct{ err error }

func (h plainHasher) Hash(plain string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + plain, nil
}

func (h plainHasher) Compare(plain, digest string) bool {
	return digest == "hashed:"+plain
}

type tokenStub struct {
	issued []uint
	err    error
}

func (s *tokenStub) Issue(userID uint) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.issued = append(s.issued, userID)
	return "token-for-user", nil
}

func (s *tokenStub) Verify(string) (uint, error) {
	return 0, errors.New("not used")
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, code, appErr.Code)
}
