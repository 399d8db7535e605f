package policy

import (
	"errors"
	"testing"
	"time"

	"mingle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newPost(authorID uint, expiresAt time.Time) *models.Post {
	return &models.Post{ID: 1, AuthorID: authorID, CreatedAt: baseTime, ExpiresAt: expiresAt}
}

func requireAppError(t *testing.T, err error, code string, sentinel error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
	assert.ErrorIs(t, err, sentinel)
}

func TestStatus(t *testing.T) {
	t.Parallel()
	post := newPost(1, baseTime)

	tests := []struct {
		name string
		now  time.Time
		want models.PostStatus
	}{
		{"Before Expiry", baseTime.Add(-time.Second), models.StatusLive},
		{"Exactly At Expiry", baseTime, models.StatusLive},
		{"One Nanosecond After", baseTime.Add(time.Nanosecond), models.StatusExpired},
		{"Long After", baseTime.Add(48 * time.Hour), models.StatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(post, tt.now))
			assert.Equal(t, tt.want == models.StatusLive, CanInteract(post, tt.now))
		})
	}
}

func TestTimeLeft(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		remaining time.Duration
		want      string
	}{
		{"Days And Hours", 2*24*time.Hour + 5*time.Hour + 30*time.Minute, "2d 5h"},
		{"Exactly One Day", 24 * time.Hour, "1d 0h"},
		{"Hours And Minutes", 3*time.Hour + 15*time.Minute + 20*time.Second, "3h 15m"},
		{"Minutes Only", 42*time.Minute + 59*time.Second, "42m"},
		{"Under A Minute", 30 * time.Second, "0m"},
		{"At Expiry", 0, "0m"},
		{"Past Expiry", -time.Second, "Expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := newPost(1, baseTime.Add(tt.remaining))
			assert.Equal(t, tt.want, TimeLeft(post, baseTime))
		})
	}
}

func TestCanLike(t *testing.T) {
	t.Parallel()
	live := baseTime.Add(time.Hour)
	expired := baseTime.Add(-time.Hour)

	tests := []struct {
		name     string
		post     *models.Post
		actorID  uint
		code     string
		sentinel error
	}{
		{"Other User On Live Post", newPost(1, live), 2, "", nil},
		{"Author On Live Post", newPost(1, live), 1, models.CodeForbidden, models.ErrSelfInteraction},
		{"Author On Expired Post", newPost(1, expired), 1, models.CodeForbidden, models.ErrSelfInteraction},
		{"Other User On Expired Post", newPost(1, expired), 2, models.CodeForbidden, models.ErrPostExpired},
		{
			"Repeat Like",
			&models.Post{AuthorID: 1, ExpiresAt: live, LikedBy: []uint{2}},
			2, models.CodeConflict, models.ErrDuplicateInteraction,
		},
		{
			"Repeat Like On Expired Post Reports Expiry",
			&models.Post{AuthorID: 1, ExpiresAt: expired, LikedBy: []uint{2}},
			2, models.CodeForbidden, models.ErrPostExpired,
		},
		{
			"Prior Dislike Does Not Block Like",
			&models.Post{AuthorID: 1, ExpiresAt: live, DislikedBy: []uint{2}},
			2, "", nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanLike(tt.post, tt.actorID, baseTime)
			if tt.sentinel == nil {
				assert.NoError(t, err)
				return
			}
			requireAppError(t, err, tt.code, tt.sentinel)
		})
	}
}

func TestCanDislike(t *testing.T) {
	t.Parallel()
	live := baseTime.Add(time.Hour)

	assert.NoError(t, CanDislike(newPost(1, live), 2, baseTime))
	requireAppError(t, CanDislike(newPost(1, live), 1, baseTime), models.CodeForbidden, models.ErrSelfInteraction)
	requireAppError(t, CanDislike(newPost(1, baseTime.Add(-time.Minute)), 2, baseTime), models.CodeForbidden, models.ErrPostExpired)

	repeated := &models.Post{AuthorID: 1, ExpiresAt: live, DislikedBy: []uint{3}}
	requireAppError(t, CanDislike(repeated, 3, baseTime), models.CodeConflict, models.ErrDuplicateInteraction)

	liked := &models.Post{AuthorID: 1, ExpiresAt: live, LikedBy: []uint{3}}
	assert.NoError(t, CanDislike(liked, 3, baseTime))
}

func TestCanComment(t *testing.T) {
	t.Parallel()
	assert.NoError(t, CanComment(newPost(1, baseTime.Add(time.Hour)), 2, baseTime))
	assert.NoError(t, CanComment(newPost(1, baseTime.Add(time.Hour)), 1, baseTime), "authors may comment on their own post")
	assert.NoError(t, CanComment(newPost(1, baseTime), 2, baseTime))
	requireAppError(t, CanComment(newPost(1, baseTime.Add(-time.Hour)), 2, baseTime), models.CodeForbidden, models.ErrPostExpired)
}

func TestCanDelete(t *testing.T) {
	t.Parallel()
	assert.NoError(t, CanDelete(newPost(1, baseTime.Add(time.Hour)), 1))
	assert.NoError(t, CanDelete(newPost(1, baseTime.Add(-time.Hour)), 1), "expiry does not block the author")
	requireAppError(t, CanDelete(newPost(1, baseTime.Add(time.Hour)), 2), models.CodeForbidden, models.ErrNotAuthor)
}

func TestDuplicateInteraction(t *testing.T) {
	t.Parallel()
	requireAppError(t, DuplicateInteraction(models.ReactionLike), models.CodeConflict, models.ErrDuplicateInteraction)
	err := DuplicateInteraction(models.ReactionDislike)
	requireAppError(t, err, models.CodeConflict, models.ErrDuplicateInteraction)
	assert.Contains(t, err.Error(), "disliked")
}
