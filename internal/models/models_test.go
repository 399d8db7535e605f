package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTopic(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want Topic
		ok   bool
	}{
		{"Tech", TopicTech, true},
		{"tech", TopicTech, true},
		{"  POLITICS ", TopicPolitics, true},
		{"Health", TopicHealth, true},
		{"Sport", TopicSport, true},
		{"Sports", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTopic(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()
	s, ok := ParseStatus("live")
	assert.True(t, ok)
	assert.Equal(t, StatusLive, s)

	s, ok = ParseStatus("Expired")
	assert.True(t, ok)
	assert.Equal(t, StatusExpired, s)

	_, ok = ParseStatus("archived")
	assert.False(t, ok)
}

func TestAppError_Status(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewValidationError("bad"), http.StatusBadRequest},
		{NewConflictError("dup", ErrDuplicateEmail), http.StatusBadRequest},
		{NewNotFoundError("Post", 1), http.StatusNotFound},
		{NewUnauthorizedError("no"), http.StatusUnauthorized},
		{NewForbiddenError("no", ErrNotAuthor), http.StatusForbidden},
		{NewInternalError(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Status())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("liking: %w", NewForbiddenError("Post has expired", ErrPostExpired))
	assert.ErrorIs(t, err, ErrPostExpired)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, CodeForbidden, appErr.Code)
}

func TestRespondWithError_HidesInternalDetails(t *testing.T) {
	app := fiber.New()
	app.Get("/internal", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError, NewInternalError(errors.New("pq: connection refused")))
	})
	app.Get("/forbidden", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusForbidden, NewForbiddenError("Post has expired", ErrPostExpired))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/internal", nil))
	require.NoError(t, err)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Internal server error", body.Error)
	assert.Empty(t, body.Details)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/forbidden", nil))
	require.NoError(t, err)
	body = ErrorResponse{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, CodeForbidden, body.Code)
	assert.Equal(t, ErrPostExpired.Error(), body.Details)
}
