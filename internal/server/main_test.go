package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mingle/internal/config"
	"mingle/internal/database"
	"mingle/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var dbSeq atomic.Int64

// testClock is a settable clock shared by the server and the test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() *config.Config {
	return &config.Config{
		Env:         "test",
		TokenSecret: "test-secret-test-secret-test-secret",
		TokenIssuer: "mingle-test",
		BcryptCost:  4,
	}
}

// setupTestServer builds a server over a private in-memory SQLite database.
func setupTestServer(t *testing.T, clock *testClock) (*Server, *fiber.App) {
	t.Helper()
	return setupTestServerWith(t, clock, testConfig(), nil)
}

// setupTestServerWith is setupTestServer with an explicit config and Redis.
func setupTestServerWith(t *testing.T, clock *testClock, cfg *config.Config, rdb *redis.Client) (*Server, *fiber.App) {
	t.Helper()

	dsn := fmt.Sprintf("file:server_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := database.OpenSQLite(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	s, err := NewServerWithDeps(cfg, db, rdb, WithClock(clock.Now))
	require.NoError(t, err)
	return s, s.App()
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

type errorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

// registerAndLogin creates a user named name and returns its token and id.
func registerAndLogin(t *testing.T, app *fiber.App, name string) (string, uint) {
	t.Helper()

	email := name + "@example.com"
	resp := doRequest(t, app, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "password1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decodeBody[struct {
		ID uint `json:"id"`
	}](t, resp)

	resp = doRequest(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": "password1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decodeBody[map[string]string](t, resp)
	require.NotEmpty(t, login["auth-token"])

	return login["auth-token"], user.ID
}

type postBody struct {
	ID           uint     `json:"id"`
	Title        string   `json:"title"`
	AuthorID     uint     `json:"authorId"`
	AuthorName   string   `json:"authorName"`
	Topics       []string `json:"topics"`
	LikeCount    int      `json:"likeCount"`
	DislikeCount int      `json:"dislikeCount"`
	LikedBy      []uint   `json:"likedBy"`
	DislikedBy   []uint   `json:"dislikedBy"`
	Status       string   `json:"status"`
	TimeLeft     string   `json:"timeLeft"`
	Comments     []struct {
		Text       string `json:"text"`
		AuthorName string `json:"authorName"`
	} `json:"comments"`
}

func createPost(t *testing.T, app *fiber.App, token string, body map[string]any) postBody {
	t.Helper()

	resp := doRequest(t, app, http.MethodPost, "/posts", token, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[struct {
		Message string   `json:"message"`
		Post    postBody `json:"post"`
	}](t, resp)
	require.Equal(t, "Post created", created.Message)
	return created.Post
}
