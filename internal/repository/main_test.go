package repository

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"mingle/internal/database"
	"mingle/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// setupTestDB returns a migrated in-memory SQLite database private to the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repository_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := database.OpenSQLite(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// setupMockDB returns a Postgres-dialect GORM handle over sqlmock.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", Password: "digest"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createPost(t *testing.T, repo PostRepository, authorID uint, createdAt time.Time, ttl time.Duration, topics ...models.Topic) *models.Post {
	t.Helper()
	if len(topics) == 0 {
		topics = []models.Topic{models.TopicTech}
	}
	p := &models.Post{
		Title:     "Post by " + fmt.Sprint(authorID),
		Content:   "content",
		AuthorID:  authorID,
		Topics:    topics,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(ttl),
	}
	require.NoError(t, repo.Create(t.Context(), p))
	return p
}
