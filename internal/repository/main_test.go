package repository

import (
	"testing"
	"time"

	"network/internal/config"
	"network/internal/database"
	"network/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newTestDB opens a private, migrated in-memory SQLite database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(&config.Config{
		Env:        "test",
		DBDriver:   "sqlite",
		SQLitePath: ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return gormDB, mock
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Password: "hash"}
	require.NoError(t, NewUserRepository(db).CreateWithProfile(t.Context(), u))
	return u
}

// createPostAt inserts a post with an explicit creation time.
func createPostAt(t *testing.T, db *gorm.DB, author *models.User, content string, at time.Time) *models.Post {
	t.Helper()
	p := &models.Post{Content: content, UserID: &author.ID, CreatedAt: at}
	require.NoError(t, NewPostRepository(db).Create(t.Context(), p))
	return p
}

func contents(posts []*models.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Content)
	}
	return out
}

func usernames(users []models.UserSummary) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Username)
	}
	return out
}
