package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"network/internal/config"
	"network/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

type testEnv struct {
	server *Server
	app    *fiber.App
	redis  *miniredis.Miniredis
}

// newTestEnv wires a full server over in-memory SQLite and miniredis.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:             testSecret,
		Port:                  "0",
		Env:                   "test",
		DBDriver:              "sqlite",
		SQLitePath:            ":memory:",
		MediaDir:              t.TempDir(),
		AvatarMaxUploadSizeMB: 1,
	}

	db, err := database.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)

	return &testEnv{server: s, app: s.newApp(), redis: mr}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
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
	return e.send(t, req, token)
}

func (e *testEnv) send(t *testing.T, req *http.Request, token string) (int, map[string]any) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out
}

// register signs a user up and returns their token.
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/register", "", map[string]string{
		"username":     username,
		"email":        username + "@example.com",
		"password":     "password123",
		"confirmation": "password123",
	})
	require.Equal(t, http.StatusCreated, status, body)
	token, ok := body["token"].(string)
	require.True(t, ok)
	return token
}

func (e *testEnv) createPost(t *testing.T, token, content string) uint {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/", token, map[string]string{"content": content})
	require.Equal(t, http.StatusCreated, status, body)
	return uint(body["id"].(float64))
}

func postContents(body map[string]any) []string {
	posts, _ := body["posts"].([]any)
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.(map[string]any)["content"].(string))
	}
	return out
}

func decodeJSON(resp *http.Response, v any) error {
	return json.NewDecoder(resp.Body).Decode(v)
}

func unmarshalString(s string, v any) error {
	return json.Unmarshal([]byte(s), v)
}
