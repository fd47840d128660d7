package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"meetback/internal/config"
	"meetback/internal/database"
	"meetback/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer builds a Server backed by an in-memory SQLite database and no
// Redis, plus a Fiber app with the full route table mounted.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	return newTestServerWithRedis(t, nil)
}

func newTestServerWithRedis(t *testing.T, rdb *redis.Client) (*Server, *fiber.App) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:srv_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		Port:      "8480",
		JWTSecret: "test-secret-key",
		Env:       "test",
	}
	srv, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, err)
		},
	})
	srv.SetupRoutes(app)

	return srv, app
}

// doJSON performs a request against the app and decodes the response envelope.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var envelope map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &envelope), string(raw))
	}
	return resp, envelope
}

// registerUser creates an account through the API and returns its token and
// user ID.
func registerUser(t *testing.T, app *fiber.App, tag string) (string, uint) {
	t.Helper()

	resp, body := doJSON(t, app, "POST", "/api/auth/register", "", map[string]any{
		"email":       tag + "@example.com",
		"password":    "hunter2",
		"handle":      tag,
		"displayName": tag + " display",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body)

	data := body["data"].(map[string]any)
	token := data["token"].(string)
	user := data["user"].(map[string]any)
	return token, uint(user["id"].(float64))
}

// errorCode extracts the machine-readable code from a failure envelope.
func errorCode(t *testing.T, body map[string]any) string {
	t.Helper()
	errBody, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error body, got %v", body)
	code, _ := errBody["code"].(string)
	return code
}
