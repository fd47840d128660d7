package server

import (
	"testing"

	"meetback/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientLogEndpoints(t *testing.T) {
	srv, app := newTestServer(t)
	userToken, userID := registerUser(t, app, "reporter")
	adminToken, adminID := registerUser(t, app, "auditor")

	resp, body := doJSON(t, app, "POST", "/api/logs/", userToken, map[string]any{
		"level":   "error",
		"message": "feed failed to render",
		"meta":    map[string]any{"screen": "feed"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body)
	entry := body["data"].(map[string]any)["log"].(map[string]any)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, float64(userID), entry["userId"])

	// Unknown level rejected
	resp, body = doJSON(t, app, "POST", "/api/logs/", userToken, map[string]any{
		"level":   "catastrophic",
		"message": "boom",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, models.CodeValidationError, errorCode(t, body))

	// Listing is admin only
	resp, body = doJSON(t, app, "GET", "/api/logs/", userToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, models.CodeForbidden, errorCode(t, body))

	err := srv.db.Model(&models.User{}).Where("id = ?", adminID).
		Update("role", models.RoleAdmin).Error
	require.NoError(t, err)

	resp, body = doJSON(t, app, "GET", "/api/logs/?level=error", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["total"])
	assert.Len(t, data["logs"].([]any), 1)
}
