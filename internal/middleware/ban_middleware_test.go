package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-app/skillswap-api/internal/utils"
)

func newBanTestApp(t *testing.T, check BanCheck) (*fiber.App, *utils.JWTService) {
	t.Helper()

	jwtService, err := utils.NewJWTService("test-secret", "")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/whoami", func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}, AuthMiddleware(jwtService), BanMiddleware(check))

	return app, jwtService
}

func TestBanMiddlewareBlocksBannedUser(t *testing.T) {
	banned := map[string]bool{"banned-user": true}
	check := func(ctx context.Context, userID string) (bool, error) {
		return banned[userID], nil
	}
	app, jwtService := newBanTestApp(t, check)

	// Валидный токен забаненного пользователя не даёт доступа к API
	token, err := jwtService.GenerateToken("banned-user", "banned@example.com", "Banned")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestBanMiddlewarePassesActiveUser(t *testing.T) {
	check := func(ctx context.Context, userID string) (bool, error) {
		return false, nil
	}
	app, jwtService := newBanTestApp(t, check)

	token, err := jwtService.GenerateToken("user-a", "ana@example.com", "Ana")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestBanMiddlewareCheckFailure(t *testing.T) {
	check := func(ctx context.Context, userID string) (bool, error) {
		return false, errors.New("база недоступна")
	}
	app, jwtService := newBanTestApp(t, check)

	token, err := jwtService.GenerateToken("user-a", "ana@example.com", "Ana")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
