package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-app/skillswap-api/internal/utils"
)

func newTestApp(t *testing.T) (*fiber.App, *utils.JWTService) {
	t.Helper()

	jwtService, err := utils.NewJWTService("test-secret", "")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/whoami", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals("userID"),
			"email":   c.Locals("userEmail"),
		})
	}, AuthMiddleware(jwtService))

	return app, jwtService
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("GET", "/whoami", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareBadToken(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	app, jwtService := newTestApp(t)

	token, err := jwtService.GenerateToken("user-a", "ana@example.com", "Ana")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "user-a", payload["user_id"])
	assert.Equal(t, "ana@example.com", payload["email"])
}

func TestAdminMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}, func(c fiber.Ctx) error {
		c.Locals("userEmail", c.Get("X-Test-Email"))
		return c.Next()
	}, AdminMiddleware("admin@example.com"))

	cases := []struct {
		name   string
		email  string
		status int
	}{
		{"admin", "admin@example.com", fiber.StatusOK},
		{"regular user", "ana@example.com", fiber.StatusForbidden},
		{"no email", "", fiber.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			if tc.email != "" {
				req.Header.Set("X-Test-Email", tc.email)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestAdminMiddlewareUnconfigured(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}, func(c fiber.Ctx) error {
		c.Locals("userEmail", "admin@example.com")
		return c.Next()
	}, AdminMiddleware(""))

	// Без настроенного ADMIN_EMAIL админка закрыта для всех
	req := httptest.NewRequest("GET", "/admin", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
