package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/skillswap-app/skillswap-api/internal/utils"
)

// AuthMiddleware создаёт middleware для проверки сессионного токена.
// Идентификатор пользователя, email, имя и аватар кладутся в Locals.
func AuthMiddleware(jwtService *utils.JWTService) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		// Проверяем Bearer токен
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		session, err := jwtService.ParseToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		// Идентификаторы провайдера — непрозрачные строки, формат не проверяем
		c.Locals("userID", session.UserID)
		c.Locals("userEmail", session.Email)
		c.Locals("userName", session.Name)
		c.Locals("userAvatar", session.AvatarURL)

		return c.Next()
	}
}
