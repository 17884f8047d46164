package middleware

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/skillswap-app/skillswap-api/internal/db"
)

// BanCheck сообщает, забанен ли пользователь
type BanCheck func(ctx context.Context, userID string) (bool, error)

// BanMiddleware закрывает API для забаненных пользователей.
// Ставится после AuthMiddleware: идентификатор берётся из Locals.
func BanMiddleware(isBanned BanCheck) fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, _ := c.Locals("userID").(string)
		if userID == "" {
			return c.Next()
		}

		ctx, cancel := db.GetContext()
		defer cancel()

		banned, err := isBanned(ctx, userID)
		if err != nil {
			log.Printf("Ошибка проверки бана для %s: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Ошибка проверки пользователя",
			})
		}
		if banned {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Пользователь заблокирован",
			})
		}

		return c.Next()
	}
}
