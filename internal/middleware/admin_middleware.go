package middleware

import (
	"github.com/gofiber/fiber/v3"
)

// AdminMiddleware пропускает только пользователя с email администратора.
// Это UX-гейт в пару к клиентскому: настоящая авторизация остаётся за
// сервером, поэтому проверка стоит на каждом админском маршруте.
func AdminMiddleware(adminEmail string) fiber.Handler {
	return func(c fiber.Ctx) error {
		email, _ := c.Locals("userEmail").(string)
		if adminEmail == "" || email == "" || email != adminEmail {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Access Denied",
			})
		}
		return c.Next()
	}
}
