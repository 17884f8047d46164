package notification

import (
	"github.com/gofiber/fiber/v3"
	"github.com/skillswap-app/skillswap-api/internal/db"
	"github.com/skillswap-app/skillswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API уведомлений
func (s *NotificationService) SetupRoutes(app *fiber.App) {
	// Группа для API уведомлений
	api := app.Group("/api/notifications")

	// Защищенные маршруты (требуют авторизации); забаненным доступ закрыт
	api.Use(middleware.AuthMiddleware(s.jwtService))
	api.Use(middleware.BanMiddleware(db.IsUserBanned))

	// Сообщения платформы регистрируются до параметрического маршрута
	api.Get("/platform-messages", s.GetPlatformMessages)

	// Список своих уведомлений
	api.Get("/", s.GetNotifications)

	// Отметка о прочтении и удаление
	api.Patch("/:id/read", s.MarkRead)
	api.Delete("/:id", s.DeleteNotification)
}
