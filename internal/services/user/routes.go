package user

import (
	"github.com/gofiber/fiber/v3"
	"github.com/skillswap-app/skillswap-api/internal/db"
	"github.com/skillswap-app/skillswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API пользователей
func (s *UserService) SetupRoutes(app *fiber.App) {
	// Группа для API пользователей
	api := app.Group("/api/users")

	// Защищенные маршруты (требуют авторизации); забаненным доступ закрыт
	api.Use(middleware.AuthMiddleware(s.jwtService))
	api.Use(middleware.BanMiddleware(db.IsUserBanned))

	// Синхронизация профиля из провайдера идентичности
	api.Post("/sync-from-clerk", s.SyncFromClerk)

	// Собственный профиль
	api.Get("/profile", s.GetProfile)
	api.Put("/profile", s.UpdateProfile)

	// Каталог и поиск
	api.Get("/search", s.SearchUsers)

	// Рейтинг и контакты пользователя
	api.Get("/:id/ratings", s.GetUserRatings)
	api.Get("/:id/contact", s.GetContact)
}
