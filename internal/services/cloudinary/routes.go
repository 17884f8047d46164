package cloudinary

import (
	"github.com/gofiber/fiber/v3"
	"github.com/skillswap-app/skillswap-api/internal/db"
	"github.com/skillswap-app/skillswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для загрузки аватаров
func (s *CloudinaryService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/uploads")

	// Защищенные маршруты (требуют авторизации); забаненным доступ закрыт
	api.Use(middleware.AuthMiddleware(s.jwtService))
	api.Use(middleware.BanMiddleware(db.IsUserBanned))

	api.Get("/avatar-params", s.GenerateAvatarUploadParams)
	api.Post("/avatar-replace", s.ReplaceAvatar)
}
