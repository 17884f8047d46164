package admin

import (
	"github.com/gofiber/fiber/v3"
	"github.com/skillswap-app/skillswap-api/internal/db"
	"github.com/skillswap-app/skillswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты админки
func (s *AdminService) SetupRoutes(app *fiber.App) {
	// Группа для API модерации
	api := app.Group("/api/admin")

	// Авторизация плюс проверка email администратора на каждом маршруте
	api.Use(middleware.AuthMiddleware(s.jwtService))
	api.Use(middleware.BanMiddleware(db.IsUserBanned))
	api.Use(middleware.AdminMiddleware(s.cfg.AdminEmail))

	// Обзор пользователей и обменов
	api.Get("/users", s.GetAllUsers)
	api.Get("/swaps", s.GetAllSwaps)

	// Модерация
	api.Patch("/users/:id/ban", s.BanUser)
	api.Post("/users/:id/reject-skill", s.RejectSkill)
	api.Post("/platform-message", s.SendPlatformMessage)
	api.Get("/actions", s.GetAdminActions)

	// CSV-отчёты
	api.Get("/reports/users.csv", s.ExportUsersReport)
	api.Get("/reports/swaps.csv", s.ExportSwapsReport)
}
