package swap

import (
	"github.com/gofiber/fiber/v3"
	"github.com/skillswap-app/skillswap-api/internal/db"
	"github.com/skillswap-app/skillswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API обменов
func (s *SwapService) SetupRoutes(app *fiber.App) {
	// Группа для API обменов
	api := app.Group("/api/swaps")

	// Защищенные маршруты (требуют авторизации); забаненным доступ закрыт
	api.Use(middleware.AuthMiddleware(s.jwtService))
	api.Use(middleware.BanMiddleware(db.IsUserBanned))

	// Список своих предложений (входящие/исходящие, фильтр по статусу)
	api.Get("/", s.GetMySwaps)

	// Создание предложения обмена
	api.Post("/request", s.CreateSwap)

	// Жизненный цикл предложения
	api.Patch("/:id/accept", s.AcceptSwap)
	api.Patch("/:id/reject", s.RejectSwap)
	api.Patch("/:id/close", s.CloseSwap)
	api.Delete("/:id", s.DeleteSwap)

	// Оценка после принятого обмена
	api.Post("/:id/feedback", s.CreateFeedback)

	// Переписка по обмену
	api.Get("/:id/chat", s.GetChatMessages)
	api.Post("/:id/chat", s.SendChatMessage)
}
