package main

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/skillswap-app/skillswap-api/internal/config"
	"github.com/skillswap-app/skillswap-api/internal/db"
	"github.com/skillswap-app/skillswap-api/internal/services/admin"
	"github.com/skillswap-app/skillswap-api/internal/services/cloudinary"
	"github.com/skillswap-app/skillswap-api/internal/services/notification"
	"github.com/skillswap-app/skillswap-api/internal/services/swap"
	"github.com/skillswap-app/skillswap-api/internal/services/user"
	"github.com/skillswap-app/skillswap-api/internal/utils"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Инициализируем базу данных
	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer db.CloseDB()

	// Сервис проверки сессионных токенов
	jwtService, err := utils.NewJWTService(cfg.JWTSecret, cfg.ClerkPublicKey)
	if err != nil {
		log.Fatalf("❌ Ошибка при инициализации JWT: %v", err)
	}

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "SkillSwap API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Создаём сервисы
	userService := user.NewUserService(cfg, jwtService)
	swapService := swap.NewSwapService(cfg, jwtService)
	notificationService := notification.NewNotificationService(cfg, jwtService)
	adminService := admin.NewAdminService(cfg, jwtService)

	cloudinaryService, err := cloudinary.NewCloudinaryService(cfg, jwtService)
	if err != nil {
		log.Fatalf("❌ Ошибка при инициализации Cloudinary: %v", err)
	}

	// Регистрируем маршруты
	userService.SetupRoutes(app)
	swapService.SetupRoutes(app)
	notificationService.SetupRoutes(app)
	adminService.SetupRoutes(app)
	cloudinaryService.SetupRoutes(app)

	// Запускаем сервер
	log.Println("✅ SkillSwap API запущен на порту 8080")
	log.Fatal(app.Listen(":8080"))
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
