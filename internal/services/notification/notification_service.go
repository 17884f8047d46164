package notification

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/skillswap-app/skillswap-api/internal/config"
	"github.com/skillswap-app/skillswap-api/internal/db"
	"github.com/skillswap-app/skillswap-api/internal/models"
	"github.com/skillswap-app/skillswap-api/internal/utils"
)

// Сколько последних сообщений платформы отдаётся клиенту
const platformMessagesLimit = 20

// NotificationService представляет сервис для работы с уведомлениями
type NotificationService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewNotificationService создает новый экземпляр NotificationService
func NewNotificationService(cfg *config.Config, jwtService *utils.JWTService) *NotificationService {
	return &NotificationService{
		cfg:        cfg,
		jwtService: jwtService,
	}
}

// notificationView дополняет уведомление признаком actionable: по нему
// клиент показывает кнопки Принять/Отклонить прямо из списка
type notificationView struct {
	models.Notification
	Actionable bool `json:"actionable"`
}

// GetNotifications возвращает уведомления пользователя вместе со счётчиком
// непрочитанных
func (s *NotificationService) GetNotifications(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, type, title, message, related_id, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		log.Printf("Ошибка запроса уведомлений для %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения уведомлений"})
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		var relatedID *string
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&relatedID, &n.IsRead, &n.CreatedAt); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		if relatedID != nil {
			n.RelatedID = *relatedID
		}
		notifications = append(notifications, n)
	}

	// Адресованные пользователю предложения в ожидании: только по ним
	// уведомление остаётся actionable
	pending := map[string]*models.SwapRequest{}
	swapRows, err := db.Pool.Query(ctx, `
		SELECT id FROM swap_requests WHERE to_user_id = $1 AND status = 'pending'
	`, userID)
	if err != nil {
		log.Printf("Ошибка запроса предложений в ожидании для %s: %v", userID, err)
		// Не возвращаем ошибку, т.к. основная функциональность выполнена
	} else {
		defer swapRows.Close()
		for swapRows.Next() {
			var id uuid.UUID
			if err := swapRows.Scan(&id); err != nil {
				log.Printf("Ошибка сканирования строки: %v", err)
				continue
			}
			pending[id.String()] = &models.SwapRequest{
				ID: id, ToUserID: userID, Status: models.SwapStatusPending,
			}
		}
	}

	views := make([]notificationView, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, notificationView{
			Notification: n,
			Actionable:   n.Actionable(pending[n.RelatedID]),
		})
	}

	return c.JSON(fiber.Map{
		"notifications": views,
		"unread_count":  models.UnreadCount(notifications),
	})
}

// MarkRead отмечает уведомление прочитанным
func (s *NotificationService) MarkRead(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	notificationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID уведомления"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `
		UPDATE notifications SET is_read = true
		WHERE id = $1 AND user_id = $2
	`, notificationID, userID)
	if err != nil {
		log.Printf("Ошибка отметки уведомления %s: %v", notificationID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления уведомления"})
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Уведомление не найдено"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// DeleteNotification удаляет уведомление пользователя
func (s *NotificationService) DeleteNotification(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	notificationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID уведомления"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM notifications WHERE id = $1 AND user_id = $2
	`, notificationID, userID)
	if err != nil {
		log.Printf("Ошибка удаления уведомления %s: %v", notificationID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления уведомления"})
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Уведомление не найдено"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// GetPlatformMessages возвращает последние сообщения платформы
func (s *NotificationService) GetPlatformMessages(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, message, admin_id, admin_name, created_at
		FROM platform_messages
		ORDER BY created_at DESC
		LIMIT $1
	`, platformMessagesLimit)
	if err != nil {
		log.Printf("Ошибка запроса сообщений платформы: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения сообщений платформы"})
	}
	defer rows.Close()

	messages := []models.PlatformMessage{}
	for rows.Next() {
		var m models.PlatformMessage
		if err := rows.Scan(&m.ID, &m.Message, &m.AdminID, &m.AdminName, &m.CreatedAt); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		messages = append(messages, m)
	}

	return c.JSON(fiber.Map{
		"platform_messages": messages,
		"count":             len(messages),
	})
}
