package admin

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skillswap-app/skillswap-api/internal/config"
	"github.com/skillswap-app/skillswap-api/internal/db"
	"github.com/skillswap-app/skillswap-api/internal/models"
	"github.com/skillswap-app/skillswap-api/internal/services/notification"
	"github.com/skillswap-app/skillswap-api/internal/utils"
)

// AdminService представляет сервис модерации
type AdminService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewAdminService создает новый экземпляр AdminService
func NewAdminService(cfg *config.Config, jwtService *utils.JWTService) *AdminService {
	return &AdminService{
		cfg:        cfg,
		jwtService: jwtService,
	}
}

// GetAllUsers возвращает всех пользователей, включая приватных и забаненных
func (s *AdminService) GetAllUsers(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	users, err := db.ListAllUsers(ctx)
	if err != nil {
		log.Printf("Ошибка запроса пользователей: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения пользователей"})
	}

	return c.JSON(fiber.Map{
		"users": users,
		"count": len(users),
	})
}

// GetAllSwaps возвращает все предложения обмена
func (s *AdminService) GetAllSwaps(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	swaps, err := listAllSwaps(ctx)
	if err != nil {
		log.Printf("Ошибка запроса предложений обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложений обмена"})
	}

	return c.JSON(fiber.Map{
		"swaps": swaps,
		"count": len(swaps),
	})
}

// BanUser переключает флаг бана пользователя и пишет запись аудита
func (s *AdminService) BanUser(c fiber.Ctx) error {
	adminID := c.Locals("userID").(string)

	targetID := c.Params("id")
	if targetID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID пользователя не указан"})
	}

	var requestData struct {
		Reason string `json:"reason"`
	}
	// Причина опциональна, тело может отсутствовать
	_ = c.Bind().Body(&requestData)

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := db.ToggleBan(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		}
		log.Printf("Ошибка изменения бана для %s: %v", targetID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка изменения статуса пользователя"})
	}

	actionType := "unban"
	if user.IsBanned {
		actionType = "ban"
	}
	recordAdminAction(ctx, adminID, actionType, targetID, requestData.Reason)

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// RejectSkill удаляет неприемлемый навык из профиля пользователя
// и пишет запись аудита
func (s *AdminService) RejectSkill(c fiber.Ctx) error {
	adminID := c.Locals("userID").(string)

	targetID := c.Params("id")
	if targetID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID пользователя не указан"})
	}

	var requestData struct {
		Skill  string `json:"skill"`
		Reason string `json:"reason"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if strings.TrimSpace(requestData.Skill) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Навык не указан"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, removed, err := db.RejectSkill(ctx, targetID, requestData.Skill)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		}
		log.Printf("Ошибка удаления навыка у %s: %v", targetID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления навыка"})
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Навык не найден у пользователя"})
	}

	reason := requestData.Skill
	if requestData.Reason != "" {
		reason = requestData.Skill + ": " + requestData.Reason
	}
	recordAdminAction(ctx, adminID, "skill_rejection", targetID, reason)

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// SendPlatformMessage рассылает сообщение платформы всем активным пользователям
func (s *AdminService) SendPlatformMessage(c fiber.Ctx) error {
	adminID := c.Locals("userID").(string)
	adminName, _ := c.Locals("userName").(string)
	if adminName == "" {
		adminName = "Administrator"
	}

	var requestData struct {
		Message string `json:"message"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if strings.TrimSpace(requestData.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Сообщение не может быть пустым"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	platformMessage, err := notification.BroadcastPlatformMessage(ctx, adminID, adminName, requestData.Message)
	if err != nil {
		log.Printf("Ошибка рассылки сообщения платформы: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка отправки сообщения"})
	}

	recordAdminAction(ctx, adminID, "platform_message", "", requestData.Message)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":          true,
		"platform_message": platformMessage,
	})
}

// GetAdminActions возвращает журнал модерационных действий
func (s *AdminService) GetAdminActions(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, admin_id, type, target_id, reason, created_at
		FROM admin_actions
		ORDER BY created_at DESC
	`)
	if err != nil {
		log.Printf("Ошибка запроса журнала действий: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения журнала"})
	}
	defer rows.Close()

	actions := []models.AdminAction{}
	for rows.Next() {
		var a models.AdminAction
		var targetID, reason *string
		if err := rows.Scan(&a.ID, &a.AdminID, &a.Type, &targetID, &reason, &a.CreatedAt); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		if targetID != nil {
			a.TargetID = *targetID
		}
		if reason != nil {
			a.Reason = *reason
		}
		actions = append(actions, a)
	}

	return c.JSON(fiber.Map{
		"actions": actions,
		"count":   len(actions),
	})
}

// recordAdminAction пишет запись аудита; ошибка записи не прерывает операцию
func recordAdminAction(ctx context.Context, adminID, actionType, targetID, reason string) {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO admin_actions (id, admin_id, type, target_id, reason)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
	`, uuid.New(), adminID, actionType, targetID, reason)
	if err != nil {
		log.Printf("Ошибка записи аудита (%s): %v", actionType, err)
	}
}

// listAllSwaps читает все предложения обмена для админки и отчётов
func listAllSwaps(ctx context.Context) ([]models.SwapRequest, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, from_user_id, to_user_id, from_user_name, to_user_name,
		       skill_offered, skill_wanted, message, status, closed_count, closed_by,
		       created_at, updated_at
		FROM swap_requests
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	swaps := []models.SwapRequest{}
	for rows.Next() {
		var swap models.SwapRequest
		var message *string
		var closedBy []byte
		if err := rows.Scan(
			&swap.ID, &swap.FromUserID, &swap.ToUserID, &swap.FromUserName, &swap.ToUserName,
			&swap.SkillOffered, &swap.SkillWanted, &message, &swap.Status, &swap.ClosedCount,
			&closedBy, &swap.CreatedAt, &swap.UpdatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		if message != nil {
			swap.Message = *message
		}
		swap.ClosedBy = []string{}
		if len(closedBy) > 0 {
			if err := json.Unmarshal(closedBy, &swap.ClosedBy); err != nil {
				swap.ClosedBy = []string{}
			}
		}
		swaps = append(swaps, swap)
	}

	return swaps, rows.Err()
}
