package swap

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skillswap-app/skillswap-api/internal/config"
	"github.com/skillswap-app/skillswap-api/internal/db"
	"github.com/skillswap-app/skillswap-api/internal/models"
	"github.com/skillswap-app/skillswap-api/internal/services/notification"
	"github.com/skillswap-app/skillswap-api/internal/utils"
)

// SwapService представляет сервис для работы с предложениями обмена
type SwapService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewSwapService создает новый экземпляр SwapService
func NewSwapService(cfg *config.Config, jwtService *utils.JWTService) *SwapService {
	return &SwapService{
		cfg:        cfg,
		jwtService: jwtService,
	}
}

const swapColumns = `
	id, from_user_id, to_user_id, from_user_name, to_user_name,
	skill_offered, skill_wanted, message, status, closed_count, closed_by,
	created_at, updated_at
`

// CreateSwap создает новое предложение обмена
func (s *SwapService) CreateSwap(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	// Извлекаем данные из запроса
	var requestData struct {
		ToUserID     string `json:"to_user_id"`
		SkillOffered string `json:"skill_offered"`
		SkillWanted  string `json:"skill_wanted"`
		Message      string `json:"message"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	// Проверка обязательных полей
	if requestData.ToUserID == "" || requestData.SkillOffered == "" || requestData.SkillWanted == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Необходимо указать получателя и навыки для обмена"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Получаем отправителя и получателя; забаненному получателю предложить нельзя
	fromUser, err := db.GetUserByID(ctx, userID)
	if err != nil {
		log.Printf("Ошибка запроса отправителя %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки пользователя"})
	}

	toUser, err := db.GetUserByID(ctx, requestData.ToUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Получатель не найден"})
		}
		log.Printf("Ошибка запроса получателя %s: %v", requestData.ToUserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки пользователя"})
	}

	if toUser.IsBanned || !toUser.IsActive {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Получатель не найден или заблокирован"})
	}

	swap, err := models.NewSwapRequest(userID, toUser.ID, fromUser.Name, toUser.Name,
		requestData.SkillOffered, requestData.SkillWanted, requestData.Message)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// Проверяем, не существует ли уже такое предложение в ожидании
	var existingCount int
	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM swap_requests
		WHERE from_user_id = $1 AND to_user_id = $2
		  AND skill_offered = $3 AND skill_wanted = $4 AND status = 'pending'
	`, swap.FromUserID, swap.ToUserID, swap.SkillOffered, swap.SkillWanted).Scan(&existingCount)

	if err != nil {
		log.Printf("Ошибка проверки существующих предложений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки существующих обменов"})
	}

	if existingCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Такое предложение обмена уже существует"})
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO swap_requests (id, from_user_id, to_user_id, from_user_name, to_user_name,
		                           skill_offered, skill_wanted, message, status, closed_count, closed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending', 0, '[]'::jsonb)
	`, swap.ID, swap.FromUserID, swap.ToUserID, swap.FromUserName, swap.ToUserName,
		swap.SkillOffered, swap.SkillWanted, swap.Message)

	if err != nil {
		log.Printf("Ошибка создания предложения обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения предложения обмена"})
	}

	// Уведомляем получателя о новом предложении
	if err := notification.NotifySwapRequest(ctx, swap.ToUserID, swap.FromUserName,
		swap.SkillOffered, swap.SkillWanted, swap.ID.String()); err != nil {
		log.Printf("Ошибка создания уведомления о предложении %s: %v", swap.ID, err)
		// Не возвращаем ошибку, т.к. основная функциональность выполнена
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"swap_request": swap,
		"message":      "Предложение обмена успешно создано",
	})
}

// GetMySwaps возвращает список входящих и исходящих предложений обмена
func (s *SwapService) GetMySwaps(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	// Получаем тип предложений (входящие/исходящие/все) и статус
	swapType := c.Query("type", "all")  // all, incoming, outgoing
	status := c.Query("status", "all")  // all, pending, accepted, rejected, closed

	ctx, cancel := db.GetContext()
	defer cancel()

	query := `
		SELECT ` + swapColumns + `
		FROM swap_requests
		WHERE ($1 = 'all' AND (from_user_id = $2 OR to_user_id = $2))
		   OR ($1 = 'incoming' AND to_user_id = $2)
		   OR ($1 = 'outgoing' AND from_user_id = $2)
		ORDER BY created_at DESC
	`

	rows, err := db.Pool.Query(ctx, query, swapType, userID)
	if err != nil {
		log.Printf("Ошибка запроса предложений обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложений обмена"})
	}
	defer rows.Close()

	swaps := []models.SwapRequest{}
	for rows.Next() {
		swap, err := scanSwap(rows)
		if err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		swaps = append(swaps, *swap)
	}

	// Принятые обмены — это текущие (ongoing) обмены пользователя
	if status == string(models.SwapStatusAccepted) {
		swaps = models.OngoingSwaps(swaps, userID)
	} else if status != "all" {
		filtered := []models.SwapRequest{}
		for _, swap := range swaps {
			if string(swap.Status) == status {
				filtered = append(filtered, swap)
			}
		}
		swaps = filtered
	}

	return c.JSON(fiber.Map{
		"swaps": swaps,
		"count": len(swaps),
	})
}

// AcceptSwap принимает предложение обмена (только получатель, только pending)
func (s *SwapService) AcceptSwap(c fiber.Ctx) error {
	return s.respond(c, models.SwapStatusAccepted)
}

// RejectSwap отклоняет предложение обмена (только получатель, только pending)
func (s *SwapService) RejectSwap(c fiber.Ctx) error {
	return s.respond(c, models.SwapStatusRejected)
}

// respond выполняет переход pending -> accepted/rejected и уведомляет отправителя
func (s *SwapService) respond(c fiber.Ctx, status models.SwapStatus) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	swapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения обмена"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Берём строку с блокировкой: ответ и закрытие по одному обмену сериализуются
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	swap, err := lockSwap(ctx, tx, swapID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Предложение обмена не найдено"})
		}
		log.Printf("Ошибка запроса предложения обмена %s: %v", swapID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложения обмена"})
	}

	if err := swap.Respond(userID, status); err != nil {
		switch {
		case errors.Is(err, models.ErrNotRecipient):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE swap_requests SET status = $1, updated_at = NOW() WHERE id = $2
	`, swap.Status, swap.ID)
	if err != nil {
		log.Printf("Ошибка обновления статуса предложения %s: %v", swapID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления статуса предложения"})
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	// Уведомляем отправителя об ответе
	if err := notification.NotifySwapResponse(ctx, swap.FromUserID, swap.ToUserName,
		swap.Status, swap.ID.String()); err != nil {
		log.Printf("Ошибка создания уведомления об ответе по %s: %v", swap.ID, err)
	}

	message := "Предложение обмена принято"
	if status == models.SwapStatusRejected {
		message = "Предложение обмена отклонено"
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"swap_id": swap.ID,
		"status":  swap.Status,
	})
}

// CloseSwap фиксирует подтверждение закрытия обмена текущим участником.
// Двухфазное рукопожатие: счётчик растёт по одному разу на участника,
// при втором подтверждении обмен переходит в closed. Повторный вызов
// той же стороной — no-op, возвращается актуальное состояние.
func (s *SwapService) CloseSwap(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	swapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения обмена"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Конкурентные закрытия двух сторон упорядочивает блокировка строки:
	// оба инкремента отражаются независимо от порядка прихода
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	swap, err := lockSwap(ctx, tx, swapID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Предложение обмена не найдено"})
		}
		log.Printf("Ошибка запроса предложения обмена %s: %v", swapID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложения обмена"})
	}

	changed, err := swap.Close(userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotParticipant):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	if changed {
		closedBy, err := json.Marshal(swap.ClosedBy)
		if err != nil {
			log.Printf("Ошибка сериализации списка закрытий: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
		}

		_, err = tx.Exec(ctx, `
			UPDATE swap_requests
			SET status = $1, closed_count = $2, closed_by = $3, updated_at = NOW()
			WHERE id = $4
		`, swap.Status, swap.ClosedCount, closedBy, swap.ID)
		if err != nil {
			log.Printf("Ошибка обновления закрытия предложения %s: %v", swapID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления предложения"})
		}
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"swap_id":      swap.ID,
		"status":       swap.Status,
		"closed_count": swap.ClosedCount,
		"changed":      changed,
	})
}

// DeleteSwap удаляет предложение обмена вместе с отзывами и перепиской.
// Удалить может любой участник в любом статусе; операция необратима.
func (s *SwapService) DeleteSwap(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	swapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения обмена"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	swap, err := lockSwap(ctx, tx, swapID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Предложение обмена не найдено"})
		}
		log.Printf("Ошибка запроса предложения обмена %s: %v", swapID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложения обмена"})
	}

	if !swap.IsParticipant(userID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Удалить обмен может только его участник"})
	}

	// Сначала зависимые записи, затем само предложение
	if _, err = tx.Exec(ctx, `DELETE FROM feedback WHERE swap_request_id = $1`, swapID); err != nil {
		log.Printf("Ошибка удаления отзывов по %s: %v", swapID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления предложения"})
	}
	if _, err = tx.Exec(ctx, `DELETE FROM chat_messages WHERE swap_request_id = $1`, swapID); err != nil {
		log.Printf("Ошибка удаления переписки по %s: %v", swapID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления предложения"})
	}
	if _, err = tx.Exec(ctx, `DELETE FROM swap_requests WHERE id = $1`, swapID); err != nil {
		log.Printf("Ошибка удаления предложения %s: %v", swapID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления предложения"})
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Предложение обмена удалено",
	})
}

// CreateFeedback сохраняет оценку по принятому или закрытому обмену
func (s *SwapService) CreateFeedback(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	swapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения обмена"})
	}

	var requestData struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	swap, err := getSwap(ctx, swapID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Предложение обмена не найдено"})
		}
		log.Printf("Ошибка запроса предложения обмена %s: %v", swapID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложения обмена"})
	}

	feedback, err := swap.NewFeedback(userID, requestData.Rating, requestData.Comment)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotParticipant):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	// Одна оценка на участника по каждому обмену
	var alreadyRated bool
	err = db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM feedback WHERE swap_request_id = $1 AND from_user_id = $2)
	`, swapID, userID).Scan(&alreadyRated)
	if err != nil {
		log.Printf("Ошибка проверки существующих оценок: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки оценок"})
	}
	if alreadyRated {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Вы уже оценили этот обмен"})
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO feedback (id, swap_request_id, from_user_id, to_user_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, feedback.ID, feedback.SwapRequestID, feedback.FromUserID, feedback.ToUserID,
		feedback.Rating, feedback.Comment)
	if err != nil {
		log.Printf("Ошибка сохранения оценки по %s: %v", swapID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения оценки"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"feedback": feedback,
		"message":  "Оценка сохранена",
	})
}

// getSwap читает предложение обмена без блокировки
func getSwap(ctx context.Context, swapID uuid.UUID) (*models.SwapRequest, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT `+swapColumns+`
		FROM swap_requests
		WHERE id = $1
	`, swapID)
	return scanSwap(row)
}

// lockSwap читает предложение обмена с блокировкой строки в транзакции
func lockSwap(ctx context.Context, tx pgx.Tx, swapID uuid.UUID) (*models.SwapRequest, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+swapColumns+`
		FROM swap_requests
		WHERE id = $1
		FOR UPDATE
	`, swapID)
	return scanSwap(row)
}

// scanSwap читает строку предложения обмена, включая JSONB-список закрытий
func scanSwap(row pgx.Row) (*models.SwapRequest, error) {
	var swap models.SwapRequest
	var message *string
	var closedBy []byte

	if err := row.Scan(
		&swap.ID,
		&swap.FromUserID,
		&swap.ToUserID,
		&swap.FromUserName,
		&swap.ToUserName,
		&swap.SkillOffered,
		&swap.SkillWanted,
		&message,
		&swap.Status,
		&swap.ClosedCount,
		&closedBy,
		&swap.CreatedAt,
		&swap.UpdatedAt,
	); err != nil {
		return nil, err
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

	return &swap, nil
}
