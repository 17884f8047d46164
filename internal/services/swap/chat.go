package swap

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skillswap-app/skillswap-api/internal/db"
	"github.com/skillswap-app/skillswap-api/internal/models"
)

// SendChatMessage отправляет сообщение в переписку по обмену
func (s *SwapService) SendChatMessage(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	swapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложения обмена"})
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

	// Писать в переписку могут только участники обмена
	swap, err := getSwap(ctx, swapID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Предложение обмена не найдено"})
		}
		log.Printf("Ошибка запроса предложения обмена %s: %v", swapID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложения обмена"})
	}

	if !swap.IsParticipant(userID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Переписка доступна только участникам обмена"})
	}

	chatMessage := models.ChatMessage{
		ID:            uuid.New(),
		SwapRequestID: swapID,
		FromUserID:    userID,
		Message:       requestData.Message,
	}

	err = db.Pool.QueryRow(ctx, `
		INSERT INTO chat_messages (id, swap_request_id, from_user_id, message)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, chatMessage.ID, chatMessage.SwapRequestID, chatMessage.FromUserID, chatMessage.Message).
		Scan(&chatMessage.CreatedAt)
	if err != nil {
		log.Printf("Ошибка сохранения сообщения по %s: %v", swapID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка отправки сообщения"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"chat_message": chatMessage,
	})
}

// GetChatMessages возвращает переписку по обмену (только для участников)
func (s *SwapService) GetChatMessages(c fiber.Ctx) error {
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

	swap, err := getSwap(ctx, swapID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Предложение обмена не найдено"})
		}
		log.Printf("Ошибка запроса предложения обмена %s: %v", swapID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения предложения обмена"})
	}

	if !swap.IsParticipant(userID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Переписка доступна только участникам обмена"})
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, swap_request_id, from_user_id, message, created_at
		FROM chat_messages
		WHERE swap_request_id = $1
		ORDER BY created_at ASC
	`, swapID)
	if err != nil {
		log.Printf("Ошибка запроса переписки по %s: %v", swapID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения переписки"})
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.SwapRequestID, &m.FromUserID, &m.Message, &m.CreatedAt); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		messages = append(messages, m)
	}

	return c.JSON(fiber.Map{
		"messages": messages,
		"count":    len(messages),
	})
}
