package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/skillswap-app/skillswap-api/internal/db"
	"github.com/skillswap-app/skillswap-api/internal/models"
)

// Шаблоны уведомлений жизненного цикла обмена. Текст согласован с клиентом,
// менять формулировки без синхронизации с фронтендом нельзя.

// SwapRequestNotification строит заголовок и текст уведомления о новом предложении
func SwapRequestNotification(fromUserName, skillOffered, skillWanted string) (title, message string) {
	title = fmt.Sprintf("New Swap Request from %s", fromUserName)
	message = fmt.Sprintf("%s wants to swap '%s' for '%s'", fromUserName, skillOffered, skillWanted)
	return title, message
}

// SwapResponseNotification строит уведомление об ответе на предложение
func SwapResponseNotification(responderName string, status models.SwapStatus) (ntype, title, message string) {
	switch status {
	case models.SwapStatusAccepted:
		ntype = models.NotificationSwapAccepted
		title = "Swap Request Accepted"
		message = fmt.Sprintf("%s has accepted your swap request", responderName)
	default:
		ntype = models.NotificationSwapRejected
		title = "Swap Request Rejected"
		message = fmt.Sprintf("%s has rejected your swap request", responderName)
	}
	return ntype, title, message
}

// PlatformMessageNotification строит заголовок уведомления о сообщении
// платформы; текстом уведомления служит само сообщение
func PlatformMessageNotification(adminName string) (title string) {
	return fmt.Sprintf("Platform Message from %s", adminName)
}

// Create сохраняет уведомление для пользователя
func Create(ctx context.Context, userID, ntype, title, message, relatedID string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, related_id, is_read)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), false)
	`, uuid.New(), userID, ntype, title, message, relatedID)
	if err != nil {
		return fmt.Errorf("ошибка создания уведомления: %w", err)
	}
	return nil
}

// NotifySwapRequest уведомляет получателя о новом предложении обмена
func NotifySwapRequest(ctx context.Context, toUserID, fromUserName, skillOffered, skillWanted, swapID string) error {
	title, message := SwapRequestNotification(fromUserName, skillOffered, skillWanted)
	return Create(ctx, toUserID, models.NotificationSwapRequest, title, message, swapID)
}

// NotifySwapResponse уведомляет отправителя о принятии или отклонении
func NotifySwapResponse(ctx context.Context, toUserID, responderName string, status models.SwapStatus, swapID string) error {
	ntype, title, message := SwapResponseNotification(responderName, status)
	return Create(ctx, toUserID, ntype, title, message, swapID)
}

// BroadcastPlatformMessage сохраняет широковещательное сообщение и
// раздаёт уведомления всем активным пользователям, кроме самого админа
func BroadcastPlatformMessage(ctx context.Context, adminID, adminName, message string) (*models.PlatformMessage, error) {
	platformMessage := models.PlatformMessage{
		ID:        uuid.New(),
		Message:   message,
		AdminID:   adminID,
		AdminName: adminName,
	}

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO platform_messages (id, message, admin_id, admin_name)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, platformMessage.ID, platformMessage.Message, platformMessage.AdminID, platformMessage.AdminName).
		Scan(&platformMessage.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения сообщения платформы: %w", err)
	}

	title := PlatformMessageNotification(adminName)
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, is_read)
		SELECT gen_random_uuid(), u.id, $1, $2, $3, false
		FROM users u
		WHERE u.is_active = true AND u.is_banned = false AND u.id <> $4
	`, models.NotificationPlatformMessage, title, message, adminID)
	if err != nil {
		return nil, fmt.Errorf("ошибка раздачи уведомлений: %w", err)
	}

	return &platformMessage, nil
}
