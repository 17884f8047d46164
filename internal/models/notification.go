package models

import (
	"time"

	"github.com/google/uuid"
)

// Типы уведомлений
const (
	NotificationSwapRequest     = "swap_request"
	NotificationSwapAccepted    = "swap_accepted"
	NotificationSwapRejected    = "swap_rejected"
	NotificationPlatformMessage = "platform_message"
)

// Notification представляет уведомление, адресованное одному пользователю
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	RelatedID string    `json:"related_id,omitempty"` // ID предложения обмена для swap_* типов
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// PlatformMessage представляет широковещательное сообщение администратора
type PlatformMessage struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	AdminID   string    `json:"admin_id"`
	AdminName string    `json:"admin_name"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminAction представляет запись аудита модерационного действия
type AdminAction struct {
	ID        uuid.UUID `json:"id"`
	AdminID   string    `json:"admin_id"`
	Type      string    `json:"type"` // ban, unban, skill_rejection, platform_message
	TargetID  string    `json:"target_id,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UnreadCount возвращает число непрочитанных уведомлений.
// Считается по локальному списку: после отметки о прочтении или удаления
// счётчик обновляется без перезагрузки с сервера.
func UnreadCount(notifications []Notification) int {
	count := 0
	for _, n := range notifications {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// Actionable сообщает, можно ли предложить действия Принять/Отклонить
// прямо из уведомления: только для swap_request с живой ссылкой на
// предложение, которое всё ещё в ожидании.
func (n Notification) Actionable(swap *SwapRequest) bool {
	if n.Type != NotificationSwapRequest || n.RelatedID == "" {
		return false
	}
	return swap != nil && swap.ID.String() == n.RelatedID && swap.Status == SwapStatusPending
}
