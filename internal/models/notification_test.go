package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnreadCountUpdatesLocally(t *testing.T) {
	notifications := []Notification{
		{ID: uuid.New(), IsRead: false},
		{ID: uuid.New(), IsRead: false},
		{ID: uuid.New(), IsRead: true},
	}

	assert.Equal(t, 2, UnreadCount(notifications))

	// Локальная отметка о прочтении сразу уменьшает счётчик,
	// без перезагрузки списка
	notifications[0].IsRead = true
	assert.Equal(t, 1, UnreadCount(notifications))

	// Локальное удаление тоже
	notifications = notifications[1:]
	assert.Equal(t, 1, UnreadCount(notifications))
}

func TestNotificationActionable(t *testing.T) {
	swap, err := NewSwapRequest("user-a", "user-b", "Ana", "Boris", "guitar", "spanish", "")
	require.NoError(t, err)

	n := Notification{
		Type:      NotificationSwapRequest,
		RelatedID: swap.ID.String(),
	}
	assert.True(t, n.Actionable(swap))

	// Без ссылки на предложение действия не предлагаются
	assert.False(t, Notification{Type: NotificationSwapRequest}.Actionable(swap))

	// Чужой или отсутствующий swap — не actionable
	assert.False(t, n.Actionable(nil))
	other, err := NewSwapRequest("user-c", "user-d", "C", "D", "piano", "french", "")
	require.NoError(t, err)
	assert.False(t, n.Actionable(other))

	// После ответа предложение больше не в ожидании
	require.NoError(t, swap.Respond("user-b", SwapStatusAccepted))
	assert.False(t, n.Actionable(swap))

	// Другие типы уведомлений не дают действий
	accepted := Notification{Type: NotificationSwapAccepted, RelatedID: swap.ID.String()}
	assert.False(t, accepted.Actionable(swap))
}
