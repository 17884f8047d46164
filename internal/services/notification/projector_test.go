package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skillswap-app/skillswap-api/internal/models"
)

func TestSwapRequestNotification(t *testing.T) {
	title, message := SwapRequestNotification("Ana", "guitar", "spanish")

	assert.Equal(t, "New Swap Request from Ana", title)
	assert.Equal(t, "Ana wants to swap 'guitar' for 'spanish'", message)
}

func TestSwapResponseNotificationAccepted(t *testing.T) {
	ntype, title, message := SwapResponseNotification("Boris", models.SwapStatusAccepted)

	assert.Equal(t, models.NotificationSwapAccepted, ntype)
	assert.Equal(t, "Swap Request Accepted", title)
	assert.Equal(t, "Boris has accepted your swap request", message)
}

func TestSwapResponseNotificationRejected(t *testing.T) {
	ntype, title, message := SwapResponseNotification("Boris", models.SwapStatusRejected)

	assert.Equal(t, models.NotificationSwapRejected, ntype)
	assert.Equal(t, "Swap Request Rejected", title)
	assert.Equal(t, "Boris has rejected your swap request", message)
}

func TestPlatformMessageNotification(t *testing.T) {
	title := PlatformMessageNotification("Admin")

	assert.Equal(t, "Platform Message from Admin", title)
}
