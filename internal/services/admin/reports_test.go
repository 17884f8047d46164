package admin

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-app/skillswap-api/internal/models"
)

func TestUsersReport(t *testing.T) {
	created := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	users := []models.User{
		{
			ID:            "user-a",
			Name:          "Ana, \"the guitarist\"",
			Email:         "ana@example.com",
			Location:      "Lima",
			SkillsOffered: []string{"guitar", "singing"},
			SkillsWanted:  []string{"spanish"},
			IsPublic:      true,
			AverageRating: 4.25,
			TotalRatings:  8,
			CreatedAt:     created,
		},
		{
			ID:        "user-b",
			Name:      "Boris",
			IsBanned:  true,
			CreatedAt: created,
		},
	}

	report, err := UsersReport(users)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(report)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"id", "name", "email", "location", "skills_offered", "skills_wanted",
		"is_public", "is_banned", "average_rating", "total_ratings", "created_at"}, records[0])

	// Запятые и кавычки в имени переживают цикл запись/чтение
	assert.Equal(t, "Ana, \"the guitarist\"", records[1][1])
	assert.Equal(t, "guitar; singing", records[1][4])
	assert.Equal(t, "4.2", records[1][8])
	assert.Equal(t, "8", records[1][9])
	assert.Equal(t, "2025-03-14T12:00:00Z", records[1][10])

	assert.Equal(t, "true", records[2][7])
	assert.Equal(t, "false", records[2][6])
}

func TestSwapsReport(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	swaps := []models.SwapRequest{
		{
			ID:           uuid.New(),
			FromUserName: "Ana",
			ToUserName:   "Boris",
			SkillOffered: "guitar",
			SkillWanted:  "spanish",
			Status:       models.SwapStatusClosed,
			ClosedCount:  2,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}

	report, err := SwapsReport(swaps)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(report)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"id", "from_user", "to_user", "skill_offered", "skill_wanted",
		"status", "closed_count", "created_at", "updated_at"}, records[0])
	assert.Equal(t, swaps[0].ID.String(), records[1][0])
	assert.Equal(t, "closed", records[1][5])
	assert.Equal(t, "2", records[1][6])
}

func TestReportsEmpty(t *testing.T) {
	report, err := UsersReport(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(report)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1) // только заголовок
}
