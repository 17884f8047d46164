package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUserDefaults(t *testing.T) {
	user := NormalizeUser(RawUser{ID: "u1", Name: "Ana"})

	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, []string{}, user.SkillsOffered)
	assert.Equal(t, []string{}, user.SkillsWanted)
	assert.True(t, user.IsPublic)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsBanned)
	assert.Equal(t, 0.0, user.AverageRating)
	assert.Equal(t, 0, user.TotalRatings)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestNormalizeUserKeepsExplicitValues(t *testing.T) {
	isPublic := false
	isBanned := true
	rating := 4.5
	total := 12
	email := "ana@example.com"
	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	user := NormalizeUser(RawUser{
		ID:            "u1",
		Name:          "Ana",
		Email:         &email,
		SkillsOffered: []string{"guitar"},
		IsPublic:      &isPublic,
		IsBanned:      &isBanned,
		AverageRating: &rating,
		TotalRatings:  &total,
		CreatedAt:     &createdAt,
	})

	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, []string{"guitar"}, user.SkillsOffered)
	assert.False(t, user.IsPublic)
	assert.True(t, user.IsBanned)
	assert.Equal(t, 4.5, user.AverageRating)
	assert.Equal(t, 12, user.TotalRatings)
	assert.Equal(t, createdAt, user.CreatedAt)
}

func TestNormalizeUserDegradesMalformedValues(t *testing.T) {
	negativeRating := -1.0
	negativeTotal := -5
	var zeroTime time.Time

	user := NormalizeUser(RawUser{
		ID:            "u1",
		AverageRating: &negativeRating,
		TotalRatings:  &negativeTotal,
		CreatedAt:     &zeroTime,
	})

	assert.Equal(t, 0.0, user.AverageRating)
	assert.Equal(t, 0, user.TotalRatings)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestRemoveSkill(t *testing.T) {
	skills := []string{"Guitar", "Singing", "Spanish"}

	// Без учета регистра; исходный список не меняется
	result, removed := RemoveSkill(skills, "guitar")
	assert.True(t, removed)
	assert.Equal(t, []string{"Singing", "Spanish"}, result)
	assert.Equal(t, []string{"Guitar", "Singing", "Spanish"}, skills)

	result, removed = RemoveSkill(skills, "piano")
	assert.False(t, removed)
	assert.Equal(t, skills, result)

	result, removed = RemoveSkill([]string{}, "guitar")
	assert.False(t, removed)
	assert.Empty(t, result)
}

// Нормализация идемпотентна: повторный проход по уже нормализованной
// записи ничего не меняет
func TestNormalizeUserIdempotent(t *testing.T) {
	first := NormalizeUser(RawUser{ID: "u1", Name: "Ana"})

	second := NormalizeUser(RawUser{
		ID:            first.ID,
		Name:          first.Name,
		SkillsOffered: first.SkillsOffered,
		SkillsWanted:  first.SkillsWanted,
		IsPublic:      &first.IsPublic,
		IsActive:      &first.IsActive,
		IsBanned:      &first.IsBanned,
		AverageRating: &first.AverageRating,
		TotalRatings:  &first.TotalRatings,
		CreatedAt:     &first.CreatedAt,
	})

	assert.Equal(t, first, second)
}
