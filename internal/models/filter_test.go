package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCatalog() []User {
	return []User{
		{
			ID:            "u1",
			Name:          "Ana",
			Location:      "Lima",
			SkillsOffered: []string{"guitar"},
			SkillsWanted:  []string{"spanish"},
			AverageRating: 4.0,
		},
		{
			ID:            "u2",
			Name:          "Boris",
			Location:      "Berlin",
			SkillsOffered: []string{"piano"},
			SkillsWanted:  []string{"german"},
			AverageRating: 3.9,
		},
	}
}

func TestFreeTextQuery(t *testing.T) {
	users := testCatalog()

	for _, query := range []string{"guit", "lima", "ana", "ANA", "SPAN"} {
		matched := FilterUsers(users, UserFilter{Query: query})
		assert.Len(t, matched, 1, "запрос %q", query)
		assert.Equal(t, "u1", matched[0].ID)
	}

	assert.Empty(t, FilterUsers(users, UserFilter{Query: "piano", Location: "Lima"}))
	matched := FilterUsers(users, UserFilter{Query: "piano"})
	assert.Len(t, matched, 1)
	assert.Equal(t, "u2", matched[0].ID)
}

func TestRatingFilterInclusiveBoundary(t *testing.T) {
	users := testCatalog()

	// Порог включительный: 4.0 проходит, 3.9 — нет
	matched := FilterUsers(users, UserFilter{MinRating: "4"})
	assert.Len(t, matched, 1)
	assert.Equal(t, "u1", matched[0].ID)
}

func TestRatingFilterAnySentinel(t *testing.T) {
	users := testCatalog()

	assert.Len(t, FilterUsers(users, UserFilter{MinRating: RatingAny}), 2)
	assert.Len(t, FilterUsers(users, UserFilter{MinRating: ""}), 2)
	// Мусорное значение не ограничивает выборку
	assert.Len(t, FilterUsers(users, UserFilter{MinRating: "high"}), 2)
}

func TestIndependentFiltersAreANDed(t *testing.T) {
	users := testCatalog()

	matched := FilterUsers(users, UserFilter{
		Query:        "a",
		Location:     "lim",
		SkillOffered: "guit",
		SkillWanted:  "span",
		MinRating:    "4",
	})
	assert.Len(t, matched, 1)
	assert.Equal(t, "u1", matched[0].ID)

	// Один непроходящий фильтр отсекает пользователя
	matched = FilterUsers(users, UserFilter{Location: "lim", SkillOffered: "piano"})
	assert.Empty(t, matched)
}

func TestActiveCount(t *testing.T) {
	assert.Equal(t, 0, UserFilter{}.ActiveCount())
	assert.Equal(t, 0, UserFilter{MinRating: RatingAny}.ActiveCount())
	assert.Equal(t, 1, UserFilter{Query: "guitar"}.ActiveCount())
	assert.Equal(t, 2, UserFilter{Query: "guitar", MinRating: "4"}.ActiveCount())
	assert.Equal(t, 5, UserFilter{
		Query:        "a",
		Location:     "lima",
		MinRating:    "3",
		SkillOffered: "guitar",
		SkillWanted:  "spanish",
	}.ActiveCount())
	// Пробельные значения не считаются установленными
	assert.Equal(t, 0, UserFilter{Query: "  ", Location: " "}.ActiveCount())
}
