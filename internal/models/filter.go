package models

import (
	"strconv"
	"strings"
)

// RatingAny — сентинел "любой рейтинг", в отличие от числового порога
const RatingAny = "any"

// UserFilter описывает независимые фильтры каталога пользователей.
// Все непустые измерения объединяются по И.
type UserFilter struct {
	Query        string `json:"query"`
	Location     string `json:"location"`
	MinRating    string `json:"min_rating"` // "any" или числовой порог (включительно)
	SkillOffered string `json:"skill_offered"`
	SkillWanted  string `json:"skill_wanted"`
}

// Matches проверяет, проходит ли пользователь все заданные фильтры
func (f UserFilter) Matches(u User) bool {
	if f.Query != "" && !matchesQuery(u, f.Query) {
		return false
	}
	if f.Location != "" && !containsFold(u.Location, f.Location) {
		return false
	}
	if f.SkillOffered != "" && !anyContainsFold(u.SkillsOffered, f.SkillOffered) {
		return false
	}
	if f.SkillWanted != "" && !anyContainsFold(u.SkillsWanted, f.SkillWanted) {
		return false
	}
	if threshold, ok := f.ratingThreshold(); ok && u.AverageRating < threshold {
		return false
	}
	return true
}

// ActiveCount возвращает число установленных фильтров (для бейджа в UI)
func (f UserFilter) ActiveCount() int {
	count := 0
	if strings.TrimSpace(f.Query) != "" {
		count++
	}
	if strings.TrimSpace(f.Location) != "" {
		count++
	}
	if _, ok := f.ratingThreshold(); ok {
		count++
	}
	if strings.TrimSpace(f.SkillOffered) != "" {
		count++
	}
	if strings.TrimSpace(f.SkillWanted) != "" {
		count++
	}
	return count
}

// FilterUsers применяет фильтр к списку пользователей
func FilterUsers(users []User, f UserFilter) []User {
	result := make([]User, 0, len(users))
	for _, u := range users {
		if f.Matches(u) {
			result = append(result, u)
		}
	}
	return result
}

// ratingThreshold разбирает порог рейтинга; "any", пустое или
// некорректное значение означает отсутствие ограничения
func (f UserFilter) ratingThreshold() (float64, bool) {
	value := strings.TrimSpace(f.MinRating)
	if value == "" || value == RatingAny {
		return 0, false
	}
	threshold, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return threshold, true
}

// matchesQuery — свободный текстовый поиск: подстрока без учета регистра
// по имени, локации и каждому из навыков
func matchesQuery(u User, query string) bool {
	if containsFold(u.Name, query) || containsFold(u.Location, query) {
		return true
	}
	return anyContainsFold(u.SkillsOffered, query) || anyContainsFold(u.SkillsWanted, query)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func anyContainsFold(values []string, substr string) bool {
	for _, v := range values {
		if containsFold(v, substr) {
			return true
		}
	}
	return false
}
