package models

import (
	"strings"
	"time"
)

// User представляет пользователя маркетплейса навыков
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	PhoneNumber    string    `json:"phone_number,omitempty"`
	Location       string    `json:"location,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	SkillsOffered  []string  `json:"skills_offered"`
	SkillsWanted   []string  `json:"skills_wanted"`
	Availability   string    `json:"availability,omitempty"`
	IsPublic       bool      `json:"is_public"`
	IsActive       bool      `json:"is_active"`
	IsBanned       bool      `json:"is_banned"`
	AverageRating  float64   `json:"average_rating"`
	TotalRatings   int       `json:"total_ratings"`
	CreatedAt      time.Time `json:"created_at"`
}

// RawUser представляет запись пользователя во внешнем формате.
// Все опциональные поля — указатели: отсутствующее или null-значение
// отличимо от пустого.
type RawUser struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          *string    `json:"email"`
	PhoneNumber    *string    `json:"phone_number"`
	Location       *string    `json:"location"`
	ProfilePicture *string    `json:"profile_picture"`
	SkillsOffered  []string   `json:"skills_offered"`
	SkillsWanted   []string   `json:"skills_wanted"`
	Availability   *string    `json:"availability"`
	IsPublic       *bool      `json:"is_public"`
	IsActive       *bool      `json:"is_active"`
	IsBanned       *bool      `json:"is_banned"`
	AverageRating  *float64   `json:"average_rating"`
	TotalRatings   *int       `json:"total_ratings"`
	CreatedAt      *time.Time `json:"created_at"`
}

// RemoveSkill удаляет навык из списка без учета регистра.
// Возвращает новый список и признак того, что навык был найден.
func RemoveSkill(skills []string, skill string) ([]string, bool) {
	result := make([]string, 0, len(skills))
	removed := false
	for _, s := range skills {
		if strings.EqualFold(s, skill) {
			removed = true
			continue
		}
		result = append(result, s)
	}
	return result, removed
}

// NormalizeUser приводит внешнюю запись к доменной с дефолтами:
// is_public/is_active = true, is_banned = false, навыки = пустой список,
// рейтинг = 0. Никогда не падает: некорректные опциональные значения
// деградируют к дефолтам.
func NormalizeUser(raw RawUser) User {
	user := User{
		ID:            raw.ID,
		Name:          raw.Name,
		SkillsOffered: []string{},
		SkillsWanted:  []string{},
		IsPublic:      true,
		IsActive:      true,
		IsBanned:      false,
		CreatedAt:     time.Now(),
	}

	if raw.Email != nil {
		user.Email = *raw.Email
	}
	if raw.PhoneNumber != nil {
		user.PhoneNumber = *raw.PhoneNumber
	}
	if raw.Location != nil {
		user.Location = *raw.Location
	}
	if raw.ProfilePicture != nil {
		user.ProfilePicture = *raw.ProfilePicture
	}
	if raw.Availability != nil {
		user.Availability = *raw.Availability
	}
	if raw.SkillsOffered != nil {
		user.SkillsOffered = raw.SkillsOffered
	}
	if raw.SkillsWanted != nil {
		user.SkillsWanted = raw.SkillsWanted
	}
	if raw.IsPublic != nil {
		user.IsPublic = *raw.IsPublic
	}
	if raw.IsActive != nil {
		user.IsActive = *raw.IsActive
	}
	if raw.IsBanned != nil {
		user.IsBanned = *raw.IsBanned
	}
	if raw.AverageRating != nil && *raw.AverageRating >= 0 {
		user.AverageRating = *raw.AverageRating
	}
	if raw.TotalRatings != nil && *raw.TotalRatings >= 0 {
		user.TotalRatings = *raw.TotalRatings
	}
	if raw.CreatedAt != nil && !raw.CreatedAt.IsZero() {
		user.CreatedAt = *raw.CreatedAt
	}

	return user
}
