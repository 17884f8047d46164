package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/skillswap-app/skillswap-api/internal/models"
)

// ErrUserNotFound возвращается, когда пользователь отсутствует в базе
var ErrUserNotFound = pgx.ErrNoRows

const userColumns = `
	u.id, u.name, u.email, u.phone_number, u.location, u.profile_picture,
	u.skills_offered, u.skills_wanted, u.availability,
	u.is_public, u.is_active, u.is_banned, u.created_at
`

// SyncUser создаёт пользователя при первом входе через провайдер
// идентичности или обновляет имя/email/аватар существующего
func SyncUser(ctx context.Context, id, name, email, avatarURL string) (*models.User, error) {
	row := Pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, profile_picture)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name            = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
			email           = COALESCE(NULLIF(EXCLUDED.email, ''), users.email),
			profile_picture = COALESCE(NULLIF(EXCLUDED.profile_picture, ''), users.profile_picture),
			updated_at      = NOW()
		RETURNING id, name, email, phone_number, location, profile_picture,
		          skills_offered, skills_wanted, availability,
		          is_public, is_active, is_banned, created_at
	`, id, name, email, avatarURL)

	return scanUser(row)
}

// GetUserByID возвращает пользователя по идентификатору
func GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users u
		WHERE u.id = $1
	`, id)

	return scanUser(row)
}

// UpdateProfile обновляет профиль пользователя. Частичное обновление:
// nil-поля входной записи оставляют колонку нетронутой.
func UpdateProfile(ctx context.Context, id string, raw models.RawUser) (*models.User, error) {
	skillsOffered, err := marshalSkills(raw.SkillsOffered)
	if err != nil {
		return nil, err
	}
	skillsWanted, err := marshalSkills(raw.SkillsWanted)
	if err != nil {
		return nil, err
	}

	row := Pool.QueryRow(ctx, `
		UPDATE users SET
			name            = COALESCE($2, name),
			email           = COALESCE($3, email),
			phone_number    = COALESCE($4, phone_number),
			location        = COALESCE($5, location),
			profile_picture = COALESCE($6, profile_picture),
			availability    = COALESCE($7, availability),
			skills_offered  = COALESCE($8, skills_offered),
			skills_wanted   = COALESCE($9, skills_wanted),
			is_public       = COALESCE($10, is_public),
			updated_at      = NOW()
		WHERE id = $1
		RETURNING id, name, email, phone_number, location, profile_picture,
		          skills_offered, skills_wanted, availability,
		          is_public, is_active, is_banned, created_at
	`, id, nilIfEmptyName(raw.Name), raw.Email, raw.PhoneNumber, raw.Location,
		raw.ProfilePicture, raw.Availability, skillsOffered, skillsWanted, raw.IsPublic)

	return scanUser(row)
}

// SetProfilePicture записывает URL нового аватара и возвращает прежний
func SetProfilePicture(ctx context.Context, id, pictureURL string) (string, error) {
	var previous *string
	err := Pool.QueryRow(ctx, `
		UPDATE users SET profile_picture = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING (SELECT profile_picture FROM users WHERE id = $1)
	`, id, pictureURL).Scan(&previous)
	if err != nil {
		return "", err
	}
	if previous == nil {
		return "", nil
	}
	return *previous, nil
}

// ListPublicUsers возвращает публичных активных пользователей с рейтингами
func ListPublicUsers(ctx context.Context, excludeID string) ([]models.User, error) {
	rows, err := Pool.Query(ctx, `
		SELECT `+userColumns+`,
		       COALESCE(ROUND(AVG(f.rating)::numeric, 1), 0)::float8 AS average_rating,
		       COUNT(f.id)::int AS total_ratings
		FROM users u
		LEFT JOIN feedback f ON f.to_user_id = u.id
		WHERE u.is_public = true AND u.is_active = true AND u.is_banned = false
		  AND ($1 = '' OR u.id <> $1)
		GROUP BY u.id
		ORDER BY u.created_at DESC
	`, excludeID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса пользователей: %w", err)
	}
	defer rows.Close()

	return collectUsersWithRatings(rows)
}

// ListAllUsers возвращает всех пользователей, включая забаненных (админка)
func ListAllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := Pool.Query(ctx, `
		SELECT `+userColumns+`,
		       COALESCE(ROUND(AVG(f.rating)::numeric, 1), 0)::float8 AS average_rating,
		       COUNT(f.id)::int AS total_ratings
		FROM users u
		LEFT JOIN feedback f ON f.to_user_id = u.id
		GROUP BY u.id
		ORDER BY u.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса пользователей: %w", err)
	}
	defer rows.Close()

	return collectUsersWithRatings(rows)
}

// IsUserBanned проверяет флаг бана пользователя. Ещё не синхронизированный
// пользователь не считается забаненным: первый вход создаёт запись.
func IsUserBanned(ctx context.Context, id string) (bool, error) {
	var banned bool
	err := Pool.QueryRow(ctx, `SELECT is_banned FROM users WHERE id = $1`, id).Scan(&banned)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return banned, nil
}

// RejectSkill удаляет навык из обоих списков пользователя (модерация).
// Возвращает обновлённого пользователя и признак того, что навык был найден.
func RejectSkill(ctx context.Context, id, skill string) (*models.User, bool, error) {
	user, err := GetUserByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	offered, removedOffered := models.RemoveSkill(user.SkillsOffered, skill)
	wanted, removedWanted := models.RemoveSkill(user.SkillsWanted, skill)
	if !removedOffered && !removedWanted {
		return user, false, nil
	}

	offeredJSON, err := json.Marshal(offered)
	if err != nil {
		return nil, false, fmt.Errorf("ошибка сериализации навыков: %w", err)
	}
	wantedJSON, err := json.Marshal(wanted)
	if err != nil {
		return nil, false, fmt.Errorf("ошибка сериализации навыков: %w", err)
	}

	row := Pool.QueryRow(ctx, `
		UPDATE users SET skills_offered = $2, skills_wanted = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, email, phone_number, location, profile_picture,
		          skills_offered, skills_wanted, availability,
		          is_public, is_active, is_banned, created_at
	`, id, offeredJSON, wantedJSON)

	updated, err := scanUser(row)
	if err != nil {
		return nil, false, err
	}
	return updated, true, nil
}

// ToggleBan переключает флаг бана и возвращает обновлённого пользователя.
// Пользователь не удаляется: бан — мягкая деактивация.
func ToggleBan(ctx context.Context, id string) (*models.User, error) {
	row := Pool.QueryRow(ctx, `
		UPDATE users SET is_banned = NOT is_banned, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, email, phone_number, location, profile_picture,
		          skills_offered, skills_wanted, availability,
		          is_public, is_active, is_banned, created_at
	`, id)

	return scanUser(row)
}

// scanUser читает строку пользователя; nullable-колонки идут через
// указатели и приводятся к дефолтам нормализатором
func scanUser(row pgx.Row) (*models.User, error) {
	raw, skillsOffered, skillsWanted, err := scanRawUser(row, false)
	if err != nil {
		return nil, err
	}

	user := normalizeScanned(*raw, skillsOffered, skillsWanted)
	return &user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanRawUser заполняет RawUser из строки запроса. JSONB-навыки
// возвращаются сырыми байтами и разбираются отдельно.
func scanRawUser(row rowScanner, withRatings bool) (*models.RawUser, []byte, []byte, error) {
	var raw models.RawUser
	var skillsOffered, skillsWanted []byte
	var createdAt *time.Time

	dest := []any{
		&raw.ID, &raw.Name, &raw.Email, &raw.PhoneNumber, &raw.Location,
		&raw.ProfilePicture, &skillsOffered, &skillsWanted, &raw.Availability,
		&raw.IsPublic, &raw.IsActive, &raw.IsBanned, &createdAt,
	}
	if withRatings {
		dest = append(dest, &raw.AverageRating, &raw.TotalRatings)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, nil, nil, err
	}

	raw.CreatedAt = createdAt
	return &raw, skillsOffered, skillsWanted, nil
}

func collectUsersWithRatings(rows pgx.Rows) ([]models.User, error) {
	users := []models.User{}
	for rows.Next() {
		raw, skillsOffered, skillsWanted, err := scanRawUser(rows, true)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		users = append(users, normalizeScanned(*raw, skillsOffered, skillsWanted))
	}
	return users, rows.Err()
}

func normalizeScanned(raw models.RawUser, skillsOffered, skillsWanted []byte) models.User {
	// Некорректный JSONB деградирует к пустому списку, запись не теряется
	if len(skillsOffered) > 0 {
		if err := json.Unmarshal(skillsOffered, &raw.SkillsOffered); err != nil {
			raw.SkillsOffered = nil
		}
	}
	if len(skillsWanted) > 0 {
		if err := json.Unmarshal(skillsWanted, &raw.SkillsWanted); err != nil {
			raw.SkillsWanted = nil
		}
	}
	return models.NormalizeUser(raw)
}

func marshalSkills(skills []string) (*[]byte, error) {
	if skills == nil {
		return nil, nil
	}
	data, err := json.Marshal(skills)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации навыков: %w", err)
	}
	return &data, nil
}

func nilIfEmptyName(name string) *string {
	if name == "" {
		return nil
	}
	return &name
}
