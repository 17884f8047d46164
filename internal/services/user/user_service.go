package user

import (
	"errors"
	"log"
	"math"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/skillswap-app/skillswap-api/internal/config"
	"github.com/skillswap-app/skillswap-api/internal/contact"
	"github.com/skillswap-app/skillswap-api/internal/db"
	"github.com/skillswap-app/skillswap-api/internal/models"
	"github.com/skillswap-app/skillswap-api/internal/utils"
)

// UserService представляет сервис для работы с профилями и каталогом
type UserService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewUserService создает новый экземпляр UserService
func NewUserService(cfg *config.Config, jwtService *utils.JWTService) *UserService {
	return &UserService{
		cfg:        cfg,
		jwtService: jwtService,
	}
}

// SyncFromClerk создает или обновляет пользователя по данным сессии
func (s *UserService) SyncFromClerk(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	email, _ := c.Locals("userEmail").(string)
	name, _ := c.Locals("userName").(string)
	avatar, _ := c.Locals("userAvatar").(string)

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := db.SyncUser(ctx, userID, name, email, avatar)
	if err != nil {
		log.Printf("Ошибка синхронизации пользователя %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка синхронизации профиля"})
	}

	return c.JSON(user)
}

// GetProfile возвращает профиль текущего пользователя
func (s *UserService) GetProfile(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := db.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		}
		log.Printf("Ошибка запроса профиля %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения профиля"})
	}

	return c.JSON(user)
}

// UpdateProfile частично обновляет профиль текущего пользователя
func (s *UserService) UpdateProfile(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	var raw models.RawUser
	if err := c.Bind().Body(&raw); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := db.UpdateProfile(ctx, userID, raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		}
		log.Printf("Ошибка обновления профиля %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления профиля"})
	}

	return c.JSON(user)
}

// SearchUsers возвращает каталог публичных пользователей с фильтрами.
// Поддерживаются: skill (совместимость со старым клиентом), q, location,
// min_rating, skill_offered, skill_wanted. Фильтры объединяются по И.
func (s *UserService) SearchUsers(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	users, err := db.ListPublicUsers(ctx, "")
	if err != nil {
		log.Printf("Ошибка запроса каталога пользователей: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения пользователей"})
	}

	filter := models.UserFilter{
		Query:        c.Query("q"),
		Location:     c.Query("location"),
		MinRating:    c.Query("min_rating", models.RatingAny),
		SkillOffered: c.Query("skill_offered"),
		SkillWanted:  c.Query("skill_wanted"),
	}

	results := models.FilterUsers(users, filter)

	// Старый параметр skill — поиск по обоим спискам навыков
	if skill := c.Query("skill"); skill != "" {
		offered := models.UserFilter{SkillOffered: skill}
		wanted := models.UserFilter{SkillWanted: skill}
		filtered := []models.User{}
		for _, u := range results {
			if offered.Matches(u) || wanted.Matches(u) {
				filtered = append(filtered, u)
			}
		}
		results = filtered
	}

	return c.JSON(fiber.Map{
		"users":               results,
		"count":               len(results),
		"active_filter_count": filter.ActiveCount(),
	})
}

// GetUserRatings возвращает агрегированный рейтинг пользователя и отзывы
func (s *UserService) GetUserRatings(c fiber.Ctx) error {
	targetID := c.Params("id")
	if targetID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID пользователя не указан"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, swap_request_id, from_user_id, to_user_id, rating, comment, created_at
		FROM feedback
		WHERE to_user_id = $1
		ORDER BY created_at DESC
	`, targetID)
	if err != nil {
		log.Printf("Ошибка запроса отзывов для %s: %v", targetID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения отзывов"})
	}
	defer rows.Close()

	feedback := []models.Feedback{}
	total := 0
	sum := 0
	for rows.Next() {
		var f models.Feedback
		var comment *string
		if err := rows.Scan(&f.ID, &f.SwapRequestID, &f.FromUserID, &f.ToUserID,
			&f.Rating, &comment, &f.CreatedAt); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		if comment != nil {
			f.Comment = *comment
		}
		feedback = append(feedback, f)
		sum += f.Rating
		total++
	}

	average := 0.0
	if total > 0 {
		// Округление до одного знака, как в каталоге
		average = math.Round(float64(sum)/float64(total)*10) / 10
	}

	return c.JSON(fiber.Map{
		"average_rating": average,
		"total_ratings":  total,
		"feedback":       feedback,
	})
}

// GetContact возвращает контактные ссылки второго участника обмена.
// Контакты доступны только после принятия обмена между сторонами.
func (s *UserService) GetContact(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	targetID := c.Params("id")
	if targetID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ID пользователя не указан"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Связующий обмен должен быть принят или закрыт
	var matched bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM swap_requests
			WHERE status IN ('accepted', 'closed')
			  AND ((from_user_id = $1 AND to_user_id = $2)
			    OR (from_user_id = $2 AND to_user_id = $1))
		)
	`, userID, targetID).Scan(&matched)
	if err != nil {
		log.Printf("Ошибка проверки обмена между %s и %s: %v", userID, targetID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки обмена"})
	}
	if !matched {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Контакты доступны только после принятия обмена"})
	}

	target, err := db.GetUserByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		}
		log.Printf("Ошибка запроса пользователя %s: %v", targetID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения пользователя"})
	}

	return c.JSON(contact.Resolve(target.Name, target.PhoneNumber, target.Email))
}
