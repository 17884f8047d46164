package admin

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/skillswap-app/skillswap-api/internal/db"
	"github.com/skillswap-app/skillswap-api/internal/models"
)

// UsersReport строит CSV-отчёт по пользователям
func UsersReport(users []models.User) ([]byte, error) {
	records := [][]string{
		{"id", "name", "email", "location", "skills_offered", "skills_wanted",
			"is_public", "is_banned", "average_rating", "total_ratings", "created_at"},
	}
	for _, u := range users {
		records = append(records, []string{
			u.ID,
			u.Name,
			u.Email,
			u.Location,
			strings.Join(u.SkillsOffered, "; "),
			strings.Join(u.SkillsWanted, "; "),
			fmt.Sprintf("%t", u.IsPublic),
			fmt.Sprintf("%t", u.IsBanned),
			fmt.Sprintf("%.1f", u.AverageRating),
			fmt.Sprintf("%d", u.TotalRatings),
			u.CreatedAt.Format(time.RFC3339),
		})
	}
	return writeCSV(records)
}

// SwapsReport строит CSV-отчёт по предложениям обмена
func SwapsReport(swaps []models.SwapRequest) ([]byte, error) {
	records := [][]string{
		{"id", "from_user", "to_user", "skill_offered", "skill_wanted",
			"status", "closed_count", "created_at", "updated_at"},
	}
	for _, s := range swaps {
		records = append(records, []string{
			s.ID.String(),
			s.FromUserName,
			s.ToUserName,
			s.SkillOffered,
			s.SkillWanted,
			string(s.Status),
			fmt.Sprintf("%d", s.ClosedCount),
			s.CreatedAt.Format(time.RFC3339),
			s.UpdatedAt.Format(time.RFC3339),
		})
	}
	return writeCSV(records)
}

func writeCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("ошибка записи CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportUsersReport отдаёт CSV-отчёт по пользователям
func (s *AdminService) ExportUsersReport(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	users, err := db.ListAllUsers(ctx)
	if err != nil {
		log.Printf("Ошибка запроса пользователей для отчёта: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка формирования отчёта"})
	}

	report, err := UsersReport(users)
	if err != nil {
		log.Printf("Ошибка формирования отчёта по пользователям: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка формирования отчёта"})
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", `attachment; filename="users.csv"`)
	return c.Send(report)
}

// ExportSwapsReport отдаёт CSV-отчёт по обменам
func (s *AdminService) ExportSwapsReport(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	swaps, err := listAllSwaps(ctx)
	if err != nil {
		log.Printf("Ошибка запроса обменов для отчёта: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка формирования отчёта"})
	}

	report, err := SwapsReport(swaps)
	if err != nil {
		log.Printf("Ошибка формирования отчёта по обменам: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка формирования отчёта"})
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", `attachment; filename="swaps.csv"`)
	return c.Send(report)
}
