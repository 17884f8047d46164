package cloudinary

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v3"

	"github.com/skillswap-app/skillswap-api/internal/config"
	"github.com/skillswap-app/skillswap-api/internal/db"
	"github.com/skillswap-app/skillswap-api/internal/utils"
)

// CloudinaryService предоставляет методы для загрузки аватаров
type CloudinaryService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	client     *cld.Cloudinary
}

// NewCloudinaryService создает новый экземпляр CloudinaryService
func NewCloudinaryService(cfg *config.Config, jwtService *utils.JWTService) (*CloudinaryService, error) {
	client, err := cld.NewFromParams(
		cfg.CloudinaryConfig.CloudName,
		cfg.CloudinaryConfig.APIKey,
		cfg.CloudinaryConfig.APISecret,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации Cloudinary: %w", err)
	}

	return &CloudinaryService{
		cfg:        cfg,
		jwtService: jwtService,
		client:     client,
	}, nil
}

// GenerateSignature создаёт подпись запроса для Cloudinary
func (s *CloudinaryService) GenerateSignature(params map[string]string) string {
	// Сортируем ключи параметров
	var keys []string
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Формируем строку для подписи
	var signParts []string
	for _, k := range keys {
		signParts = append(signParts, fmt.Sprintf("%s=%s", k, params[k]))
	}
	signatureString := strings.Join(signParts, "&")

	// Добавляем API-секрет в конец строки
	signatureString += s.cfg.CloudinaryConfig.APISecret

	// Создаем SHA-1 хеш
	h := sha1.New()
	h.Write([]byte(signatureString))

	return hex.EncodeToString(h.Sum(nil))
}

// GenerateAvatarUploadParams создаёт подписанные параметры для загрузки
// аватара напрямую с клиента
func (s *CloudinaryService) GenerateAvatarUploadParams(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	// Текущий timestamp
	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	folder := fmt.Sprintf("%s/%s", s.cfg.CloudinaryConfig.UploadFolder, userID)

	// Параметры для подписи
	params := map[string]string{
		"timestamp": timestamp,
		"folder":    folder,
	}

	signature := s.GenerateSignature(params)

	return c.JSON(fiber.Map{
		"timestamp":  timestamp,
		"signature":  signature,
		"api_key":    s.cfg.CloudinaryConfig.APIKey,
		"cloud_name": s.cfg.CloudinaryConfig.CloudName,
		"folder":     folder,
	})
}

// ReplaceAvatar записывает URL нового аватара в профиль и удаляет
// прежний ресурс из Cloudinary
func (s *CloudinaryService) ReplaceAvatar(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не авторизован"})
	}

	var requestData struct {
		URL         string `json:"url"`
		OldPublicID string `json:"old_public_id"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "URL аватара не указан"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	if _, err := db.SetProfilePicture(ctx, userID, requestData.URL); err != nil {
		log.Printf("Ошибка обновления аватара для %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления аватара"})
	}

	// Старый ресурс чистим после успешного обновления профиля
	if requestData.OldPublicID != "" {
		_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: requestData.OldPublicID})
		if err != nil {
			log.Printf("Ошибка удаления старого аватара %s: %v", requestData.OldPublicID, err)
			// Не возвращаем ошибку, т.к. основная функциональность выполнена
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"url":     requestData.URL,
	})
}
