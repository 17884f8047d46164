package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config структура конфигурации
type Config struct {
	JWTSecret        string
	ClerkPublicKey   string // PEM-ключ для проверки RS256 токенов Clerk
	AdminEmail       string // email администратора; UI-гейт, не граница безопасности
	DatabaseURL      string
	DatabaseConfig   DatabaseConfig
	CloudinaryConfig CloudinaryConfig
	AppEnv           string
}

// DatabaseConfig содержит конфигурацию базы данных
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// CloudinaryConfig содержит конфигурацию для Cloudinary
type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadFolder string
	UploadPreset string
}

// LoadConfig загружает переменные из .env
func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️ .env файл не найден, используем переменные окружения")
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("PGHOST", "localhost"),
		Port:     getEnv("PGPORT", "5432"),
		User:     getEnv("PGUSER", "skillswap_user"),
		Password: getEnv("PGPASSWORD", "skillswap_pass"),
		Name:     getEnv("PGDATABASE", "skillswap"),
		SSLMode:  getEnv("PGSSLMODE", "disable"),
	}

	// Формируем строку подключения к базе данных
	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name, dbConfig.SSLMode)

	cloudinaryConfig := CloudinaryConfig{
		CloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:       getEnv("CLOUDINARY_API_KEY", ""),
		APISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
		UploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "skillswap/avatars"),
		UploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", "skillswap_avatars"),
	}

	cfg := &Config{
		JWTSecret:        getEnv("JWT_SECRET", ""),
		ClerkPublicKey:   getEnv("CLERK_PEM_PUBLIC_KEY", ""),
		AdminEmail:       getEnv("ADMIN_EMAIL", ""),
		DatabaseURL:      dbURL,
		DatabaseConfig:   dbConfig,
		CloudinaryConfig: cloudinaryConfig,
		AppEnv:           getEnv("APP_ENV", "production"),
	}

	// В production токены подписаны Clerk (RS256), в dev допускаем HS256 с JWT_SECRET
	if cfg.AppEnv == "production" && cfg.ClerkPublicKey == "" {
		log.Fatal("❌ Ошибка: Не задан CLERK_PEM_PUBLIC_KEY")
	}
	if cfg.ClerkPublicKey == "" && cfg.JWTSecret == "" {
		log.Fatal("❌ Ошибка: Не заданы обязательные переменные окружения")
	}

	return cfg
}

// getEnv получает переменную окружения или использует дефолтное значение
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
