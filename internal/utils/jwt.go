package utils

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims — данные сессии, извлечённые из токена провайдера идентичности
type SessionClaims struct {
	UserID    string
	Email     string
	Name      string
	AvatarURL string
}

// JWTService отвечает за проверку сессионных токенов.
// Боевые токены подписаны Clerk (RS256), в dev-режиме допускаются
// HS256-токены, подписанные JWT_SECRET.
type JWTService struct {
	secretKey string
	publicKey *rsa.PublicKey
}

// NewJWTService создаёт новый экземпляр JWTService
func NewJWTService(secretKey, pemPublicKey string) (*JWTService, error) {
	s := &JWTService{secretKey: secretKey}

	if pemPublicKey != "" {
		publicKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemPublicKey))
		if err != nil {
			return nil, fmt.Errorf("ошибка при разборе PEM-ключа: %w", err)
		}
		s.publicKey = publicKey
	}

	return s, nil
}

// ParseToken проверяет подпись токена и извлекает данные сессии
func (s *JWTService) ParseToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodRSA:
			if s.publicKey == nil {
				return nil, errors.New("RS256 токены не настроены")
			}
			return s.publicKey, nil
		case *jwt.SigningMethodHMAC:
			if s.secretKey == "" {
				return nil, errors.New("HS256 токены не настроены")
			}
			return []byte(s.secretKey), nil
		}
		return nil, fmt.Errorf("неподдерживаемый метод подписи: %v", token.Header["alg"])
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("невалидный токен")
	}

	userID, _ := claims["sub"].(string)
	if userID == "" {
		return nil, errors.New("токен не содержит идентификатор пользователя")
	}

	session := &SessionClaims{UserID: userID}
	session.Email, _ = claims["email"].(string)
	session.AvatarURL, _ = claims["image_url"].(string)

	if name, ok := claims["name"].(string); ok && name != "" {
		session.Name = name
	} else {
		firstName, _ := claims["first_name"].(string)
		lastName, _ := claims["last_name"].(string)
		session.Name = strings.TrimSpace(firstName + " " + lastName)
	}

	return session, nil
}

// GenerateToken создаёт HS256 токен (dev-режим и тесты)
func (s *JWTService) GenerateToken(userID, email, name string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"name":  name,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}
