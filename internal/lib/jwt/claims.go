// Package jwt реализует выпуск и проверку подписанных токенов сессии.
//
// Токен несёт идентификатор пользователя, email и роль, подписывается HS256
// общим секретом и живёт фиксированное время (по умолчанию 7 дней).
// Состояние сессии на сервере не хранится: валидность определяется только
// подписью и сроком действия.
//
// Проверка доступна через интерфейс Verifier с двумя реализациями:
// MakerImpl (на базе golang-jwt, используется обработчиками API) и
// EdgeVerifier (только crypto/hmac, используется Session Gate).
// Обе принимают одни и те же токены и одинаково решают вопрос о валидности.
package jwt

import (
	"errors"
	"strings"
	"time"
)

// SessionTTL срок жизни токена сессии по умолчанию.
const SessionTTL = 7 * 24 * time.Hour

var (
	// ErrInvalidToken любая ошибка проверки токена: формат, подпись, срок действия.
	// Причина намеренно не различается.
	ErrInvalidToken = errors.New("invalid token")
	// ErrSecretMissing секрет подписи не задан, это ошибка конфигурации сервера.
	ErrSecretMissing = errors.New("jwt secret is not configured")
)

// Payload данные, которые кладутся в токен при выпуске.
type Payload struct {
	UserID string
	Email  string
	Role   string
}

// Claims общая схема данных токена для обеих реализаций проверки.
type Claims struct {
	UserID    string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issuer выпускает токены.
type Issuer interface {
	Issue(payload Payload) (string, error)
}

// Verifier проверяет токен и возвращает его claims либо ErrInvalidToken.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// LoadSecret единый контракт загрузки секрета подписи.
func LoadSecret(raw string) ([]byte, error) {
	secret := strings.TrimSpace(raw)
	if secret == "" {
		return nil, ErrSecretMissing
	}
	return []byte(secret), nil
}

// wireClaims JSON-представление claims внутри токена.
type wireClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}
