package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MakerImpl выпускает и проверяет токены с помощью golang-jwt.
type MakerImpl struct {
	secret    []byte
	secretErr error
	tokenTTL  time.Duration
}

type tokenClaims struct {
	wireClaims
	jwt.RegisteredClaims
}

// NewJWTMaker создаёт MakerImpl. Пустой секрет не мешает созданию,
// но Issue и Verify будут возвращать ErrSecretMissing.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	secret, err := LoadSecret(secretKey)
	return &MakerImpl{
		secret:    secret,
		secretErr: err,
		tokenTTL:  ttl,
	}
}

// Issue подписывает claims секретом и выставляет iat и exp.
func (m *MakerImpl) Issue(p Payload) (string, error) {
	if m.secretErr != nil {
		return "", m.secretErr
	}
	now := time.Now()
	claims := tokenClaims{
		wireClaims: wireClaims{
			UserID: p.UserID,
			Email:  p.Email,
			Role:   p.Role,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify проверяет подпись и срок действия токена.
func (m *MakerImpl) Verify(tokenStr string) (*Claims, error) {
	if m.secretErr != nil {
		return nil, m.secretErr
	}
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(_ *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.IssuedAt == nil {
		return nil, ErrInvalidToken
	}
	return &Claims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      claims.Role,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// IsConfigError отделяет ошибки конфигурации от невалидных токенов.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrSecretMissing)
}
