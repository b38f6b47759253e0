package jwt

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"math"
	"strings"
	"time"
)

// EdgeVerifier проверяет HS256 токены без сторонних библиотек.
// Используется в Session Gate перед отдачей страниц.
type EdgeVerifier struct {
	secret    []byte
	secretErr error
	now       func() time.Time
}

// NewEdgeVerifier создаёт EdgeVerifier с тем же контрактом секрета, что и MakerImpl.
func NewEdgeVerifier(secretKey string) *EdgeVerifier {
	secret, err := LoadSecret(secretKey)
	return &EdgeVerifier{secret: secret, secretErr: err, now: time.Now}
}

type edgeHeader struct {
	Alg string `json:"alg"`
}

type edgePayload struct {
	wireClaims
	IssuedAt  *float64 `json:"iat"`
	ExpiresAt *float64 `json:"exp"`
	NotBefore *float64 `json:"nbf"`
}

// Verify проверяет подпись, алгоритм и срок действия.
func (v *EdgeVerifier) Verify(token string) (*Claims, error) {
	if v.secretErr != nil {
		return nil, v.secretErr
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}

	var header edgeHeader
	if err := decodeSegment(parts[0], &header); err != nil || header.Alg != "HS256" {
		return nil, ErrInvalidToken
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, ErrInvalidToken
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(parts[0] + "." + parts[1]))
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return nil, ErrInvalidToken
	}

	var payload edgePayload
	if err := decodeSegment(parts[1], &payload); err != nil {
		return nil, ErrInvalidToken
	}
	if payload.ExpiresAt == nil || payload.IssuedAt == nil {
		return nil, ErrInvalidToken
	}
	now := v.now()
	exp := numericTime(*payload.ExpiresAt)
	if !now.Before(exp) {
		return nil, ErrInvalidToken
	}
	if payload.NotBefore != nil && now.Before(numericTime(*payload.NotBefore)) {
		return nil, ErrInvalidToken
	}

	return &Claims{
		UserID:    payload.UserID,
		Email:     payload.Email,
		Role:      payload.Role,
		IssuedAt:  numericTime(*payload.IssuedAt),
		ExpiresAt: exp,
	}, nil
}

func decodeSegment(seg string, v any) error {
	raw, err := base64.RawURLEncoding.DecodeString(seg)
	if err != nil {
		return err
	}
	return json.NewDecoder(bytes.NewReader(raw)).Decode(v)
}

func numericTime(f float64) time.Time {
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9))
}
