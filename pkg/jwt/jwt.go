package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrEmptySecret se devuelve cuando no hay clave de firma configurada.
var ErrEmptySecret = errors.New("jwt: secret vacío")

// Claims incluye los claims estándar JWT más la identidad del usuario.
// Role viaja en el token para que RequireRole decida sin consultar la DB;
// ID (jti) permite revocar un token concreto en el signout y Gen invalidar
// de una vez todos los tokens de un usuario.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"` // "user" | "admin"
	Gen    int64  `json:"gen,omitempty"`
}

// NewClaims arma los claims de un token que vence en expMinutes.
func NewClaims(userID, email, role, issuer string, expMinutes int) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	}
}

// Sign firma los claims con HS256.
func Sign(secret string, claims *Claims) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("firmar token: %w", err)
	}
	return signed, nil
}

// Generate firma un token HS256 y devuelve también los claims emitidos.
func Generate(secret, userID, email, role, issuer string, expMinutes int) (string, *Claims, error) {
	claims := NewClaims(userID, email, role, issuer, expMinutes)
	signed, err := Sign(secret, claims)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Parse valida firma y expiración y devuelve los claims.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("claims inválidos")
	}
	if claims.UserID == "" {
		return nil, errors.New("claim user_id ausente")
	}
	return claims, nil
}

// TTL tiempo restante de validez del token (0 si ya expiró o no tiene exp).
func (c *Claims) TTL(now time.Time) time.Duration {
	if c == nil || c.ExpiresAt == nil {
		return 0
	}
	d := c.ExpiresAt.Time.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
