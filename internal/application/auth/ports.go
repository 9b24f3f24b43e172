package auth

import (
	"context"
	"time"
)

// TokenRevoker guarda los jti de tokens cerrados con signout hasta su expiración y la
// generación de sesión de cada usuario: un token emitido con una generación anterior
// a la actual deja de ser válido (cambio de rol, borrado de la cuenta).
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	UserGeneration(ctx context.Context, userID string) (int64, error)
	BumpUserGeneration(ctx context.Context, userID string) (int64, error)
}

// NoopRevoker se usa cuando no hay Redis: el signout solo borra la cookie del cliente
// y los tokens conservan el rol con el que se emitieron hasta expirar.
type NoopRevoker struct{}

func (NoopRevoker) Revoke(context.Context, string, time.Duration) error       { return nil }
func (NoopRevoker) IsRevoked(context.Context, string) (bool, error)           { return false, nil }
func (NoopRevoker) UserGeneration(context.Context, string) (int64, error)     { return 0, nil }
func (NoopRevoker) BumpUserGeneration(context.Context, string) (int64, error) { return 0, nil }
