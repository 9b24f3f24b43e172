package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Acquisitions-api/internal/application/auth"
	"github.com/jhoicas/Acquisitions-api/pkg/config"
)

var _ auth.TokenRevoker = (*TokenRevoker)(nil)

const (
	revokedPrefix    = "revoked:"
	generationPrefix = "user-gen:"
)

// NewClient abre la conexión y comprueba que Redis responde.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// TokenRevoker lista de jti revocados; cada clave expira cuando lo haría el token.
type TokenRevoker struct {
	client goredis.Cmdable
}

// NewTokenRevoker construye el adaptador sobre un cliente ya conectado.
func NewTokenRevoker(client goredis.Cmdable) *TokenRevoker {
	return &TokenRevoker{client: client}
}

// Revoke marca el jti como revocado durante ttl. Un ttl <= 0 no guarda nada: el token ya expiró.
func (r *TokenRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, key(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revocar token: %w", err)
	}
	return nil
}

// IsRevoked indica si el jti está en la lista.
func (r *TokenRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("consultar revocación: %w", err)
	}
	return n > 0, nil
}

// UserGeneration generación de sesión vigente del usuario; 0 si nunca se invalidó.
func (r *TokenRevoker) UserGeneration(ctx context.Context, userID string) (int64, error) {
	n, err := r.client.Get(ctx, generationKey(userID)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("consultar generación: %w", err)
	}
	return n, nil
}

// BumpUserGeneration invalida todos los tokens emitidos hasta ahora para el usuario.
// La clave no expira: si volviera a 0 los tokens nuevos dejarían de coincidir.
func (r *TokenRevoker) BumpUserGeneration(ctx context.Context, userID string) (int64, error) {
	n, err := r.client.Incr(ctx, generationKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("invalidar sesiones: %w", err)
	}
	return n, nil
}

func key(jti string) string { return revokedPrefix + jti }

func generationKey(userID string) string { return generationPrefix + userID }
