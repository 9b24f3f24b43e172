// seed_admin crea un usuario admin, o promueve a admin uno existente con ese email.
//
// Uso: go run ./cmd/seed_admin -email admin@example.com -password 'clave-segura' [-name Admin]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Acquisitions-api/internal/domain/entity"
	"github.com/jhoicas/Acquisitions-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Acquisitions-api/pkg/config"
	"github.com/jhoicas/Acquisitions-api/pkg/logger"
)

func main() {
	email := flag.String("email", "", "email del admin")
	password := flag.String("password", "", "contraseña (8 a 72 caracteres); se ignora si el usuario ya existe")
	name := flag.String("name", "Admin", "nombre visible")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "-email es obligatorio")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed_admin"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	users := postgres.NewUserRepository(pool)

	normalized := entity.NormalizeEmail(*email)
	existing, err := users.GetByEmail(ctx, normalized)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar usuario")
	}

	now := time.Now()
	if existing != nil {
		if existing.Role == entity.RoleAdmin {
			log.Info().Str("user_id", existing.ID).Msg("el usuario ya es admin")
			return
		}
		existing.Role = entity.RoleAdmin
		existing.UpdatedAt = now
		if err := users.Update(ctx, existing); err != nil {
			log.Fatal().Err(err).Msg("promover usuario")
		}
		log.Info().Str("user_id", existing.ID).Msg("usuario promovido a admin")
		return
	}

	if n := len(*password); n < 8 || n > 72 {
		log.Fatal().Msg("-password debe tener entre 8 y 72 caracteres")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(*password), cfg.Security.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash de contraseña")
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        normalized,
		Name:         *name,
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, user); err != nil {
		log.Fatal().Err(err).Msg("crear admin")
	}
	log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("admin creado")
}
