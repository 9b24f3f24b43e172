// migrate aplica o revierte las migraciones SQL embebidas.
//
// Uso:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down [n]    (sin n revierte todo)
//	go run ./cmd/migrate version
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/Acquisitions-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Acquisitions-api/pkg/config"
	"github.com/jhoicas/Acquisitions-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("iniciar migrador")
	}
	defer m.Close()

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		n := 0
		if len(os.Args) > 2 {
			if n, err = strconv.Atoi(os.Args[2]); err != nil {
				log.Fatal().Str("arg", os.Args[2]).Msg("n debe ser un entero")
			}
		}
		err = m.Down(n)
	case "version":
	default:
		fmt.Fprintf(os.Stderr, "comando desconocido %q (up | down [n] | version)\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", cmd).Msg("migración fallida")
	}

	v, dirty, err := m.Version()
	if err != nil {
		log.Fatal().Err(err).Msg("leer versión")
	}
	log.Info().Str("cmd", cmd).Uint("version", v).Bool("dirty", dirty).Msg("listo")
}
