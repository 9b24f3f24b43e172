package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	_ "github.com/jhoicas/Acquisitions-api/docs"
	"github.com/jhoicas/Acquisitions-api/internal/application/auth"
	"github.com/jhoicas/Acquisitions-api/internal/application/deal"
	"github.com/jhoicas/Acquisitions-api/internal/application/usecase"
	"github.com/jhoicas/Acquisitions-api/internal/application/validation"
	"github.com/jhoicas/Acquisitions-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Acquisitions-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Acquisitions-api/internal/interfaces/http"
	"github.com/jhoicas/Acquisitions-api/pkg/config"
	"github.com/jhoicas/Acquisitions-api/pkg/logger"
)

// @title                       Acquisitions API
// @version                     1.0
// @description                 Publicación de negocios en venta y negociación de ofertas.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if cfg.DB.AutoMigrate {
		if err := migrateUp(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Lista de revocación: con Redis el signout invalida el token; sin Redis es solo del lado cliente.
	var revoker auth.TokenRevoker = auth.NoopRevoker{}
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		revoker = infraredis.NewTokenRevoker(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("revocación de tokens en Redis")
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: signout sin revocación de tokens")
	}

	userRepo := postgres.NewUserRepository(pool)
	listingRepo := postgres.NewListingRepository(pool)
	dealRepo := postgres.NewDealRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, revoker, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Security.BcryptCost)
	userUC := usecase.NewUserUseCase(userRepo, revoker, cfg.Security.BcryptCost)
	listingUC := usecase.NewListingUseCase(listingRepo)
	dealUC := deal.NewUseCase(txRunner, listingRepo, dealRepo)

	metrics := httpRouter.NewMetrics("acquisitions")
	limiter := httpRouter.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:         cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, log.Component("http"), metrics)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Acquisitions API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		ListingUC:   listingUC,
		DealUC:      dealUC,
		Validator:   validation.New(),
		Logger:      log,
		Cookie:      httpRouter.CookieConfig{Name: cfg.Cookie.Name, Secure: cfg.Cookie.Secure || cfg.IsProduction()},
		AuthLimiter: limiter,
		Metrics:     metrics,
		Health:      pool.Ping,
	})

	stopPrune := make(chan struct{})
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				limiter.Prune(10 * time.Minute)
			case <-stopPrune:
				return
			}
		}
	}()

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	close(stopPrune)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func migrateUp(databaseURL string) error {
	m, err := postgres.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}
