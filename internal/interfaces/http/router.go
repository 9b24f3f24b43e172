package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Acquisitions-api/internal/application/auth"
	"github.com/jhoicas/Acquisitions-api/internal/application/deal"
	"github.com/jhoicas/Acquisitions-api/internal/application/usecase"
	"github.com/jhoicas/Acquisitions-api/internal/application/validation"
	"github.com/jhoicas/Acquisitions-api/internal/domain/entity"
	"github.com/jhoicas/Acquisitions-api/pkg/logger"
)

// AppConfig parámetros del servidor Fiber.
type AppConfig struct {
	Name         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewApp crea la app Fiber con el ErrorHandler común y la cadena base:
// métricas -> log de petición -> recover. metrics puede ser nil.
func NewApp(cfg AppConfig, log *logger.Logger, metrics *Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: NewErrorHandler(log),
	})
	if metrics != nil {
		app.Use(metrics.Middleware())
	}
	app.Use(RequestLogger(log))
	app.Use(recover.New())
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	ListingUC   *usecase.ListingUseCase
	DealUC      *deal.UseCase
	Validator   *validation.Validator
	Logger      *logger.Logger
	Cookie      CookieConfig
	AuthLimiter *RateLimiter
	Metrics     *Metrics
	// Health comprueba dependencias (p. ej. ping a PostgreSQL); nil = siempre ok.
	Health func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	val := deps.Validator
	if val == nil {
		val = validation.New()
	}
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", healthHandler(deps.Health))
	if deps.Metrics != nil {
		app.Get("/metrics", deps.Metrics.Handler())
	}

	requireAuth := AuthMiddleware(deps.AuthUC, deps.Cookie.Name)
	optionalAuth := OptionalAuth(deps.AuthUC, deps.Cookie.Name)

	api := app.Group("/api")

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, val, deps.Cookie, log.Component("auth"))
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", deps.AuthLimiter.Handler(), optionalAuth, authHandler.Signup)
	authGroup.Post("/signin", deps.AuthLimiter.Handler(), authHandler.Signin)
	authGroup.Post("/signout", authHandler.Signout)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Users
	userHandler := NewUserHandler(deps.UserUC, val)
	users := api.Group("/users", requireAuth)
	users.Get("/", RequireRole(entity.RoleAdmin), userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Patch("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Listings: lectura pública (con identidad opcional), escritura autenticada
	listingHandler := NewListingHandler(deps.ListingUC, val)
	dealHandler := NewDealHandler(deps.DealUC, val, log.Component("deals"))
	listings := api.Group("/listings")
	listings.Get("/", optionalAuth, listingHandler.List)
	listings.Post("/", requireAuth, listingHandler.Create)
	listings.Get("/:id", optionalAuth, listingHandler.GetByID)
	listings.Patch("/:id", requireAuth, listingHandler.Update)
	listings.Delete("/:id", requireAuth, listingHandler.Delete)
	listings.Get("/:id/deals", requireAuth, dealHandler.ListForListing)
	listings.Post("/:id/deals", requireAuth, dealHandler.Propose)

	// Deals
	deals := api.Group("/deals", requireAuth)
	deals.Get("/:id", dealHandler.GetByID)
	deals.Patch("/:id", dealHandler.Respond)
}

func healthHandler(check func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "database": "down"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": c.App().Config().AppName})
	}
}
