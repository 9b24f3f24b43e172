package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Acquisitions-api/internal/application/auth"
	"github.com/jhoicas/Acquisitions-api/internal/application/dto"
	"github.com/jhoicas/Acquisitions-api/internal/domain/entity"
	"github.com/jhoicas/Acquisitions-api/pkg/jwt"
)

// Locals keys para la identidad autenticada en Fiber.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalRole   = "role"
	LocalToken  = "token"
)

// TokenVerifier valida un token y devuelve sus claims. Lo implementa *auth.AuthUseCase.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*jwt.Claims, error)
}

// tokenFromRequest busca el token en la cookie y, si no está, en Authorization: Bearer.
func tokenFromRequest(c *fiber.Ctx, cookieName string) string {
	if tok := strings.TrimSpace(c.Cookies(cookieName)); tok != "" {
		return tok
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func setIdentity(c *fiber.Ctx, claims *jwt.Claims, token string) {
	c.Locals(LocalUserID, claims.UserID)
	c.Locals(LocalEmail, claims.Email)
	c.Locals(LocalRole, claims.Role)
	c.Locals(LocalToken, token)
}

// AuthMiddleware exige un token válido y no revocado; carga la identidad en c.Locals.
func AuthMiddleware(verifier TokenVerifier, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c, cookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Error: "token requerido"})
		}
		claims, err := verifier.Verify(c.UserContext(), token)
		if err != nil {
			if auth.IsUnauthorized(err) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Error: "token inválido o expirado"})
			}
			// Fallo de infraestructura (p. ej. Redis caído): 500 vía ErrorHandler.
			return err
		}
		setIdentity(c, claims, token)
		return c.Next()
	}
}

// OptionalAuth carga la identidad si hay un token válido; nunca rechaza la petición.
func OptionalAuth(verifier TokenVerifier, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := tokenFromRequest(c, cookieName); token != "" {
			if claims, err := verifier.Verify(c.UserContext(), token); err == nil {
				setIdentity(c, claims, token)
			}
		}
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados. Usar DESPUÉS de AuthMiddleware.
//   - 401 MISSING_ROLE: el token no trae rol.
//   - 403 FORBIDDEN: el rol no está permitido.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Error: "el token no incluye rol"})
		}
		if _, ok := allowed[role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Error: "rol sin permiso para este recurso"})
		}
		return c.Next()
	}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// GetEmail devuelve el email del token.
func GetEmail(c *fiber.Ctx) string { return localString(c, LocalEmail) }

// GetActor identidad para los casos de uso; vacía si la petición es anónima.
func GetActor(c *fiber.Ctx) entity.Actor {
	return entity.Actor{UserID: GetUserID(c), Role: GetRole(c)}
}

// optionalActor nil cuando no hay identidad (signup anónimo).
func optionalActor(c *fiber.Ctx) *entity.Actor {
	a := GetActor(c)
	if a.UserID == "" {
		return nil
	}
	return &a
}
