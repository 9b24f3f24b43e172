package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Acquisitions-api/internal/application/auth"
	"github.com/jhoicas/Acquisitions-api/internal/application/dto"
	"github.com/jhoicas/Acquisitions-api/internal/application/validation"
	"github.com/jhoicas/Acquisitions-api/pkg/logger"
)

// CookieConfig cookie httpOnly donde viaja el token.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler maneja registro, inicio y cierre de sesión.
type AuthHandler struct {
	uc     *auth.AuthUseCase
	val    *validation.Validator
	cookie CookieConfig
	log    *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, val *validation.Validator, cookie CookieConfig, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, val: val, cookie: cookie, log: log}
}

// Signup godoc
// @Summary      Registrar usuario
// @Description  El rol admin solo se respeta si quien llama ya es admin.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "email, password, name, role"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in dto.SignupRequest
	if err := bindJSON(c, h.val, &in); err != nil {
		return err
	}
	user, err := h.uc.Signup(c.UserContext(), optionalActor(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Signin godoc
// @Summary      Iniciar sesión
// @Description  Devuelve el token y además lo deja en una cookie httpOnly.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SigninRequest  true  "email, password"
// @Success      200   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/signin [post]
func (h *AuthHandler) Signin(c *fiber.Ctx) error {
	var in dto.SigninRequest
	if err := bindJSON(c, h.val, &in); err != nil {
		return err
	}
	out, err := h.uc.Signin(c.UserContext(), in)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    out.Token,
		Path:     "/",
		Expires:  out.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(out)
}

// Signout godoc
// @Summary      Cerrar sesión
// @Description  Borra la cookie y, si hay lista de revocación, invalida el token presentado.
// @Description  Responde 200 aunque la revocación falle: la cookie se borra igual.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/auth/signout [post]
func (h *AuthHandler) Signout(c *fiber.Ctx) error {
	// La cookie se borra siempre; si la revocación falla el token sigue vivo hasta expirar.
	if err := h.uc.Signout(c.UserContext(), tokenFromRequest(c, h.cookie.Name)); err != nil {
		h.log.Warn().
			Err(err).
			Str("request_id", GetRequestID(c)).
			Msg("signout sin revocación")
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"message": "sesión cerrada"})
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.uc.Me(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(user)
}
