package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/api/dto"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/auth"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/service"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

const majorCookieName = "major_token"

// AuthHandler exposes the session endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

func (h *AuthHandler) majorCookie(value string, maxAge time.Duration) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     majorCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteNoneMode,
	}
}

// Login handles POST /auth/login. The access token goes to the body, the
// major token to an HttpOnly cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("payload inválido", nil)
	}
	if req.Email == "" || req.Senha == "" {
		return apperrors.NewValidationError("email e senha são obrigatórios", nil)
	}

	session, err := h.auth.Login(c.UserContext(), req.Email, req.Senha)
	if err != nil {
		return err
	}

	c.Cookie(h.majorCookie(session.MajorToken, h.auth.TokenManager().MajorTTL()))

	user := dto.FromUser(session.User)
	return c.JSON(dto.TokenResponse{
		AccessToken: session.AccessToken,
		TokenType:   "bearer",
		ExpiresAt:   session.AccessExpiresAt,
		Usuario:     &user,
	})
}

// Refresh handles POST /auth/refresh. It mints a new access token from the
// major cookie; the cookie itself is never renewed, so a session ends at the
// major expiry no matter how often it refreshes.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	major := c.Cookies(majorCookieName)
	access, expiresAt, user, err := h.auth.Refresh(c.UserContext(), major)
	if err != nil {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return err
	}

	resp := dto.TokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	}
	if user != nil {
		mapped := dto.FromUser(*user)
		resp.Usuario = &mapped
	}
	return c.JSON(resp)
}

// Logout handles POST /auth/logout. Tokens are stateless; only the cookie is
// cleared.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext()); err != nil {
		return err
	}
	cookie := h.majorCookie("", 0)
	cookie.Expires = time.Unix(0, 0)
	cookie.MaxAge = -1
	c.Cookie(cookie)
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return apperrors.NewUnauthorized("token inválido ou expirado")
	}
	user, err := h.auth.CurrentUser(c.UserContext(), subject)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUser(*user))
}
