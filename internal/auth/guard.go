package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

const subjectKey = "auth_subject"

// AccessGuard validates bearer access tokens on protected routes. It does no
// database lookup; it only yields the authenticated subject id. Every
// failure (missing header, bad signature, expired, wrong kind, empty
// subject) collapses into the same 401 so callers cannot distinguish why a
// token was refused.
type AccessGuard struct {
	tokens *TokenManager
}

// NewAccessGuard constructs the guard middleware.
func NewAccessGuard(tokens *TokenManager) *AccessGuard {
	return &AccessGuard{tokens: tokens}
}

func (g *AccessGuard) reject(c *fiber.Ctx) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return apperrors.NewUnauthorized("token inválido ou expirado")
}

// Handle enforces authentication for protected routes.
func (g *AccessGuard) Handle(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return g.reject(c)
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return g.reject(c)
	}

	claims, err := g.tokens.Parse(parts[1])
	if err != nil {
		return g.reject(c)
	}
	if claims.Kind != TokenKindAccess {
		return g.reject(c)
	}
	if claims.Subject == "" {
		return g.reject(c)
	}

	c.Locals(subjectKey, claims.Subject)
	return c.Next()
}

// SubjectFromContext retrieves the authenticated subject id set by the guard.
func SubjectFromContext(c *fiber.Ctx) (string, bool) {
	val, ok := c.Locals(subjectKey).(string)
	return val, ok && val != ""
}

// OptionalSubject extracts the subject from a bearer token when one is
// present and valid, without failing the request otherwise. Used by routes
// where identity only enriches the response (e.g. comment authorship).
func OptionalSubject(c *fiber.Ctx, tokens *TokenManager) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	claims, err := tokens.Parse(parts[1])
	if err != nil || claims.Kind != TokenKindAccess || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
