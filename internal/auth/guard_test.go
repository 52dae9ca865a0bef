package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

func guardedApp(t *testing.T, tm *TokenManager) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"code": domainErr.Code})
		}
		return nil
	})
	guard := NewAccessGuard(tm)
	app.Get("/protected", guard.Handle, func(c *fiber.Ctx) error {
		subject, _ := SubjectFromContext(c)
		return c.SendString(subject)
	})
	return app
}

func TestGuardAllowsValidAccessToken(t *testing.T) {
	tm := newTestManager(t)
	app := guardedApp(t, tm)

	token, _, err := tm.Generate("user-42", TokenKindAccess)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGuardRejectsMissingAndMalformedHeaders(t *testing.T) {
	tm := newTestManager(t)
	app := guardedApp(t, tm)

	cases := map[string]string{
		"missing":     "",
		"no scheme":   "some-token",
		"wrong kind":  "Basic abc123",
		"garbage jwt": "Bearer not.a.jwt",
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err, name)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, name)
		assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"), name)
	}
}

func TestGuardRejectsMajorToken(t *testing.T) {
	tm := newTestManager(t)
	app := guardedApp(t, tm)

	major, _, err := tm.Generate("user-42", TokenKindMajor)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+major)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
}

func TestGuardRejectsExpiredToken(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestManager(t).WithClock(func() time.Time { return base })
	token, _, err := issuer.Generate("user-42", TokenKindAccess)
	require.NoError(t, err)

	verifier := newTestManager(t).WithClock(func() time.Time { return base.Add(2 * time.Hour) })
	app := guardedApp(t, verifier)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOptionalSubject(t *testing.T) {
	tm := newTestManager(t)
	app := fiber.New()
	app.Get("/feed", func(c *fiber.Ctx) error {
		subject, ok := OptionalSubject(c, tm)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(subject)
	})

	// no token still passes
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/feed", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// major token does not count as identity
	major, _, err := tm.Generate("user-42", TokenKindMajor)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer "+major)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
