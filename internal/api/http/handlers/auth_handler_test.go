package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/auth"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/config"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/service"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

// singleUserRepo serves one fixed colaborador; everything else is not found.
type singleUserRepo struct {
	user domain.User
}

func (r *singleUserRepo) Create(_ context.Context, _ *domain.User) error { return pgx.ErrNoRows }
func (r *singleUserRepo) Update(_ context.Context, _ *domain.User) error { return pgx.ErrNoRows }

func (r *singleUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if id != r.user.ID {
		return nil, pgx.ErrNoRows
	}
	clone := r.user
	return &clone, nil
}

func (r *singleUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if email != r.user.Email {
		return nil, pgx.ErrNoRows
	}
	clone := r.user
	return &clone, nil
}

func (r *singleUserRepo) Delete(_ context.Context, _ string) error { return pgx.ErrNoRows }

func (r *singleUserRepo) List(_ context.Context, _, _ int) ([]domain.User, error) {
	return []domain.User{r.user}, nil
}

func (r *singleUserRepo) SearchDirectory(_ context.Context, _, _ string, _, _ int) ([]domain.User, int, error) {
	return []domain.User{r.user}, 1, nil
}

func (r *singleUserRepo) AddFeedback(_ context.Context, _ string, _ *domain.Feedback) error {
	return pgx.ErrNoRows
}

func (r *singleUserRepo) UpsertProgress(_ context.Context, _ string, _ domain.CourseProgress) error {
	return pgx.ErrNoRows
}

func (r *singleUserRepo) SetPoints(_ context.Context, _ string, _ int) error { return pgx.ErrNoRows }

func authTestApp(t *testing.T) (*fiber.App, *service.AuthService) {
	t.Helper()
	hash, err := auth.HashPassword("s3nha", bcrypt.MinCost)
	require.NoError(t, err)
	repo := &singleUserRepo{user: domain.User{
		ID:           "user-1",
		Nome:         "Ana",
		Email:        "ana@attentive.com.br",
		PasswordHash: hash,
		Ativo:        true,
	}}

	cfg := &config.Config{Auth: config.AuthConfig{
		JWTSecret:        "test-secret",
		SigningAlgorithm: "HS256",
		AccessTTLMinutes: 60,
		MajorTTLHours:    7,
		BcryptCost:       bcrypt.MinCost,
	}}
	authService, err := service.NewAuthService(cfg, repo)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"code": domainErr.Code})
		}
		return nil
	})

	handler := NewAuthHandler(authService)
	guard := auth.NewAccessGuard(authService.TokenManager())
	app.Post("/auth/login", handler.Login)
	app.Post("/auth/refresh", handler.Refresh)
	app.Post("/auth/logout", handler.Logout)
	app.Get("/auth/me", guard.Handle, handler.Me)
	return app, authService
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func majorCookieFrom(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "major_token" {
			return cookie
		}
	}
	return nil
}

func TestLoginSetsMajorCookie(t *testing.T) {
	app, _ := authTestApp(t)

	resp := postJSON(t, app, "/auth/login", `{"email":"ana@attentive.com.br","senha":"s3nha"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		Usuario     *struct {
			Email string `json:"email"`
		} `json:"usuario"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.AccessToken)
	assert.Equal(t, "bearer", body.TokenType)
	require.NotNil(t, body.Usuario)
	assert.Equal(t, "ana@attentive.com.br", body.Usuario.Email)

	cookie := majorCookieFrom(t, resp)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int((7 * time.Hour).Seconds()), cookie.MaxAge)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app, _ := authTestApp(t)

	resp := postJSON(t, app, "/auth/login", `{"email":"ana@attentive.com.br","senha":"errada"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Nil(t, majorCookieFrom(t, resp))

	resp = postJSON(t, app, "/auth/login", `{"email":"ana@attentive.com.br"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRefreshDoesNotRenewCookie(t *testing.T) {
	app, _ := authTestApp(t)

	login := postJSON(t, app, "/auth/login", `{"email":"ana@attentive.com.br","senha":"s3nha"}`)
	require.Equal(t, http.StatusOK, login.StatusCode)
	cookie := majorCookieFrom(t, login)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	// the major cookie is minted once at login and never reissued
	assert.Nil(t, majorCookieFrom(t, resp))

	var body struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.AccessToken)
}

func TestRefreshWithoutCookieFails(t *testing.T) {
	app, _ := authTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/auth/refresh", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
}

func TestRefreshRejectsAccessTokenInCookie(t *testing.T) {
	app, authService := authTestApp(t)

	access, _, err := authService.TokenManager().Generate("user-1", auth.TokenKindAccess)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "major_token", Value: access})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutClearsCookie(t *testing.T) {
	app, _ := authTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	cookie := majorCookieFrom(t, resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.MaxAge < 0 || cookie.Expires.Before(time.Now()))
}

func TestMeRequiresAccessToken(t *testing.T) {
	app, authService := authTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	access, _, err := authService.TokenManager().Generate("user-1", auth.TokenKindAccess)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Email string `json:"email"`
		Senha string `json:"senha_hash"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ana@attentive.com.br", body.Email)
	assert.Empty(t, body.Senha)
}
