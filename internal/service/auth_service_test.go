package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/auth"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/config"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

// fakeUserRepo is an in-memory repository.UserRepository.
type fakeUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.nextID++
	user.ID = "user-" + strconv.Itoa(f.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	f.byID[user.ID] = &clone
	f.byEmail[user.Email] = &clone
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := f.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	f.byID[user.ID] = &clone
	f.byEmail[user.Email] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	user, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(f.byEmail, user.Email)
	delete(f.byID, id)
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, _, _ int) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) SearchDirectory(_ context.Context, _, _ string, _, _ int) ([]domain.User, int, error) {
	users, _ := f.List(context.Background(), 0, 0)
	return users, len(users), nil
}

func (f *fakeUserRepo) AddFeedback(_ context.Context, userID string, fb *domain.Feedback) error {
	user, ok := f.byID[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	fb.ID = "fb-1"
	fb.CreatedAt = time.Now()
	user.Feedbacks = append([]domain.Feedback{*fb}, user.Feedbacks...)
	return nil
}

func (f *fakeUserRepo) UpsertProgress(_ context.Context, userID string, p domain.CourseProgress) error {
	user, ok := f.byID[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	for i := range user.CursosProgresso {
		if user.CursosProgresso[i].CursoID == p.CursoID {
			user.CursosProgresso[i] = p
			return nil
		}
	}
	user.CursosProgresso = append(user.CursosProgresso, p)
	return nil
}

func (f *fakeUserRepo) SetPoints(_ context.Context, userID string, points int) error {
	user, ok := f.byID[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Pontos = points
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:        "test-secret",
			SigningAlgorithm: "HS256",
			AccessTTLMinutes: 60,
			MajorTTLHours:    7,
			BcryptCost:       bcrypt.MinCost,
		},
	}
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, senha string, ativo bool) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(senha, bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		Nome:         "Ana",
		Sobrenome:    "Souza",
		Email:        email,
		PasswordHash: hash,
		Ativo:        ativo,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestLoginIssuesBothTokenKinds(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "ana@attentive.com.br", "s3nha", true)

	svc, err := NewAuthService(testConfig(), repo)
	require.NoError(t, err)

	session, err := svc.Login(context.Background(), "ana@attentive.com.br", "s3nha")
	require.NoError(t, err)

	accessClaims, err := svc.TokenManager().Parse(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, auth.TokenKindAccess, accessClaims.Kind)
	assert.Equal(t, user.ID, accessClaims.Subject)

	majorClaims, err := svc.TokenManager().Parse(session.MajorToken)
	require.NoError(t, err)
	assert.Equal(t, auth.TokenKindMajor, majorClaims.Kind)
	assert.Equal(t, user.ID, majorClaims.Subject)

	assert.True(t, session.MajorExpiresAt.After(session.AccessExpiresAt))
	assert.Empty(t, session.User.PasswordHash)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "ana@attentive.com.br", "s3nha", true)
	seedUser(t, repo, "inativo@attentive.com.br", "s3nha", false)

	svc, err := NewAuthService(testConfig(), repo)
	require.NoError(t, err)

	_, wrongPw := svc.Login(context.Background(), "ana@attentive.com.br", "errada")
	_, noUser := svc.Login(context.Background(), "ninguem@attentive.com.br", "s3nha")
	_, inactive := svc.Login(context.Background(), "inativo@attentive.com.br", "s3nha")

	for _, err := range []error{wrongPw, noUser, inactive} {
		require.Error(t, err)
		domainErr := apperrors.ToDomainError(err)
		assert.Equal(t, "UNAUTHENTICATED", domainErr.Code)
		assert.Equal(t, "credenciais inválidas", domainErr.Message)
	}
}

func TestRefreshMintsNewAccessOnly(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "ana@attentive.com.br", "s3nha", true)

	svc, err := NewAuthService(testConfig(), repo)
	require.NoError(t, err)

	session, err := svc.Login(context.Background(), "ana@attentive.com.br", "s3nha")
	require.NoError(t, err)

	access, expiresAt, refreshed, err := svc.Refresh(context.Background(), session.MajorToken)
	require.NoError(t, err)
	require.NotNil(t, refreshed)
	assert.Equal(t, user.ID, refreshed.ID)
	assert.Empty(t, refreshed.PasswordHash)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.TokenManager().Parse(access)
	require.NoError(t, err)
	assert.Equal(t, auth.TokenKindAccess, claims.Kind)
	assert.Equal(t, user.ID, claims.Subject)
}

func TestRefreshRejectsAccessTokenAndGarbage(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "ana@attentive.com.br", "s3nha", true)

	svc, err := NewAuthService(testConfig(), repo)
	require.NoError(t, err)

	session, err := svc.Login(context.Background(), "ana@attentive.com.br", "s3nha")
	require.NoError(t, err)

	cases := map[string]string{
		"access token": session.AccessToken,
		"empty":        "",
		"garbage":      "not.a.jwt",
	}
	for name, token := range cases {
		_, _, _, err := svc.Refresh(context.Background(), token)
		require.Error(t, err, name)
		assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code, name)
	}
}

func TestRefreshRejectsDeletedOrInactiveUser(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "ana@attentive.com.br", "s3nha", true)

	svc, err := NewAuthService(testConfig(), repo)
	require.NoError(t, err)

	session, err := svc.Login(context.Background(), "ana@attentive.com.br", "s3nha")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), user.ID))
	_, _, _, err = svc.Refresh(context.Background(), session.MajorToken)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
}
