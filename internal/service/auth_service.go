package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/auth"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/config"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/domain"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/repository"
	apperrors "github.com/AttentiveContabilidade/attentive-intranet-api/pkg/util"
)

// Session is the pair of tokens minted at login. The access token goes to
// the response body, the major token to an HttpOnly cookie.
type Session struct {
	User            domain.User
	AccessToken     string
	AccessExpiresAt time.Time
	MajorToken      string
	MajorExpiresAt  time.Time
}

// AuthService coordinates login and token renewal.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg *config.Config, users repository.UserRepository) (*AuthService, error) {
	tokenMgr, err := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.SigningAlgorithm,
		cfg.Auth.AccessTTL(),
		cfg.Auth.MajorTTL(),
	)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		users:      users,
		tokenMgr:   tokenMgr,
		bcryptCost: cfg.Auth.BcryptCost,
	}, nil
}

// Login authenticates a colaborador and mints both tokens. Unknown e-mail,
// wrong password and inactive account all fail identically.
func (s *AuthService) Login(ctx context.Context, email, senha string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthenticated()
		}
		return nil, err
	}
	if !user.Ativo || !auth.VerifyPassword(senha, user.PasswordHash) {
		return nil, apperrors.NewUnauthenticated()
	}

	access, accessExp, err := s.tokenMgr.Generate(user.ID, auth.TokenKindAccess)
	if err != nil {
		return nil, err
	}
	major, majorExp, err := s.tokenMgr.Generate(user.ID, auth.TokenKindMajor)
	if err != nil {
		return nil, err
	}

	return &Session{
		User:            user.Sanitized(),
		AccessToken:     access,
		AccessExpiresAt: accessExp,
		MajorToken:      major,
		MajorExpiresAt:  majorExp,
	}, nil
}

// Refresh mints a fresh access token from a valid major token. The major
// token itself is never reissued here, so a session can never outlive the
// major TTL counted from login. Every failure collapses into the same 401.
func (s *AuthService) Refresh(ctx context.Context, majorToken string) (string, time.Time, *domain.User, error) {
	reject := func() (string, time.Time, *domain.User, error) {
		return "", time.Time{}, nil, apperrors.NewUnauthorized("token inválido ou expirado")
	}

	if majorToken == "" {
		return reject()
	}
	claims, err := s.tokenMgr.Parse(majorToken)
	if err != nil || claims.Kind != auth.TokenKindMajor || claims.Subject == "" {
		return reject()
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reject()
		}
		return "", time.Time{}, nil, err
	}
	if !user.Ativo {
		return reject()
	}

	access, accessExp, err := s.tokenMgr.Generate(user.ID, auth.TokenKindAccess)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	sanitized := user.Sanitized()
	return access, accessExp, &sanitized, nil
}

// CurrentUser resolves the authenticated subject into a sanitized profile.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("token inválido ou expirado")
		}
		return nil, err
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Logout is stateless: tokens stay valid until expiry, the handler only
// clears the cookie.
func (s *AuthService) Logout(_ context.Context) error {
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
