package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenKind is the closed set of token types the API issues. The access
// token travels as a bearer header; the major token only ever lives in an
// HttpOnly cookie and is used solely to mint new access tokens.
type TokenKind string

const (
	TokenKindAccess TokenKind = "access"
	TokenKindMajor  TokenKind = "major"
)

var (
	// ErrInvalidArgument signals a caller error: empty subject or a kind
	// outside the access/major enum.
	ErrInvalidArgument = errors.New("invalid token argument")
	// ErrInvalidToken covers every verification failure: bad signature,
	// wrong algorithm, malformed payload, expired.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims is the typed payload carried by both token kinds.
type Claims struct {
	Kind TokenKind `json:"type"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies session tokens. It is immutable after
// construction and safe for concurrent use.
type TokenManager struct {
	secret    []byte
	method    jwt.SigningMethod
	accessTTL time.Duration
	majorTTL  time.Duration
	now       func() time.Time
}

// NewTokenManager builds a manager bound to a shared secret and a pinned
// HMAC algorithm. Tokens signed with any other algorithm are rejected.
func NewTokenManager(secret, algorithm string, accessTTL, majorTTL time.Duration) (*TokenManager, error) {
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if accessTTL <= 0 {
		accessTTL = 60 * time.Minute
	}
	if majorTTL <= 0 {
		majorTTL = 7 * time.Hour
	}
	return &TokenManager{
		secret:    []byte(secret),
		method:    method,
		accessTTL: accessTTL,
		majorTTL:  majorTTL,
		now:       time.Now,
	}, nil
}

// WithClock overrides the time source. Test hook.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	clone := *tm
	clone.now = now
	return &clone
}

func (tm *TokenManager) ttlFor(kind TokenKind) (time.Duration, bool) {
	switch kind {
	case TokenKindAccess:
		return tm.accessTTL, true
	case TokenKindMajor:
		return tm.majorTTL, true
	default:
		return 0, false
	}
}

// Generate signs a token for the subject. iat is current UTC truncated to
// whole seconds; exp is iat plus the TTL bound to the kind.
func (tm *TokenManager) Generate(subject string, kind TokenKind) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, fmt.Errorf("%w: empty subject", ErrInvalidArgument)
	}
	ttl, ok := tm.ttlFor(kind)
	if !ok {
		return "", time.Time{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidArgument, kind)
	}

	issuedAt := tm.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(ttl)
	claims := &Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(tm.method, claims).SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse verifies signature, algorithm and expiry and returns the typed
// claims. It deliberately does not enforce the kind: the access guard and
// the refresh flow apply different kind constraints on the same primitive.
func (tm *TokenManager) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != tm.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return tm.now() }))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != TokenKindAccess && claims.Kind != TokenKindMajor {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidToken, claims.Kind)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp", ErrInvalidToken)
	}
	return claims, nil
}

// AccessTTL exposes the configured access token lifetime.
func (tm *TokenManager) AccessTTL() time.Duration { return tm.accessTTL }

// MajorTTL exposes the configured major token lifetime.
func (tm *TokenManager) MajorTTL() time.Duration { return tm.majorTTL }
