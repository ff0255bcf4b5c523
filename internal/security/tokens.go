package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dom/task-tracker/internal/config"
	"github.com/dom/task-tracker/internal/domain"
)

const (
	audienceAccess  = "access"
	audienceRefresh = "refresh"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// tokenClass is one kind of token: its own secret, lifetime and audience.
type tokenClass struct {
	secret   []byte
	ttl      time.Duration
	audience string
}

// TokenService signs and verifies HS256 access and refresh tokens. The two
// classes never share a secret.
type TokenService struct {
	access  tokenClass
	refresh tokenClass
	now     func() time.Time
}

func NewTokenService(cfg *config.Config) (*TokenService, error) {
	if cfg.JWTSecret == "" || cfg.JWTRefreshSecret == "" {
		return nil, errors.New("token secrets are required")
	}
	if cfg.JWTSecret == cfg.JWTRefreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}

	return &TokenService{
		access:  tokenClass{secret: []byte(cfg.JWTSecret), ttl: cfg.AccessTokenTTL, audience: audienceAccess},
		refresh: tokenClass{secret: []byte(cfg.JWTRefreshSecret), ttl: cfg.RefreshTokenTTL, audience: audienceRefresh},
		now:     time.Now,
	}, nil
}

// WithClock replaces the time source, for tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// RefreshTTL is the refresh token lifetime.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.refresh.ttl
}

func (s *TokenService) IssuePair(userID uuid.UUID) (TokenPair, error) {
	accessToken, err := s.sign(s.access, userID)
	if err != nil {
		return TokenPair{}, err
	}

	refreshToken, err := s.sign(s.refresh, userID)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *TokenService) VerifyAccess(token string) (uuid.UUID, error) {
	return s.verify(s.access, token)
}

func (s *TokenService) VerifyRefresh(token string) (uuid.UUID, error) {
	return s.verify(s.refresh, token)
}

func (s *TokenService) sign(class tokenClass, userID uuid.UUID) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Audience:  jwt.ClaimStrings{class.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(class.ttl)),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(class.secret)
}

// verify collapses every failure into domain.ErrInvalidToken.
func (s *TokenService) verify(class tokenClass, tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, domain.ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithAudience(class.audience),
		jwt.WithTimeFunc(s.now),
	)

	var claims jwt.RegisteredClaims
	token, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return class.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, domain.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidToken
	}

	return userID, nil
}
