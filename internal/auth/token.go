package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
	"github.com/go-rbac-admin/go-rbac-admin/internal/randkey"
)

// Token kinds carried in the claims so a refresh token can not be replayed
// as an access token.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// Claims are the JWT claims issued for authenticated users.
type Claims struct {
	Username  string `json:"username"`
	Superuser bool   `json:"superuser,omitempty"`
	Kind      string `json:"kind"`
	jwt.RegisteredClaims
}

// TokenPair bundles the issued access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// IssueTokens signs an access and refresh token pair for the user.
func (s *Service) IssueTokens(u *domain.User) (*TokenPair, error) {
	access, err := s.signToken(u, TokenKindAccess, s.AccessTokenTTL())
	if err != nil {
		return nil, err
	}

	refresh, err := s.signToken(u, TokenKindRefresh, s.RefreshTokenTTL())
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.AccessTokenTTL().Seconds()),
	}, nil
}

func (s *Service) signToken(u *domain.User, kind string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		Username:  u.Username,
		Superuser: u.IsSuperuser,
		Kind:      kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ID:        randkey.New(16), //nolint:mnd
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.cfg.TokenSecret)) //nolint:wrapcheck
}

// ParseToken validates a signed token of the expected kind and returns its
// claims.
func (s *Service) ParseToken(tokenString, expectedKind string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return []byte(s.cfg.TokenSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Kind != expectedKind {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// SubjectID extracts the user ID from the claims.
func (c *Claims) SubjectID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return id, nil
}
