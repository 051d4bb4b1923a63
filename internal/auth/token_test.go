package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-rbac-admin/go-rbac-admin/internal/config"
	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
)

// tokenTestService builds a service without a database; token handling
// never touches storage.
func tokenTestService(secret string) *Service {
	return NewService(nil, config.Auth{
		TokenSecret:         secret,
		AccessTokenMinutes:  30,
		RefreshTokenMinutes: 60,
	})
}

func tokenTestUser(t *testing.T) *domain.User {
	t.Helper()

	u, err := domain.NewUser(domain.UserSpec{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	return u
}

func TestIssueAndParseTokens(t *testing.T) {
	s := tokenTestService("test-secret")
	u := tokenTestUser(t)

	pair, err := s.IssueTokens(u)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, int64(30*60), pair.ExpiresIn)

	claims, err := s.ParseToken(pair.AccessToken, TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, TokenKindAccess, claims.Kind)

	id, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestParseTokenRejectsWrongKind(t *testing.T) {
	s := tokenTestService("test-secret")

	pair, err := s.IssueTokens(tokenTestUser(t))
	require.NoError(t, err)

	_, err = s.ParseToken(pair.RefreshToken, TokenKindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := tokenTestService("issuer-secret")
	verifier := tokenTestService("other-secret")

	pair, err := issuer.IssueTokens(tokenTestUser(t))
	require.NoError(t, err)

	_, err = verifier.ParseToken(pair.AccessToken, TokenKindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	s := tokenTestService("test-secret")

	_, err := s.ParseToken("not-a-token", TokenKindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}
