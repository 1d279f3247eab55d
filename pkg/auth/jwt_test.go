package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushpatil0810/carebridge/internal/config"
	"github.com/ayushpatil0810/carebridge/internal/domain"
)

func testManager() *JWTManager {
	return NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-at-least-32-characters!!",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "carebridge-test",
	})
}

func testClaims() *domain.Claims {
	return &domain.Claims{
		UserID: uuid.New(),
		Email:  "recorder@example.org",
		Role:   domain.RoleFieldRecorder,
	}
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	m := testManager()
	claims := testClaims()

	pair, err := m.GenerateTokenPair(claims)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	got, err := m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, got.UserID)
	assert.Equal(t, claims.Email, got.Email)
	assert.Equal(t, domain.RoleFieldRecorder, got.Role)
}

// A refresh token is never accepted where an access token is expected, and
// vice versa.
func TestTokenTypeMismatch(t *testing.T) {
	m := testManager()

	pair, err := m.GenerateTokenPair(testClaims())
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)

	_, err = m.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	m := testManager()
	pair, err := m.GenerateTokenPair(testClaims())
	require.NoError(t, err)

	other := NewJWTManager(config.JWTConfig{
		Secret:          "a-completely-different-signing-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "carebridge-test",
	})

	_, err = other.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	issuer := NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-at-least-32-characters!!",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "someone-else",
	})
	pair, err := issuer.GenerateTokenPair(testClaims())
	require.NoError(t, err)

	_, err = testManager().ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	m := NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-at-least-32-characters!!",
		AccessTokenTTL:  -time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "carebridge-test",
	})
	pair, err := m.GenerateTokenPair(testClaims())
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := testManager().ValidateAccessToken("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
