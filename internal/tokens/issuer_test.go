package tokens

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mlazareva/go-auth-sessions/internal/config"
	"github.com/mlazareva/go-auth-sessions/internal/models"
)

func testCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:       "unit-secret",
		AccessTokenTTL:  30 * time.Second,
		RefreshTokenTTL: 24 * time.Hour,
	}
}

func testUser() *models.User {
	return &models.User{
		ID:        uuid.New(),
		Email:     "user@example.com",
		FirstName: "Alice",
		LastName:  "Smith",
	}
}

func TestIssue_PairCarriesIdentityClaims(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testCfg())
	user := testUser()

	pair, err := issuer.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	require.WithinDuration(t, time.Now().Add(testCfg().AccessTokenTTL), pair.AccessExpiresAt, 2*time.Second)

	claims, err := issuer.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, TypeAccess, claims.TokenType)
	require.Equal(t, user.ID.String(), claims.UserID)
	require.Equal(t, user.ID.String(), claims.Subject)
	require.Equal(t, user.Email, claims.Email)
	require.Equal(t, user.FirstName, claims.FirstName)
	require.Equal(t, user.LastName, claims.LastName)
}

func TestDeriveAccessToken_OK(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testCfg())
	user := testUser()

	pair, err := issuer.Issue(user)
	require.NoError(t, err)

	access, err := issuer.DeriveAccessToken(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := issuer.ParseAccessToken(access)
	require.NoError(t, err)
	require.Equal(t, user.ID.String(), claims.UserID)
	require.Equal(t, user.Email, claims.Email)
}

func TestDeriveAccessToken_RejectsAccessToken(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testCfg())

	pair, err := issuer.Issue(testUser())
	require.NoError(t, err)

	// Access-токен нельзя обменять на новый access: token_type не refresh.
	_, err = issuer.DeriveAccessToken(pair.AccessToken)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestDeriveAccessToken_TamperedSignature(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testCfg())

	pair, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = issuer.DeriveAccessToken(pair.RefreshToken + "x")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestDeriveAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testCfg())

	otherCfg := testCfg()
	otherCfg.JWTSecret = "other-secret"
	pair, err := NewIssuer(otherCfg).Issue(testUser())
	require.NoError(t, err)

	_, err = issuer.DeriveAccessToken(pair.RefreshToken)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestDeriveAccessToken_Expired(t *testing.T) {
	t.Parallel()

	cfg := testCfg()
	cfg.RefreshTokenTTL = -time.Minute // больше leeway валидации
	pair, err := NewIssuer(cfg).Issue(testUser())
	require.NoError(t, err)

	_, err = NewIssuer(testCfg()).DeriveAccessToken(pair.RefreshToken)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestDeriveAccessToken_Garbage(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testCfg())

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := issuer.DeriveAccessToken(token)
		require.Error(t, err)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestParseAccessToken_RejectsRefreshToken(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testCfg())

	pair, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = issuer.ParseAccessToken(pair.RefreshToken)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}
