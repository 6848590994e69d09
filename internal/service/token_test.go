package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mlazareva/go-auth-sessions/internal/config"
	"github.com/mlazareva/go-auth-sessions/internal/models"
	"github.com/mlazareva/go-auth-sessions/internal/tokens"
)

func testUser() *models.User {
	return &models.User{
		ID:        uuid.New(),
		Email:     "user@example.com",
		FirstName: "Alice",
		LastName:  "Smith",
	}
}

// issueRefresh выпускает настоящий refresh-токен для тестов потока обновления.
func issueRefresh(t *testing.T, cfg config.AuthConfig, user *models.User) string {
	t.Helper()
	pair, err := tokens.NewIssuer(cfg).Issue(user)
	require.NoError(t, err)
	return pair.RefreshToken
}

func TestCachedRefreshToken_OK(t *testing.T) {
	t.Parallel()

	svc, _, tc, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()
	tc.EXPECT().Get(gomock.Any(), uid).Return("cached-refresh", true, nil)

	token, err := svc.CachedRefreshToken(context.Background(), uid)
	require.NoError(t, err)
	require.Equal(t, "cached-refresh", token)
}

func TestCachedRefreshToken_Miss_NotFound(t *testing.T) {
	t.Parallel()

	svc, _, tc, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()
	tc.EXPECT().Get(gomock.Any(), uid).Return("", false, nil)

	_, err := svc.CachedRefreshToken(context.Background(), uid)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCachedRefreshToken_CacheError_Propagated(t *testing.T) {
	t.Parallel()

	svc, _, tc, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()
	tc.EXPECT().Get(gomock.Any(), uid).Return("", false, errors.New("redis down"))

	_, err := svc.CachedRefreshToken(context.Background(), uid)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestRefreshAccessToken_OK_SubjectClaimsPreserved(t *testing.T) {
	t.Parallel()

	svc, _, tc, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser()
	refresh := issueRefresh(t, testCfg(), user)

	tc.EXPECT().Get(gomock.Any(), user.ID).Return(refresh, true, nil)

	access, err := svc.RefreshAccessToken(context.Background(), user.ID, refresh)
	require.NoError(t, err)
	require.NotEmpty(t, access)

	// Новый access-токен несёт те же identity-клеймы, что и исходный пользователь.
	claims, err := tokens.NewIssuer(testCfg()).ParseAccessToken(access)
	require.NoError(t, err)
	require.Equal(t, user.ID.String(), claims.UserID)
	require.Equal(t, user.Email, claims.Email)
	require.Equal(t, user.FirstName, claims.FirstName)
	require.Equal(t, user.LastName, claims.LastName)
}

func TestRefreshAccessToken_NoCachedSession_NotFound(t *testing.T) {
	t.Parallel()

	svc, _, tc, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()
	tc.EXPECT().Get(gomock.Any(), uid).Return("", false, nil)

	_, err := svc.RefreshAccessToken(context.Background(), uid, "whatever")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRefreshAccessToken_EmptyToken_AfterCacheCheck(t *testing.T) {
	t.Parallel()

	svc, _, tc, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()
	// Проверка кэша идёт первой — и только потом наличие токена во входе.
	tc.EXPECT().Get(gomock.Any(), uid).Return("cached", true, nil)

	_, err := svc.RefreshAccessToken(context.Background(), uid, "")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrEmptyRefreshToken)
}

func TestRefreshAccessToken_TamperedToken_EvictsCacheEntry(t *testing.T) {
	t.Parallel()

	svc, _, tc, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser()
	refresh := issueRefresh(t, testCfg(), user)
	tampered := refresh + "x"

	tc.EXPECT().Get(gomock.Any(), user.ID).Return(refresh, true, nil)
	tc.EXPECT().Delete(gomock.Any(), user.ID).Return(nil)

	_, err := svc.RefreshAccessToken(context.Background(), user.ID, tampered)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshAccessToken_ExpiredToken_EvictsCacheEntry(t *testing.T) {
	t.Parallel()

	svc, _, tc, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser()

	// Истёкший refresh: отрицательный TTL с запасом больше leeway валидации.
	expiredCfg := testCfg()
	expiredCfg.RefreshTokenTTL = -time.Minute
	expired := issueRefresh(t, expiredCfg, user)

	tc.EXPECT().Get(gomock.Any(), user.ID).Return(expired, true, nil)
	tc.EXPECT().Delete(gomock.Any(), user.ID).Return(nil)

	_, err := svc.RefreshAccessToken(context.Background(), user.ID, expired)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}

// TestRefreshAccessToken_DoesNotCompareWithCachedValue фиксирует известную
// особенность потока: кэш проверяется только на наличие записи, предъявленный
// токен с закэшированным значением не сравнивается. Любой криптографически
// валидный refresh-токен обменивается на access, пока запись существует.
func TestRefreshAccessToken_DoesNotCompareWithCachedValue(t *testing.T) {
	t.Parallel()

	svc, _, tc, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser()
	cached := issueRefresh(t, testCfg(), user)
	other := issueRefresh(t, testCfg(), testUser()) // валидный токен другого пользователя

	tc.EXPECT().Get(gomock.Any(), user.ID).Return(cached, true, nil)

	access, err := svc.RefreshAccessToken(context.Background(), user.ID, other)
	require.NoError(t, err)
	require.NotEmpty(t, access)
}

func TestRefreshAccessToken_CacheDeleteErrorDoesNotMaskTokenError(t *testing.T) {
	t.Parallel()

	svc, _, tc, ctrl := newSvc(t)
	defer ctrl.Finish()

	uid := uuid.New()
	tc.EXPECT().Get(gomock.Any(), uid).Return("cached", true, nil)
	tc.EXPECT().Delete(gomock.Any(), uid).Return(errors.New("redis down"))

	_, err := svc.RefreshAccessToken(context.Background(), uid, "garbage")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidToken)
}
