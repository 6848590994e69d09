package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mlazareva/go-auth-sessions/internal/pkg/log"
	"github.com/mlazareva/go-auth-sessions/internal/tokens"
)

// CachedRefreshToken возвращает закэшированный refresh-токен пользователя.
// Отсутствие записи (включая пассивное истечение TTL) — ErrNotFound.
func (s *Service) CachedRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	const op = "service.token.CachedRefreshToken"

	token, ok, err := s.tcache.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if !ok {
		return "", fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return token, nil
}

// RefreshAccessToken выпускает новый access-токен по refresh-токену.
//
// Порядок проверок повторяет продуктовое поведение:
//  1. наличие записи в кэше по userID (сам предъявленный токен с закэшированным
//     значением НЕ сравнивается — известная особенность потока);
//  2. наличие refresh-токена во входе;
//  3. криптографическая проверка предъявленного токена.
//
// При невалидном/просроченном токене запись в кэше удаляется.
func (s *Service) RefreshAccessToken(ctx context.Context, userID uuid.UUID, refreshToken string) (string, error) {
	const op = "service.token.RefreshAccessToken"

	lg := log.From(ctx)

	_, ok, err := s.tcache.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if !ok {
		lg.Warn("refresh_cache_miss",
			slog.String("op", op),
			slog.String("user_id", userID.String()),
		)
		return "", fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if refreshToken == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyRefreshToken)
	}

	access, err := s.issuer.DeriveAccessToken(refreshToken)
	if err != nil {
		if errors.Is(err, tokens.ErrInvalidToken) || errors.Is(err, tokens.ErrTokenExpired) {
			// Коррекция: невалидный токен инвалидирует сессию в кэше.
			if delErr := s.tcache.Delete(ctx, userID); delErr != nil {
				lg.Error("token_cache_delete_failed",
					slog.String("op", op),
					slog.String("user_id", userID.String()),
					slog.String("err", delErr.Error()),
				)
			}

			lg.Warn("refresh_token_rejected",
				slog.String("op", op),
				slog.String("user_id", userID.String()),
			)

			return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return access, nil
}
