// service содержит бизнес-логику сервиса аккаунтов и сессионных токенов:
// регистрацию/аутентификацию пользователей, выпуск и обновление токенов
// и работу с кэшем refresh-токенов через явные коллабораторы.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданные хранилище и кэш потокобезопасны.
//   - Ошибки возвращаются и далее маппятся транспортом на HTTP-статусы
//     (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mlazareva/go-auth-sessions/internal/cache"
	"github.com/mlazareva/go-auth-sessions/internal/config"
	"github.com/mlazareva/go-auth-sessions/internal/models"
	"github.com/mlazareva/go-auth-sessions/internal/storage"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// Случаи неразличимы намеренно (защита от перебора аккаунтов).
	// Транспорт: HTTP 404 "Email or Password is not Valid".
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken — e-mail уже занят другим пользователем.
	// Транспорт: HTTP 403.
	ErrEmailTaken = errors.New("email already taken")

	// ErrNotFound — в кэше нет записи для запрошенного идентификатора.
	// Транспорт: HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrEmptyRefreshToken — в запросе на обновление не передан refresh-токен.
	// Транспорт: HTTP 403.
	ErrEmptyRefreshToken = errors.New("refresh token required")

	// ErrInvalidToken — refresh-токен некорректен по подписи или просрочен.
	// Побочный эффект: запись в кэше для этого пользователя удаляется.
	// Транспорт: HTTP 400.
	ErrInvalidToken = errors.New("token is invalid or expired")
)

// ValidationError — ошибка валидации входных полей с пополевой детализацией.
// Транспорт: HTTP 403 с картой поле -> сообщения.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

// TokenIssuer выпускает и проверяет подписанные пары токенов.
type TokenIssuer interface {
	// Issue выпускает пару access+refresh для пользователя.
	Issue(user *models.User) (*models.TokenPair, error)
	// DeriveAccessToken проверяет refresh-токен и выпускает новый access-токен.
	DeriveAccessToken(refreshToken string) (string, error)
}

// Service описывает бизнес-логику сервиса.
type Service struct {
	storage storage.Storage
	tcache  cache.TokenCache
	issuer  TokenIssuer
	cfg     config.AuthConfig
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, tcache cache.TokenCache, issuer TokenIssuer, cfg config.AuthConfig) *Service {
	return &Service{
		storage: storage,
		tcache:  tcache,
		issuer:  issuer,
		cfg:     cfg,
	}
}
