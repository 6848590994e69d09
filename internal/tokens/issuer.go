// tokens инкапсулирует выпуск и проверку подписанных токенов.
// Конкретный алгоритм подписи (HS256 с общим секретом процесса) —
// деталь реализации этого пакета, оркестрация его не знает.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mlazareva/go-auth-sessions/internal/config"
	"github.com/mlazareva/go-auth-sessions/internal/models"
)

var (
	// ErrInvalidToken — токен некорректен по формату/подписи/типу.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired — срок действия токена истёк.
	ErrTokenExpired = errors.New("token expired")
)

// Типы токенов в клейме token_type.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims — identity-клеймы, встраиваемые в оба токена пары.
type Claims struct {
	TokenType string `json:"token_type"`
	UserID    string `json:"uid"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer выпускает и валидирует пары токенов. Состояния не хранит;
// безопасен для конкурентного использования.
type Issuer struct {
	cfg config.AuthConfig
}

// NewIssuer создаёт Issuer с параметрами из конфигурации.
func NewIssuer(cfg config.AuthConfig) *Issuer {
	return &Issuer{cfg: cfg}
}

// Issue выпускает пару токенов для пользователя: долгоживущий refresh
// с identity-клеймами и короткоживущий access, производный от него.
func (i *Issuer) Issue(user *models.User) (*models.TokenPair, error) {
	const op = "tokens.Issue"

	now := time.Now().UTC()

	refresh, err := i.sign(user.ID.String(), user.FirstName, user.LastName, user.Email, TypeRefresh, now, i.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	access, err := i.sign(user.ID.String(), user.FirstName, user.LastName, user.Email, TypeAccess, now, i.cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:     access,
		RefreshToken:    refresh,
		AccessExpiresAt: now.Add(i.cfg.AccessTokenTTL),
	}, nil
}

// DeriveAccessToken проверяет refresh-токен и выпускает новый access-токен
// с теми же identity-клеймами. Просроченный или неподписанный токен —
// ErrTokenExpired/ErrInvalidToken соответственно.
func (i *Issuer) DeriveAccessToken(refreshToken string) (string, error) {
	const op = "tokens.DeriveAccessToken"

	claims, err := i.parse(refreshToken)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if claims.TokenType != TypeRefresh {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	now := time.Now().UTC()

	access, err := i.sign(claims.UserID, claims.FirstName, claims.LastName, claims.Email, TypeAccess, now, i.cfg.AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return access, nil
}

// ParseAccessToken валидирует access-токен и возвращает его клеймы.
func (i *Issuer) ParseAccessToken(accessToken string) (*Claims, error) {
	const op = "tokens.ParseAccessToken"

	claims, err := i.parse(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if claims.TokenType != TypeAccess {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}

func (i *Issuer) sign(userID, firstName, lastName, email, tokenType string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		TokenType: tokenType,
		UserID:    userID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(i.cfg.JWTSecret))
}

func (i *Issuer) parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, ErrInvalidToken
			}

			return []byte(i.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}

		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
