package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mlazareva/go-auth-sessions/internal/models"
	"github.com/mlazareva/go-auth-sessions/internal/pkg/log"
	"github.com/mlazareva/go-auth-sessions/internal/pkg/redact"
	"github.com/mlazareva/go-auth-sessions/internal/storage"
)

// RegisterInput — входные данные регистрации.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// RegisterUser регистрирует нового пользователя и выпускает для него пару
// токенов; refresh-токен кладётся в кэш под UUID пользователя.
func (s *Service) RegisterUser(ctx context.Context, in RegisterInput) (*models.User, *models.TokenPair, error) {
	const op = "service.auth.RegisterUser"

	normEmail := normalizeEmail(in.Email)

	// Проверка занятости email идёт до валидации полей — так себя ведёт
	// продуктовый сценарий: "аккаунт уже существует" важнее деталей формы.
	if normEmail != "" {
		_, err := s.storage.UserByEmail(ctx, normEmail)
		if err == nil {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if verr := validateRegisterInput(normEmail, in); verr != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, verr)
	}

	hashedPassword, err := hashPassword(in.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Email:        normEmail,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := s.issueAndCache(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("user_registered",
		slog.String("user_id", user.ID.String()),
		slog.String("email", redact.Email(user.Email)),
	)

	return user, pair, nil
}

// LoginUser выполняет вход по email+пароль. Неизвестный email и неверный
// пароль неразличимы для вызывающего.
func (s *Service) LoginUser(ctx context.Context, email, password string) (uuid.UUID, *models.TokenPair, error) {
	const op = "service.auth.LoginUser"

	normEmail := normalizeEmail(email)
	if normEmail == "" || len(password) == 0 {
		return uuid.Nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.storage.UserByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return uuid.Nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return uuid.Nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.PasswordHash, password) {
		return uuid.Nil, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := s.issueAndCache(ctx, user)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("user_logged_in",
		slog.String("user_id", user.ID.String()),
		slog.String("email", redact.Email(user.Email)),
	)

	return user.ID, pair, nil
}

// issueAndCache выпускает пару токенов и перезаписывает запись в кэше.
// На пользователя в кэше живёт ровно один refresh-токен.
func (s *Service) issueAndCache(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	const op = "service.auth.issueAndCache"

	pair, err := s.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.tcache.Put(ctx, user.ID, pair.RefreshToken, s.cfg.CacheTTL); err != nil {
		log.From(ctx).Error("token_cache_put_failed",
			slog.String("op", op),
			slog.String("user_id", user.ID.String()),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, nil
}

// hashPassword хэширует пароль с помощью bcrypt.
func hashPassword(password string) (string, error) {
	const op = "service.auth.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// normalizeEmail обрезает пробелы и приводит email к нижнему регистру.
func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// validateRegisterInput собирает пополевые ошибки валидации регистрации.
func validateRegisterInput(normEmail string, in RegisterInput) *ValidationError {
	fields := make(map[string][]string)

	switch {
	case normEmail == "":
		fields["email"] = append(fields["email"], "This field is required.")
	default:
		if _, err := mail.ParseAddress(normEmail); err != nil {
			fields["email"] = append(fields["email"], "Enter a valid email address.")
		}
	}

	if len(in.Password) == 0 {
		fields["password"] = append(fields["password"], "This field is required.")
	}

	if strings.TrimSpace(in.FirstName) == "" {
		fields["first_name"] = append(fields["first_name"], "This field is required.")
	}

	if strings.TrimSpace(in.LastName) == "" {
		fields["last_name"] = append(fields["last_name"], "This field is required.")
	}

	if len(fields) == 0 {
		return nil
	}

	return &ValidationError{Fields: fields}
}
