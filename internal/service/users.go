package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mlazareva/go-auth-sessions/internal/models"
	"github.com/mlazareva/go-auth-sessions/internal/pkg/log"
	"github.com/mlazareva/go-auth-sessions/internal/pkg/redact"
	"github.com/mlazareva/go-auth-sessions/internal/storage"
)

// ListUsers возвращает всех пользователей.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "service.users.ListUsers"

	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

// EnsureSuperuser создаёт суперпользователя, если аккаунта с таким email
// ещё нет. Используется на старте процесса вместо админ-панели.
func (s *Service) EnsureSuperuser(ctx context.Context, email, password, firstName, lastName string) error {
	const op = "service.users.EnsureSuperuser"

	normEmail := normalizeEmail(email)
	if normEmail == "" || len(password) == 0 {
		return fmt.Errorf("%s: superuser email and password must be set", op)
	}

	_, err := s.storage.UserByEmail(ctx, normEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Email:        normEmail,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		PasswordHash: hashedPassword,
		IsSuperuser:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		// Гонка с параллельным стартом другого инстанса — не ошибка.
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("superuser_created",
		slog.String("user_id", user.ID.String()),
		slog.String("email", redact.Email(user.Email)),
	)

	return nil
}
