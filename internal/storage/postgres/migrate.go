package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/mlazareva/go-auth-sessions/migrations"
)

// ApplyMigrations применяет все невыполненные миграции из встроенного
// каталога migrations. Повторный запуск на актуальной схеме — no-op.
func ApplyMigrations(dbURL string) error {
	const op = "storage.postgres.ApplyMigrations"

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// Драйвер golang-migrate для pgx/v5 регистрируется под схемой pgx5.
	migrateURL := dbURL
	if strings.HasPrefix(migrateURL, "postgres://") {
		migrateURL = "pgx5://" + strings.TrimPrefix(migrateURL, "postgres://")
	}

	instance, err := migrate.NewWithSourceInstance("iofs", src, migrateURL)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = instance.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", op, err)
	}

	srcErr, dbErr := instance.Close()
	if srcErr != nil {
		return fmt.Errorf("%s: %w", op, srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("%s: %w", op, dbErr)
	}

	return nil
}
