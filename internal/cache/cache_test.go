package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Файл интеграционных тестов для пакета cache:
// - поднимает реальный Redis через testcontainers-go (образ redis:7-alpine);
// - проверяет roundtrip put/get, перезапись записи, идемпотентность delete,
//   истечение TTL и промах по отсутствующему ключу.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/cache -v -race -count=1

// startRedis — поднимает временный Redis через testcontainers-go и возвращает
// инициализированный кэш и функцию очистки. Если переменная окружения
// GO_TEST_INTEGRATION не установлена — тест пропускается.
func startRedis(t *testing.T) (TokenCache, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "6379/tcp")

	tcache, err := NewRedisCache(fmt.Sprintf("redis://%s:%s/0", host, port.Port()), "")
	require.NoError(t, err)

	cleanup := func() {
		_ = tcache.Close()
		_ = c.Terminate(context.Background())
	}
	return tcache, cleanup
}

// TestIntegration_PutGet_Roundtrip — happy-path: запись читается обратно 1:1.
func TestIntegration_PutGet_Roundtrip(t *testing.T) {
	tcache, cleanup := startRedis(t)
	defer cleanup()

	uid := uuid.New()
	require.NoError(t, tcache.Put(context.Background(), uid, "refresh-token-value", time.Hour))

	got, ok, err := tcache.Get(context.Background(), uid)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "refresh-token-value", got)
}

// TestIntegration_Put_OverwritesExistingEntry — повторный Put под тем же UUID
// перезаписывает значение (на пользователя живёт ровно одна запись).
func TestIntegration_Put_OverwritesExistingEntry(t *testing.T) {
	tcache, cleanup := startRedis(t)
	defer cleanup()

	uid := uuid.New()
	require.NoError(t, tcache.Put(context.Background(), uid, "old-token", time.Hour))
	require.NoError(t, tcache.Put(context.Background(), uid, "new-token", time.Hour))

	got, ok, err := tcache.Get(context.Background(), uid)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "new-token", got)
}

// TestIntegration_Get_MissForUnknownKey — промах по неизвестному UUID:
// нет ошибки, ok == false.
func TestIntegration_Get_MissForUnknownKey(t *testing.T) {
	tcache, cleanup := startRedis(t)
	defer cleanup()

	got, ok, err := tcache.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, got)
}

// TestIntegration_Delete_RemovesEntry_AndIsIdempotent — Delete убирает запись;
// повторный Delete по отсутствующему ключу не ошибка.
func TestIntegration_Delete_RemovesEntry_AndIsIdempotent(t *testing.T) {
	tcache, cleanup := startRedis(t)
	defer cleanup()

	uid := uuid.New()
	require.NoError(t, tcache.Put(context.Background(), uid, "token", time.Hour))
	require.NoError(t, tcache.Delete(context.Background(), uid))

	_, ok, err := tcache.Get(context.Background(), uid)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, tcache.Delete(context.Background(), uid))
}

// TestIntegration_TTL_ExpiresEntry — запись исчезает после истечения TTL.
func TestIntegration_TTL_ExpiresEntry(t *testing.T) {
	tcache, cleanup := startRedis(t)
	defer cleanup()

	uid := uuid.New()
	require.NoError(t, tcache.Put(context.Background(), uid, "short-lived", time.Second))

	_, ok, err := tcache.Get(context.Background(), uid)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(1500 * time.Millisecond)

	_, ok, err = tcache.Get(context.Background(), uid)
	require.NoError(t, err)
	require.False(t, ok)
}

// TestIntegration_KeysAreIsolatedByUUID — записи разных пользователей независимы.
func TestIntegration_KeysAreIsolatedByUUID(t *testing.T) {
	tcache, cleanup := startRedis(t)
	defer cleanup()

	a, b := uuid.New(), uuid.New()
	require.NoError(t, tcache.Put(context.Background(), a, "token-a", time.Hour))
	require.NoError(t, tcache.Put(context.Background(), b, "token-b", time.Hour))

	require.NoError(t, tcache.Delete(context.Background(), a))

	got, ok, err := tcache.Get(context.Background(), b)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "token-b", got)
}
