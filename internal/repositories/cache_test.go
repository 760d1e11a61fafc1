package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/walletapp/digital-wallet/internal/logger"
)

func TestBalanceCacheRepository(t *testing.T) {
	logger.Initialize("debug")
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7.0-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)
	defer redisC.Terminate(ctx)

	host, err := redisC.Host(ctx)
	assert.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	assert.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})
	defer rdb.Close()

	err = rdb.Ping(ctx).Err()
	assert.NoError(t, err)

	repo := NewBalanceCacheRepository(rdb, 2*time.Second)

	t.Run("Set and Get balance", func(t *testing.T) {
		userID := uuid.New()

		err := repo.Set(ctx, userID, 123.45)
		assert.NoError(t, err)

		got, err := repo.Get(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, 123.45, got)
	})

	t.Run("Get missing key returns cache miss", func(t *testing.T) {
		_, err := repo.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("Invalidate drops cached balances", func(t *testing.T) {
		alice := uuid.New()
		bob := uuid.New()

		assert.NoError(t, repo.Set(ctx, alice, 10))
		assert.NoError(t, repo.Set(ctx, bob, 20))

		assert.NoError(t, repo.Invalidate(ctx, alice, bob))

		_, err := repo.Get(ctx, alice)
		assert.ErrorIs(t, err, ErrCacheMiss)
		_, err = repo.Get(ctx, bob)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("Invalidate with no users is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.Invalidate(ctx))
	})

	t.Run("Cached balance expires", func(t *testing.T) {
		userID := uuid.New()

		assert.NoError(t, repo.Set(ctx, userID, 50))

		time.Sleep(3 * time.Second)

		_, err := repo.Get(ctx, userID)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}
