package repositories

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/walletapp/digital-wallet/internal/logger"
)

// ErrCacheMiss is returned when no balance is cached for the user.
var ErrCacheMiss = fmt.Errorf("balance not found in cache")

// BalanceCacheRepository caches wallet balances in Redis. Ledger writes
// invalidate the affected keys, so a hit is never older than the last write.
type BalanceCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration duration for cached balances
}

// NewBalanceCacheRepository creates a new repository instance with the given TTL.
func NewBalanceCacheRepository(client *redis.Client, expiration time.Duration) *BalanceCacheRepository {
	return &BalanceCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func balanceKey(userID uuid.UUID) string {
	return fmt.Sprintf("wallet:balance:%s", userID)
}

// Get fetches the cached balance for a user. Returns ErrCacheMiss when absent.
func (r *BalanceCacheRepository) Get(ctx context.Context, userID uuid.UUID) (float64, error) {
	key := balanceKey(userID)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		logger.Log.Infow("balance cache get",
			"key", key,
			"error", err,
		)
		if err == redis.Nil {
			return 0, ErrCacheMiss
		}
		return 0, err
	}

	balance, err := strconv.ParseFloat(val, 64)
	if err != nil {
		logger.Log.Infow("balance cache get",
			"key", key,
			"value", val,
			"error", err,
		)
		return 0, err
	}

	logger.Log.Infow("balance cache get",
		"key", key,
		"result", balance,
		"error", nil,
	)

	return balance, nil
}

// Set caches a user's balance with expiration.
func (r *BalanceCacheRepository) Set(ctx context.Context, userID uuid.UUID, balance float64) error {
	key := balanceKey(userID)
	err := r.client.Set(ctx, key, strconv.FormatFloat(balance, 'f', -1, 64), r.exp).Err()

	logger.Log.Infow("balance cache set",
		"key", key,
		"balance", balance,
		"error", err,
	)

	return err
}

// Invalidate drops the cached balances for the given users.
func (r *BalanceCacheRepository) Invalidate(ctx context.Context, userIDs ...uuid.UUID) error {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, balanceKey(id))
	}
	if len(keys) == 0 {
		return nil
	}

	err := r.client.Del(ctx, keys...).Err()

	logger.Log.Infow("balance cache invalidate",
		"keys", keys,
		"error", err,
	)

	return err
}
