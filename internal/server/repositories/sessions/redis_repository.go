package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountd/internal/common"
	"github.com/dmitrijs2005/accountd/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisRepository keeps the per-user session as a JSON blob under
// "session:<userID>" with a TTL equal to the refresh-token validity, so
// expired sessions disappear without a reaper.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) Create(ctx context.Context, userID string, token string, validity time.Duration) error {

	session := &models.Session{
		UserID:    userID,
		Token:     token,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(validity),
	}

	blob, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	if err := r.client.Set(ctx, keyPrefix+userID, blob, validity).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	return nil
}

func (r *RedisRepository) Get(ctx context.Context, userID string) (*models.Session, error) {

	blob, err := r.client.Get(ctx, keyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}

	session := &models.Session{}
	if err := json.Unmarshal(blob, session); err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}

	return session, nil
}

func (r *RedisRepository) Delete(ctx context.Context, userID string) error {

	// DEL on a missing key returns 0 and is not an error.
	if err := r.client.Del(ctx, keyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}

	return nil
}
