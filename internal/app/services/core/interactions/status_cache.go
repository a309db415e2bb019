package interactions

import (
	"context"
	"time"

	"fhirhub-service/internal/app/contracts"

	"github.com/goccy/go-json"
)

const statusCacheKeyPrefix = "interaction:status:"

// StatusCache keeps the latest persisted transition per interaction in redis
// so the status endpoint rarely touches the durable store.
type StatusCache struct {
	redis contracts.RedisRepository
	ttl   time.Duration
}

func NewStatusCache(redisRepository contracts.RedisRepository, ttl time.Duration) *StatusCache {
	return &StatusCache{
		redis: redisRepository,
		ttl:   ttl,
	}
}

func (c *StatusCache) Put(ctx context.Context, record *contracts.StateTransitionRecord) error {
	return c.redis.Set(ctx, statusCacheKeyPrefix+record.InteractionID, record, c.ttl)
}

func (c *StatusCache) Get(ctx context.Context, interactionID string) (*contracts.StateTransitionRecord, error) {
	data, err := c.redis.Get(ctx, statusCacheKeyPrefix+interactionID)
	if err != nil || data == "" {
		return nil, err
	}
	record := new(contracts.StateTransitionRecord)
	if err := json.Unmarshal([]byte(data), record); err != nil {
		return nil, err
	}
	return record, nil
}
