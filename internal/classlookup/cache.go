package classlookup

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"starships-server/internal/shared/redis"
	"starships-server/internal/starshipclass"

	goredis "github.com/redis/go-redis/v9"
)

// Lookup is the capacity source the cache decorates.
type Lookup interface {
	GetCapacity(ctx context.Context, classID int) (*starshipclass.Capacity, error)
}

// Cache keeps resolved capacities in Redis. With a nil client every call goes to next.
// Redis failures are logged and never fail a lookup.
type Cache struct {
	next   Lookup
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCache(next Lookup, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// SetNext swaps the decorated lookup. The class service and the cache depend on each other,
// so the local lookup is attached after both exist.
func (c *Cache) SetNext(next Lookup) {
	c.next = next
}

func capacityKey(classID int) string {
	return fmt.Sprintf("starship-class:capacity:%d", classID)
}

// generationKey is bumped by Invalidate. Fills watch it, so a fill that read a capacity
// before an invalidation never writes it back afterwards.
func generationKey(classID int) string {
	return fmt.Sprintf("starship-class:capacity-gen:%d", classID)
}

func (c *Cache) GetCapacity(ctx context.Context, classID int) (*starshipclass.Capacity, error) {
	if c.client == nil {
		return c.next.GetCapacity(ctx, classID)
	}

	logger := c.logger.With("component", "capacity_cache", "operation", "get_capacity", "class_id", classID)
	key := capacityKey(classID)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var capacity starshipclass.Capacity
		if err := json.Unmarshal(raw, &capacity); err == nil {
			logger.Debug("Capacity cache hit")
			return &capacity, nil
		}
		logger.Warn("Discarding malformed cached capacity")
	} else if !redis.IsNil(err) {
		logger.Warn("Capacity cache read failed", "error", err)
	}

	var capacity *starshipclass.Capacity
	var lookupErr error
	err := c.client.Watch(ctx, func(tx *goredis.Tx) error {
		capacity, lookupErr = c.next.GetCapacity(ctx, classID)
		if lookupErr != nil {
			return lookupErr
		}

		raw, err := json.Marshal(capacity)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, raw, c.ttl)
			return nil
		})
		return err
	}, generationKey(classID))

	switch {
	case lookupErr != nil:
		return nil, lookupErr
	case capacity == nil:
		logger.Warn("Capacity cache unavailable", "error", err)
		return c.next.GetCapacity(ctx, classID)
	case stderrors.Is(err, goredis.TxFailedErr):
		logger.Debug("Capacity invalidated during lookup, not cached")
	case err != nil:
		logger.Warn("Capacity cache write failed", "error", err)
	}

	return capacity, nil
}

// Invalidate drops the cached capacity of classID and aborts fills still in flight.
func (c *Cache) Invalidate(ctx context.Context, classID int) error {
	if c.client == nil {
		return nil
	}

	_, err := c.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(classID))
		pipe.Del(ctx, capacityKey(classID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate capacity of class %d: %w", classID, err)
	}

	c.logger.Debug("Capacity cache invalidated", "class_id", classID)
	return nil
}
