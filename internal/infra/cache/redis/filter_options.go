package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"aptcatalog/internal/app/policies"
	domainapartments "aptcatalog/internal/domain/apartments"
)

const (
	filterOptionsKey = "apartments:filter-options"
	// generationKey is bumped on every invalidation; fills carrying an
	// older generation are discarded.
	generationKey = "apartments:filter-options:gen"
)

// Observer receives cache hit/miss/set/del events, e.g. for metrics.
type Observer func(cache, event string)

type FilterOptionsCache struct {
	client  goredis.UniversalClient
	ttl     time.Duration
	observe Observer
}

func NewClient(addr, password string, db int) *goredis.Client {
	return goredis.NewClient(&goredis.Options{Addr: addr, Password: password, DB: db})
}

func NewFilterOptionsCache(client goredis.UniversalClient, ttl time.Duration, observe Observer) *FilterOptionsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if observe == nil {
		observe = func(string, string) {}
	}
	return &FilterOptionsCache{client: client, ttl: ttl, observe: observe}
}

func (c *FilterOptionsCache) Get(ctx context.Context) (domainapartments.FilterOptions, int64, bool, error) {
	values, err := c.client.MGet(ctx, generationKey, filterOptionsKey).Result()
	if err != nil {
		return domainapartments.FilterOptions{}, 0, false, fmt.Errorf("redis: get filter options: %w", err)
	}
	gen, err := parseGeneration(values[0])
	if err != nil {
		return domainapartments.FilterOptions{}, 0, false, err
	}
	raw, ok := values[1].(string)
	if !ok {
		c.observe("filter_options", "miss")
		return domainapartments.FilterOptions{}, gen, false, nil
	}
	var opts domainapartments.FilterOptions
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		return domainapartments.FilterOptions{}, 0, false, fmt.Errorf("redis: decode filter options: %w", err)
	}
	c.observe("filter_options", "hit")
	return opts, gen, true, nil
}

// Set stores opts only if no invalidation happened since generation was read.
func (c *FilterOptionsCache) Set(ctx context.Context, generation int64, opts domainapartments.FilterOptions) error {
	payload, err := json.Marshal(opts)
	if err != nil {
		return fmt.Errorf("redis: encode filter options: %w", err)
	}
	err = c.client.Watch(ctx, func(tx *goredis.Tx) error {
		current, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}
		if current != generation {
			return goredis.TxFailedErr
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, filterOptionsKey, payload, c.ttl)
			return nil
		})
		return err
	}, generationKey)
	switch {
	case errors.Is(err, goredis.TxFailedErr):
		c.observe("filter_options", "stale")
		return nil
	case err != nil:
		return fmt.Errorf("redis: set filter options: %w", err)
	}
	c.observe("filter_options", "set")
	return nil
}

func (c *FilterOptionsCache) Invalidate(ctx context.Context) error {
	c.observe("filter_options", "del")
	_, err := c.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, filterOptionsKey)
		return nil
	})
	return err
}

func parseGeneration(v any) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	gen, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis: decode filter options generation: %w", err)
	}
	return gen, nil
}

var _ policies.FilterOptionsCache = (*FilterOptionsCache)(nil)
