package database

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"datamilo/logger"
)

const cacheKeyPrefix = "datamilo:sql:"

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// CachedExecutor memoizes query results in redis keyed by statement text.
// Cache failures are logged and never fail a query.
type CachedExecutor struct {
	next   Executor
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

func NewCachedExecutor(next Executor, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedExecutor {
	return &CachedExecutor{next: next, client: client, ttl: ttl, log: log}
}

// CacheKey returns the redis key for a statement.
func CacheKey(statement string) string {
	sum := sha256.Sum256([]byte(statement))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *CachedExecutor) Execute(ctx context.Context, statement string) (*QueryResult, error) {
	key := CacheKey(statement)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		result, decodeErr := decodeResult(raw)
		if decodeErr == nil {
			c.log.Debug("Query cache hit", map[string]interface{}{"key": key})
			return result, nil
		}
		c.log.Warn("Discarding unreadable cache entry", map[string]interface{}{"key": key, "error": decodeErr.Error()})
	case !errors.Is(err, redis.Nil):
		c.log.Warn("Query cache unavailable", map[string]interface{}{"error": err.Error()})
	}

	result, err := c.next.Execute(ctx, statement)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return result, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn("Failed to store query result", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return result, nil
}

func (c *CachedExecutor) Close() error {
	return errors.Join(c.next.Close(), c.client.Close())
}

func decodeResult(raw []byte) (*QueryResult, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var result QueryResult
	if err := dec.Decode(&result); err != nil {
		return nil, err
	}
	for _, row := range result.Rows {
		for col, v := range row {
			n, ok := v.(json.Number)
			if !ok {
				continue
			}
			if i, err := n.Int64(); err == nil {
				row[col] = i
			} else if f, err := n.Float64(); err == nil {
				row[col] = f
			}
		}
	}
	if result.Rows == nil {
		result.Rows = []Row{}
	}
	return &result, nil
}
