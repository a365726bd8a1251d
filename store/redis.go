package store

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/apex/log"
	"github.com/redis/go-redis/v9"
	"github.com/yourusername/eprbridge/core"
)

// KeyPrefix namespaces every key written by RedisStore
const KeyPrefix = "eprbridge:"

// RedisStore publishes pool snapshots to Redis so that experiment harnesses
// running outside the bridge container can follow the pool level
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration // How long a snapshot survives without updates
	logger log.Interface
	broken atomic.Bool // Last write failed
}

// Ensure RedisStore implements Store interface
var _ Store = (*RedisStore)(nil)

// RedisConfig for creating a Redis store
type RedisConfig struct {
	Addr     string        // Redis address (e.g., "localhost:6379")
	Password string        // Redis password (empty for no auth)
	DB       int           // Redis database number
	TTL      time.Duration // TTL for snapshots (default: 1 minute)

	DialTimeout time.Duration // Optional: go-redis default when zero
	Logger      log.Interface // Optional: defaults to log.Log
}

// NewRedisStore creates a new Redis-backed store
func NewRedisStore(config RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,

		DialTimeout: config.DialTimeout,
	})

	ttl := config.TTL
	if ttl == 0 {
		ttl = 1 * time.Minute // Default TTL
	}

	logger := config.Logger
	if logger == nil {
		logger = log.Log
	}

	return &RedisStore{
		client: client,
		ctx:    context.Background(),
		ttl:    ttl,
		logger: logger,
	}
}

// Get retrieves the snapshot for a given key
func (s *RedisStore) Get(key string) *core.PoolSnapshot {
	val, err := s.client.Get(s.ctx, KeyPrefix+key).Result()
	if err != nil {
		// Key doesn't exist or error occurred
		return nil
	}

	var snapshot core.PoolSnapshot
	if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
		return nil
	}
	return &snapshot
}

// Set stores the snapshot for a given key
func (s *RedisStore) Set(key string, snapshot *core.PoolSnapshot) {
	if snapshot == nil {
		return
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	s.report(key, s.client.Set(s.ctx, KeyPrefix+key, data, s.ttl).Err())
}

// report logs the first failed write and the first success after it
func (s *RedisStore) report(key string, err error) {
	if err != nil {
		if !s.broken.Swap(true) {
			s.logger.Warnf("redis: cannot publish snapshot %s: %s", key, err.Error())
		}
		return
	}
	if s.broken.Swap(false) {
		s.logger.Infof("redis: publishing snapshot %s again", key)
	}
}

// Delete removes the snapshot for a given key
func (s *RedisStore) Delete(key string) {
	s.client.Del(s.ctx, KeyPrefix+key)
}

// Clear removes all eprbridge keys from Redis
func (s *RedisStore) Clear() {
	iter := s.client.Scan(s.ctx, 0, KeyPrefix+"*", 0).Iterator()
	for iter.Next(s.ctx) {
		s.client.Del(s.ctx, iter.Val())
	}
}

// Ping checks if Redis connection is alive
func (s *RedisStore) Ping() error {
	return s.client.Ping(s.ctx).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
