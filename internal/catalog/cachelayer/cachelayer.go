// Package cachelayer backs Capability.GetCachedValue with two tiers: an
// in-process LRU in front of Redis, promoting on
// read, matching hybrid_cache_service.go's L1/L2 split but with the LRU as
// an even faster tier ahead of Redis (SPEC_FULL's "Domain Stack").
package cachelayer

import (
	"context"
	"encoding/json"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "geosearch:cache:"

type Layer struct {
	local  *lru.Cache[string, []byte]
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func New(redisClient *redis.Client, localSize int, ttl time.Duration, logger *zap.Logger) (*Layer, error) {
	local, err := lru.New[string, []byte](localSize)
	if err != nil {
		return nil, err
	}
	return &Layer{local: local, redis: redisClient, ttl: ttl, logger: logger}, nil
}

// Get looks up namespace/key across the local LRU then Redis. On a hit it
// decodes the stored JSON into dst and returns true (with any decode
// error); on a miss it returns false.
func (l *Layer) Get(ctx context.Context, namespace, key string, dst any) (bool, error) {
	full := keyPrefix + namespace + ":" + key
	if raw, ok := l.local.Get(full); ok {
		return true, json.Unmarshal(raw, dst)
	}
	raw, err := l.redis.Get(ctx, full).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	l.local.Add(full, raw)
	return true, json.Unmarshal(raw, dst)
}

// Set populates both tiers.
func (l *Layer) Set(ctx context.Context, namespace, key string, value any) error {
	full := keyPrefix + namespace + ":" + key
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	l.local.Add(full, raw)
	return l.redis.Set(ctx, full, raw, l.ttl).Err()
}
