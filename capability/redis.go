package capability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	lab "github.com/BrenchCC/LLM-Lab"
)

// DefaultRedisKey is the hash that holds every record.
const DefaultRedisKey = "llmlab:model_capabilities"

// RedisStore keeps records as fields of one Redis hash, so several
// processes share detections without racing on a file.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

// NewRedisStore returns a store over client using hash key. An empty key
// uses DefaultRedisKey.
func NewRedisStore(client redis.Cmdable, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// Get retrieves a record by cache key.
func (r *RedisStore) Get(ctx context.Context, key string) (lab.ModelCapabilities, bool, error) {
	raw, err := r.client.HGet(ctx, r.key, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return lab.ModelCapabilities{}, false, nil
	}
	if err != nil {
		return lab.ModelCapabilities{}, false, fmt.Errorf("redis capability get: %w", err)
	}
	caps, err := decodeRecord(raw)
	if err != nil {
		return lab.ModelCapabilities{}, false, fmt.Errorf("capability cache record %s: %w", key, err)
	}
	return caps, true, nil
}

// Set stores a record by cache key.
func (r *RedisStore) Set(ctx context.Context, key string, caps lab.ModelCapabilities) error {
	raw, err := json.Marshal(caps)
	if err != nil {
		return err
	}
	if err := r.client.HSet(ctx, r.key, key, raw).Err(); err != nil {
		return fmt.Errorf("redis capability set: %w", err)
	}
	return nil
}

// Load returns every well-formed record in the hash.
func (r *RedisStore) Load(ctx context.Context) (map[string]lab.ModelCapabilities, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis capability load: %w", err)
	}
	result := make(map[string]lab.ModelCapabilities, len(fields))
	for key, raw := range fields {
		if caps, err := decodeRecord([]byte(raw)); err == nil {
			result[key] = caps
		}
	}
	return result, nil
}
