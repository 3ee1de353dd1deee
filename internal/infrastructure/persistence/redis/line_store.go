package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/alem-hub/course-registry/internal/domain/shared"
)

// LineStore keeps each resource as a Redis list under prefix+resource.
// WriteLines replaces the list in a MULTI/EXEC block.
type LineStore struct {
	client redis.UniversalClient
	prefix string
}

// NewLineStore creates a store over client.
func NewLineStore(client redis.UniversalClient, prefix string) *LineStore {
	return &LineStore{client: client, prefix: prefix}
}

// Key returns the Redis key of resource.
func (s *LineStore) Key(resource string) string {
	return s.prefix + resource
}

// ReadLines returns the list stored for resource. A missing key reads as empty.
func (s *LineStore) ReadLines(ctx context.Context, resource string) ([]string, error) {
	lines, err := s.client.LRange(ctx, s.Key(resource), 0, -1).Result()
	if err != nil {
		return nil, shared.WrapError("storage", "ReadLines", shared.ErrStorage, "cannot read "+s.Key(resource), err)
	}
	return lines, nil
}

// WriteLines atomically replaces the list stored for resource.
func (s *LineStore) WriteLines(ctx context.Context, resource string, lines []string) error {
	key := s.Key(resource)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(lines) > 0 {
			values := make([]interface{}, len(lines))
			for i, l := range lines {
				values[i] = l
			}
			pipe.RPush(ctx, key, values...)
		}
		return nil
	})
	if err != nil {
		return shared.WrapError("storage", "WriteLines", shared.ErrStorage, "cannot write "+key, err)
	}
	return nil
}
