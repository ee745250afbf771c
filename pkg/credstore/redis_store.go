package credstore

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/openvlog/vlogkit/pkg/api"
)

// Redis hash fields for the credential pair.
const (
	redisFieldAccess  = "access_credential"
	redisFieldRenewal = "renewal_credential"
)

// RedisStore is a durable tier for headless or multi-process clients: the
// credential pair lives in a single Redis hash shared by every process of
// the same deployment.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a Redis-backed store writing to the given hash key.
// An empty key defaults to "vlogkit:credentials".
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "vlogkit:credentials"
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Save(ctx context.Context, creds api.Credentials) error {
	return s.client.HSet(ctx, s.key,
		redisFieldAccess, creds.Access,
		redisFieldRenewal, creds.Renewal,
	).Err()
}

func (s *RedisStore) Load(ctx context.Context) (api.Credentials, bool, error) {
	// HGetAll returns an empty map, not redis.Nil, for a missing key.
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return api.Credentials{}, false, err
	}

	creds := api.Credentials{
		Access:  fields[redisFieldAccess],
		Renewal: fields[redisFieldRenewal],
	}
	if creds.IsZero() {
		return api.Credentials{}, false, nil
	}
	return creds, true, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
