package source

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/ANIKETSHETTY47/power-monitoring/internal/domain"
)

// Redis reads channels stored as plain string keys, <prefix><channel>, with a
// single MGET per snapshot.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Key(ch domain.Channel) string { return r.prefix + string(ch) }

func (r *Redis) Read(ctx context.Context) (Reading, error) {
	keys := make([]string, len(domain.Channels))
	for i, ch := range domain.Channels {
		keys[i] = r.Key(ch)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, unavailable(err)
	}
	raw := make(map[domain.Channel]string, len(vals))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			raw[domain.Channels[i]] = s
		}
	}
	return collect(raw)
}
