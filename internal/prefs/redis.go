package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "agenda-pro-dashboard:"

// Redis stores dashboard preferences as one JSON blob per admin uid.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Load(ctx context.Context, uid string) (Dashboard, error) {
	raw, err := r.client.Get(ctx, keyPrefix+uid).Result()
	if errors.Is(err, redis.Nil) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("load dashboard prefs: %w", err)
	}

	d := Default()
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		// A corrupt blob is not worth failing the session over.
		return Default(), nil
	}
	return d, nil
}

func (r *Redis) Save(ctx context.Context, uid string, d Dashboard) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal dashboard prefs: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+uid, raw, 0).Err(); err != nil {
		return fmt.Errorf("save dashboard prefs: %w", err)
	}
	return nil
}
