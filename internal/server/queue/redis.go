package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the Redis list holding pending jobs.
const DefaultRedisKey = "thumbnails"

const (
	popTimeout   = time.Second
	errorBackoff = 500 * time.Millisecond
)

// Redis keeps jobs in a Redis list: producers LPUSH, consumers BRPOP.
// Jobs survive process restarts and can be consumed by another process.
type Redis struct {
	client redis.Cmdable
	key    string
	opts   Options
}

func NewRedis(client redis.Cmdable, key string, opts Options) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{client: client, key: key, opts: opts.withDefaults()}
}

func (q *Redis) Enqueue(ctx context.Context, payload []byte) error {
	if !json.Valid(payload) {
		return errInvalidPayload
	}
	return q.push(ctx, envelope{Payload: payload})
}

func (q *Redis) push(ctx context.Context, env envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("queue: marshal: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("queue: lpush: %w", err)
	}
	return nil
}

func (q *Redis) Consume(ctx context.Context, handler Handler) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		res, err := q.client.BRPop(ctx, popTimeout, q.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			q.opts.Logger.Warn(ctx, "queue pop failed", "key", q.key, "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(errorBackoff):
			}
			continue
		}

		// res is [key, value].
		var env envelope
		if err := json.Unmarshal([]byte(res[1]), &env); err != nil {
			q.opts.Logger.Error(ctx, "queue dropped malformed job", "key", q.key, "error", err)
			continue
		}

		deliver(ctx, env, handler, q.opts, q.push)
	}
}
