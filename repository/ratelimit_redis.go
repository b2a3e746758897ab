package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"chat-gate-service/domain"
)

// allowScript implements the same fixed window discipline as the in-memory
// store: the counter is not incremented once the limit is reached.
var allowScript = redis.NewScript(`
local count = tonumber(redis.call('GET', KEYS[1]) or '0')
local max = tonumber(ARGV[1])
if count >= max then
    return {0, 0, redis.call('PTTL', KEYS[1])}
end
count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[2])
end
return {1, max - count, redis.call('PTTL', KEYS[1])}
`)

type RedisRateLimit struct {
	cli redis.UniversalClient
}

func NewRedisRateLimit(cli redis.UniversalClient) RedisRateLimit {
	return RedisRateLimit{
		cli: cli,
	}
}

func (r RedisRateLimit) Allow(
	ctx context.Context,
	clientKey string,
	maxRequests int,
	window time.Duration,
) (*domain.RateLimitResult, error) {
	values, err := allowScript.Run(ctx, r.cli, []string{r.key(clientKey)}, maxRequests, window.Milliseconds()).Int64Slice()
	if err != nil {
		return nil, errors.WithMessage(err, "run allow script")
	}
	if len(values) != 3 {
		return nil, errors.Errorf("unexpected allow script result: %v", values)
	}

	return &domain.RateLimitResult{
		Allow:     values[0] == 1,
		Remaining: int(values[1]),
		ResetAt:   time.Now().Add(time.Duration(values[2]) * time.Millisecond),
	}, nil
}

func (r RedisRateLimit) key(clientKey string) string {
	return fmt.Sprintf("rate_limit:%s", clientKey)
}
