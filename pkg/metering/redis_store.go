package metering

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lumigen/lumigen/pkg/plan"
)

// consumeScript performs rollover + conditional increment in one atomic step.
// The hash holds three fields: c (count), b (period bucket identity), and
// r (last reset, unix milliseconds). A bucket mismatch means a period
// boundary was crossed since the last consume, so the counter is reset in
// place before the quota check. limit < 0 encodes an unbounded quota at the
// script boundary only; the Go API never exposes that sentinel.
var consumeScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local bucket = ARGV[2]
local now = ARGV[3]
local ttl = tonumber(ARGV[4])

local c = tonumber(redis.call('HGET', key, 'c') or '0')
local b = redis.call('HGET', key, 'b')
local r = redis.call('HGET', key, 'r')

if b ~= bucket then
	c = 0
	r = now
	redis.call('HSET', key, 'b', bucket, 'r', now, 'c', 0)
end
if not r then
	r = now
	redis.call('HSET', key, 'r', now)
end

local allowed = 0
if limit < 0 or c < limit then
	c = redis.call('HINCRBY', key, 'c', 1)
	allowed = 1
end

redis.call('EXPIRE', key, ttl)
return {allowed, c, r}
`)

// redisRecordTTL comfortably outlives a monthly period so idle counters are
// eventually evicted without ever expiring mid-period.
const redisRecordTTL = 62 * 24 * time.Hour

// RedisStore implements Store on a shared Redis instance, giving atomic
// per-key consumption across any number of server processes.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisStore returns a Redis-backed usage store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, keyPrefix: "usage:"}
}

func (s *RedisStore) key(key Key) string {
	return s.keyPrefix + key.UserID.String() + ":" + string(key.Feature)
}

// Consume implements Store.
func (s *RedisStore) Consume(ctx context.Context, key Key, quota plan.Quota, period plan.Period, now time.Time) (Usage, bool, error) {
	limit := int64(-1)
	if !quota.IsUnbounded() {
		limit = quota.Limit()
	}

	res, err := consumeScript.Run(ctx, s.client, []string{s.key(key)},
		limit,
		PeriodBucket(period, now),
		strconv.FormatInt(now.UTC().UnixMilli(), 10),
		int64(redisRecordTTL.Seconds()),
	).Slice()
	if err != nil {
		return Usage{}, false, errors.Join(ErrStoreUnavailable, err)
	}
	if len(res) != 3 {
		return Usage{}, false, fmt.Errorf("%w: unexpected script reply %v", ErrStoreUnavailable, res)
	}

	allowed, err := toInt64(res[0])
	if err != nil {
		return Usage{}, false, errors.Join(ErrStoreUnavailable, err)
	}
	count, err := toInt64(res[1])
	if err != nil {
		return Usage{}, false, errors.Join(ErrStoreUnavailable, err)
	}
	resetMs, err := toInt64(res[2])
	if err != nil {
		return Usage{}, false, errors.Join(ErrStoreUnavailable, err)
	}

	usage := Usage{Count: count, LastReset: time.UnixMilli(resetMs).UTC()}
	return usage, allowed == 1, nil
}

// Snapshot implements Store.
func (s *RedisStore) Snapshot(ctx context.Context, key Key) (Usage, bool, error) {
	vals, err := s.client.HMGet(ctx, s.key(key), "c", "r").Result()
	if err != nil {
		return Usage{}, false, errors.Join(ErrStoreUnavailable, err)
	}
	if len(vals) != 2 || vals[0] == nil {
		return Usage{}, false, nil
	}

	count, err := toInt64(vals[0])
	if err != nil {
		return Usage{}, false, errors.Join(ErrStoreUnavailable, err)
	}
	resetMs, err := toInt64(vals[1])
	if err != nil {
		return Usage{}, false, errors.Join(ErrStoreUnavailable, err)
	}

	return Usage{Count: count, LastReset: time.UnixMilli(resetMs).UTC()}, true, nil
}

// toInt64 normalizes the value types go-redis produces for script replies
// and HMGET results.
func toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected redis value %T", v)
	}
}
