package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingScript keeps one sorted-set member per admitted request, scored in
// microseconds. Rejected requests are not recorded, so a client that keeps
// retrying is admitted again as soon as its oldest request leaves the window.
//
// KEYS[1] set key; ARGV: now, cutoff, limit, member, ttl in ms.
// Returns {admitted 0|1, count, oldest score}.
var slidingScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[2])
local count = redis.call('ZCARD', KEYS[1])
local admitted = 0
if count < tonumber(ARGV[3]) then
	redis.call('ZADD', KEYS[1], ARGV[1], ARGV[4])
	count = count + 1
	admitted = 1
end
redis.call('PEXPIRE', KEYS[1], ARGV[5])
local oldest = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
return {admitted, count, oldest[2] or ''}
`)

// SlidingWindow limits requests over a rolling window using a redis sorted
// set per key, so every replica sharing the redis instance sees the same counts.
type SlidingWindow struct {
	Client redis.Scripter
	Prefix string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Allow admits the request when fewer than limit requests were admitted for key
// during the last window. reset is when the oldest of those leaves the window.
func (s SlidingWindow) Allow(ctx context.Context, key string, window time.Duration, limit int) (allowed bool, remaining int, reset time.Time, err error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	if s.Client == nil || limit <= 0 || window <= 0 {
		return true, limit, now.Add(window), nil
	}

	nowMicros := now.UnixMicro()
	res, err := slidingScript.Run(ctx, s.Client, []string{s.Prefix + key},
		strconv.FormatInt(nowMicros, 10),
		strconv.FormatInt(nowMicros-window.Microseconds(), 10),
		limit,
		key+":"+uuid.NewString(),
		max(window.Milliseconds(), 1),
	).Slice()
	if err != nil {
		return false, 0, now.Add(window), err
	}
	if len(res) != 3 {
		return false, 0, now.Add(window), fmt.Errorf("ratelimit: unexpected script reply %v", res)
	}

	admitted, _ := res[0].(int64)
	count, _ := res[1].(int64)
	reset = now.Add(window)
	if oldest, ok := res[2].(string); ok && oldest != "" {
		if micros, perr := strconv.ParseFloat(oldest, 64); perr == nil {
			reset = time.UnixMicro(int64(micros)).Add(window)
		}
	}
	return admitted == 1, max(0, limit-int(count)), reset, nil
}
