package alert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultRedisKey is the hash that holds one field per subscriber.
const DefaultRedisKey = "marketbot:watches"

// putScript stores ARGV[2] under field ARGV[1] unless that would add a new
// field past capacity ARGV[3]. Returns the previous value, "" when there was
// none, or -1 when full.
var putScript = redis.NewScript(`
local old = redis.call('HGET', KEYS[1], ARGV[1])
if not old then
  local cap = tonumber(ARGV[3])
  if cap > 0 and redis.call('HLEN', KEYS[1]) >= cap then
    return -1
  end
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
if old then
  return old
end
return ''
`)

// casDeleteScript removes field ARGV[1] only while its watch id is ARGV[2].
var casDeleteScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], ARGV[1])
if not cur then
  return 0
end
if cjson.decode(cur)['id'] ~= ARGV[2] then
  return 0
end
return redis.call('HDEL', KEYS[1], ARGV[1])
`)

// RedisStore keeps watches in a Redis hash so they survive restarts.
type RedisStore struct {
	rdb      redis.UniversalClient
	key      string
	capacity int

	// Log receives fields that List had to skip.
	Log *logrus.Entry
}

// NewRedisStore stores watches under key (DefaultRedisKey when empty).
// capacity <= 0 means unbounded.
func NewRedisStore(rdb redis.UniversalClient, key string, capacity int) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{
		rdb:      rdb,
		key:      key,
		capacity: capacity,
		Log:      logrus.NewEntry(logrus.StandardLogger()).WithField("component", "alert"),
	}
}

func field(subscriberID int64) string {
	return strconv.FormatInt(subscriberID, 10)
}

func (s *RedisStore) Put(ctx context.Context, w Watch) (Watch, bool, error) {
	raw, err := json.Marshal(w)
	if err != nil {
		return Watch{}, false, fmt.Errorf("encoding watch: %w", err)
	}
	res, err := putScript.Run(ctx, s.rdb, []string{s.key}, field(w.SubscriberID), raw, s.capacity).Result()
	if err != nil {
		return Watch{}, false, fmt.Errorf("redis put: %w", err)
	}
	switch v := res.(type) {
	case int64:
		return Watch{}, false, ErrRegistryFull
	case string:
		if v == "" {
			return Watch{}, false, nil
		}
		var prev Watch
		if err := json.Unmarshal([]byte(v), &prev); err != nil {
			return Watch{}, true, fmt.Errorf("decoding previous watch: %w", err)
		}
		return prev, true, nil
	default:
		return Watch{}, false, fmt.Errorf("redis put: unexpected reply %T", res)
	}
}

func (s *RedisStore) PutIfAbsent(ctx context.Context, w Watch) (bool, error) {
	raw, err := json.Marshal(w)
	if err != nil {
		return false, fmt.Errorf("encoding watch: %w", err)
	}
	ok, err := s.rdb.HSetNX(ctx, s.key, field(w.SubscriberID), raw).Result()
	if err != nil {
		return false, fmt.Errorf("redis put if absent: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) Get(ctx context.Context, subscriberID int64) (Watch, bool, error) {
	raw, err := s.rdb.HGet(ctx, s.key, field(subscriberID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Watch{}, false, nil
	}
	if err != nil {
		return Watch{}, false, fmt.Errorf("redis get: %w", err)
	}
	var w Watch
	if err := json.Unmarshal(raw, &w); err != nil {
		return Watch{}, false, fmt.Errorf("decoding watch: %w", err)
	}
	return w, true, nil
}

// List skips fields that do not decode; they stay in the hash for inspection.
func (s *RedisStore) List(ctx context.Context) ([]Watch, error) {
	all, err := s.rdb.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}
	out := make([]Watch, 0, len(all))
	for f, raw := range all {
		var w Watch
		if err := json.Unmarshal([]byte(raw), &w); err != nil {
			s.Log.WithError(err).WithFields(logrus.Fields{"key": s.key, "field": f}).Error("skipping undecodable watch")
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubscriberID < out[j].SubscriberID })
	return out, nil
}

func (s *RedisStore) CompareAndDelete(ctx context.Context, w Watch) (bool, error) {
	n, err := casDeleteScript.Run(ctx, s.rdb, []string{s.key}, field(w.SubscriberID), w.ID.String()).Int()
	if err != nil {
		return false, fmt.Errorf("redis compare-and-delete: %w", err)
	}
	return n == 1, nil
}

func (s *RedisStore) Delete(ctx context.Context, subscriberID int64) (bool, error) {
	n, err := s.rdb.HDel(ctx, s.key, field(subscriberID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis delete: %w", err)
	}
	return n == 1, nil
}

func (s *RedisStore) Len(ctx context.Context) (int, error) {
	n, err := s.rdb.HLen(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis len: %w", err)
	}
	return int(n), nil
}
