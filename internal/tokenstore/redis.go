package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	whitelistPrefix = "cv:wl:"
	blacklistPrefix = "cv:bl:"
)

// replaceScript implements the whitelist compare-and-swap: the new record is
// written only if the old token still exists, and both steps happen in one
// atomic unit on the server. Returns 1 on rotation, 0 when the old token is
// already gone.
const replaceScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("DEL", KEYS[1])
redis.call("SET", KEYS[2], ARGV[1], "PX", ARGV[2])
return 1
`

var replaceLua = redis.NewScript(replaceScript)

// RedisStore is the networked Store implementation. Entry lifetimes map onto
// native key TTLs, so expiry needs no sweep at all.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) WhitelistAdd(ctx context.Context, rec RefreshRecord) error {
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, whitelistPrefix+rec.Token, data, ttl).Err()
}

func (s *RedisStore) WhitelistRemove(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, whitelistPrefix+token).Err()
}

func (s *RedisStore) WhitelistLookup(ctx context.Context, token string) (*RefreshRecord, error) {
	data, err := s.rdb.Get(ctx, whitelistPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec RefreshRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec.Expired(time.Now()) {
		return nil, nil
	}
	return &rec, nil
}

func (s *RedisStore) WhitelistReplace(ctx context.Context, oldToken string, rec RefreshRecord) (bool, error) {
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return false, nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return false, err
	}

	keys := []string{whitelistPrefix + oldToken, whitelistPrefix + rec.Token}
	res, err := replaceLua.Run(ctx, s.rdb, keys, data, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

func (s *RedisStore) BlacklistAdd(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, blacklistPrefix+token, "1", ttl).Err()
}

func (s *RedisStore) BlacklistContains(ctx context.Context, token string) (bool, error) {
	n, err := s.rdb.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
