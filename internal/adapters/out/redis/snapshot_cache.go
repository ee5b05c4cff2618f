// Package redis caches parcel snapshots in Redis. Entries are JSON encoded
// and expire after a TTL; writes to a parcel drop its entry right after the
// transaction commits.
//
// Each parcel has two keys sharing one hash slot:
//
//	warehouse:snapshot:{SF-000131}          the cached snapshot
//	warehouse:snapshot:{SF-000131}:version  the last committed version seen
//
// Invalidate raises the version key and deletes the snapshot in one script.
// Set writes only when the snapshot is not older than the version key, so a
// read that raced a commit is dropped instead of cached.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

const (
	DefaultKeyPrefix = "warehouse:snapshot:"

	// DefaultVersionTTL keeps the committed version long enough to outlive
	// any read that started before the commit.
	DefaultVersionTTL = 24 * time.Hour
)

var setIfCurrent = goredis.NewScript(`
local committed = tonumber(redis.call('GET', KEYS[2]) or '0')
if tonumber(ARGV[1]) < committed then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

var invalidateAt = goredis.NewScript(`
local committed = tonumber(redis.call('GET', KEYS[2]) or '0')
if tonumber(ARGV[1]) > committed then
	redis.call('SET', KEYS[2], ARGV[1], 'PX', ARGV[2])
end
redis.call('DEL', KEYS[1])
return 1
`)

// SnapshotCache implements ports.SnapshotCache.
type SnapshotCache struct {
	client     goredis.UniversalClient
	ttl        time.Duration
	versionTTL time.Duration
	prefix     string
}

// NewSnapshotCache creates the cache. A zero ttl keeps entries until they are
// invalidated.
func NewSnapshotCache(client goredis.UniversalClient, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		client:     client,
		ttl:        ttl,
		versionTTL: DefaultVersionTTL,
		prefix:     DefaultKeyPrefix,
	}
}

func (c *SnapshotCache) Get(ctx context.Context, code kernel.TrackingCode) (*ports.Snapshot, error) {
	key := c.SnapshotKey(code.String())
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s ports.Snapshot
	if err = json.Unmarshal(raw, &s); err != nil {
		// An undecodable entry is treated as a miss and dropped.
		_ = c.client.Del(ctx, key).Err()
		return nil, nil
	}
	return &s, nil
}

// Set stores the snapshot unless a newer version has been committed since it
// was loaded. A skipped write is not an error.
func (c *SnapshotCache) Set(ctx context.Context, snapshot ports.Snapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	keys := []string{c.SnapshotKey(snapshot.TrackingCode), c.VersionKey(snapshot.TrackingCode)}
	return setIfCurrent.Run(ctx, c.client, keys, snapshot.Version, raw, c.ttl.Milliseconds()).Err()
}

func (c *SnapshotCache) Invalidate(ctx context.Context, parcels ...ports.CommittedParcel) error {
	var problems []error
	for _, p := range parcels {
		code := p.TrackingCode.String()
		keys := []string{c.SnapshotKey(code), c.VersionKey(code)}
		if err := invalidateAt.Run(ctx, c.client, keys, p.Version, c.versionTTL.Milliseconds()).Err(); err != nil {
			problems = append(problems, err)
		}
	}
	return errors.Join(problems...)
}

func (c *SnapshotCache) SnapshotKey(code string) string {
	return c.prefix + "{" + code + "}"
}

func (c *SnapshotCache) VersionKey(code string) string {
	return c.SnapshotKey(code) + ":version"
}
