package cmd

import (
	"context"
	"testing"
	"time"

	"warehouse/internal/adapters/out/redis"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/ports"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidateSnapshots(t *testing.T) {
	ctx := context.Background()
	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	cache := redis.NewSnapshotCache(client, time.Minute)
	logger, hook := logrustest.NewNullLogger()
	code := kernel.MustTrackingCode("SF-000131")

	require.NoError(t, cache.Set(ctx, ports.Snapshot{TrackingCode: code.String(), Stage: "Intake", Version: 1}))

	committed := []ports.CommittedParcel{{TrackingCode: code, Version: 2}}
	invalidateSnapshots(cache, logger)(ctx, committed)

	cached, err := cache.Get(ctx, code)
	require.NoError(t, err)
	assert.Nil(t, cached)
	assert.Empty(t, hook.AllEntries())

	// A reader still holding version 1 cannot repopulate the cache.
	require.NoError(t, cache.Set(ctx, ports.Snapshot{TrackingCode: code.String(), Stage: "Intake", Version: 1}))
	cached, err = cache.Get(ctx, code)
	require.NoError(t, err)
	assert.Nil(t, cached)

	server.Close()
	invalidateSnapshots(cache, logger)(ctx, committed)

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}
