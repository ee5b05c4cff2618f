package queries_test

import (
	"context"
	"errors"
	"sync"

	"warehouse/internal/core/application/usecases/queries"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/ports"
	"warehouse/internal/pkg/errs"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]ports.Snapshot
	fail    bool
	gets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]ports.Snapshot)}
}

func (c *memoryCache) Get(_ context.Context, code kernel.TrackingCode) (*ports.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.fail {
		return nil, errors.New("cache unavailable")
	}
	s, ok := c.entries[code.String()]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (c *memoryCache) Set(_ context.Context, s ports.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("cache unavailable")
	}
	c.entries[s.TrackingCode] = s
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, parcels ...ports.CommittedParcel) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range parcels {
		delete(c.entries, p.TrackingCode.String())
	}
	return nil
}

func (suite *QueryHandlersTestSuite) TestSnapshot_JoinsOpenInterval() {
	suite.register("SF-SNAP")
	suite.walk("SF-SNAP", "Processing", "FabricWork", "QualityCheck")
	handler := queries.NewGetParcelSnapshotQueryHandler(suite.db, nil, logrus.New())

	query, err := queries.NewGetParcelSnapshotQuery("SF-SNAP")
	suite.Require().NoError(err)
	snapshot, err := handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal("SF-SNAP", snapshot.TrackingCode)
	suite.Equal("QualityCheck", snapshot.Stage)
	suite.Equal(int64(4), snapshot.Version)
	suite.Equal("High", snapshot.Priority)
	suite.Equal(12, snapshot.ItemCount)
	suite.Equal("station-QualityCheck", snapshot.StageOperator)
	suite.Equal("station-QualityCheck", snapshot.LastUpdatedBy)
	suite.Equal(suite.now, snapshot.StageEnteredAt)
	suite.Equal(suite.now, snapshot.UpdatedAt)
	suite.ElementsMatch([]string{"QualityPassed", "ReworkRequired", "Cancelled"}, snapshot.NextStages)
}

func (suite *QueryHandlersTestSuite) TestSnapshot_TerminalStageHasNoNextStages() {
	suite.register("SF-DONE")
	suite.walk("SF-DONE", "Cancelled")
	handler := queries.NewGetParcelSnapshotQueryHandler(suite.db, nil, logrus.New())

	query, err := queries.NewGetParcelSnapshotQuery("SF-DONE")
	suite.Require().NoError(err)
	snapshot, err := handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal("Cancelled", snapshot.Stage)
	suite.NotNil(snapshot.NextStages)
	suite.Empty(snapshot.NextStages)
}

func (suite *QueryHandlersTestSuite) TestSnapshot_NotFound() {
	handler := queries.NewGetParcelSnapshotQueryHandler(suite.db, nil, logrus.New())
	query, err := queries.NewGetParcelSnapshotQuery("SF-NONE")
	suite.Require().NoError(err)

	_, err = handler.Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueryHandlersTestSuite) TestSnapshot_ReadThroughCache() {
	suite.register("SF-CACHE")
	cache := newMemoryCache()
	handler := queries.NewGetParcelSnapshotQueryHandler(suite.db, cache, logrus.New())
	query, err := queries.NewGetParcelSnapshotQuery("SF-CACHE")
	suite.Require().NoError(err)

	first, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Contains(cache.entries, "SF-CACHE")

	// A stale cache entry wins until it is invalidated.
	suite.walk("SF-CACHE", "Processing")
	cached, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Equal(first, cached)

	suite.Require().NoError(cache.Invalidate(context.Background(),
		ports.CommittedParcel{TrackingCode: mustCode("SF-CACHE"), Version: 2}))
	fresh, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Equal(int64(2), fresh.Version)
}

func (suite *QueryHandlersTestSuite) TestSnapshot_CacheFailureFallsBackToDatabase() {
	suite.register("SF-FLAKY")
	cache := newMemoryCache()
	cache.fail = true
	logger, hook := logrustest.NewNullLogger()
	handler := queries.NewGetParcelSnapshotQueryHandler(suite.db, cache, logger)
	query, err := queries.NewGetParcelSnapshotQuery("SF-FLAKY")
	suite.Require().NoError(err)

	snapshot, err := handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal("Intake", snapshot.Stage)
	suite.Require().Len(hook.AllEntries(), 2)
	suite.Equal(logrus.WarnLevel, hook.LastEntry().Level)
}
