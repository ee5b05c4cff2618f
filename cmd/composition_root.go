package cmd

import (
	"context"
	"time"

	"warehouse/internal/adapters/in/http"
	"warehouse/internal/adapters/out/postgres"
	"warehouse/internal/adapters/out/redis"
	"warehouse/internal/core/application/usecases/commands"
	"warehouse/internal/core/application/usecases/queries"
	"warehouse/internal/core/ports"
	"warehouse/internal/jobs"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	cache      *redis.SnapshotCache
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     logrus.FieldLogger
	now        func() time.Time
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, redisClient goredis.UniversalClient, logger logrus.FieldLogger) CompositionRoot {
	cache := redis.NewSnapshotCache(redisClient, config.SnapshotCacheTTL)
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		cache:      cache,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, postgres.WithAfterCommit(invalidateSnapshots(cache, logger))),
		logger:     logger,
		now:        time.Now,
	}
}

// invalidateSnapshots drops cached snapshots of parcels a commit changed. A
// failure only leaves an entry that expires with its TTL.
func invalidateSnapshots(cache ports.SnapshotCache, logger logrus.FieldLogger) postgres.AfterCommitFunc {
	return func(ctx context.Context, parcels []ports.CommittedParcel) {
		if err := cache.Invalidate(ctx, parcels...); err != nil {
			logger.WithError(err).WithField("parcels", len(parcels)).Warn("failed to invalidate snapshot cache")
		}
	}
}

func (c *CompositionRoot) CreateCreateParcelCommandHandler() commands.CreateParcelCommandHandler {
	var f commands.IntakeUoWFactory = FuncIntakeUoWFactory(func() commands.IntakeUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateParcelCommandHandler(f, c.now, c.logger)
}

func (c *CompositionRoot) CreateRequestTransitionCommandHandler() commands.RequestTransitionCommandHandler {
	var f commands.TransitionUoWFactory = FuncTransitionUoWFactory(func() commands.TransitionUoW {
		return c.uowFactory.Create()
	})
	var audit commands.AuditUoWFactory = FuncAuditUoWFactory(func() commands.AuditUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRequestTransitionCommandHandler(f, audit, commands.TransitionPolicy{
		Timeout:         c.config.TransitionTimeout,
		MaxReworkCycles: c.config.MaxReworkCycles,
		Now:             c.now,
	}, c.logger)
}

func (c *CompositionRoot) CreateGetParcelSnapshotQueryHandler() queries.GetParcelSnapshotQueryHandler {
	return queries.NewGetParcelSnapshotQueryHandler(c.gormDB, c.cache, c.logger)
}

func (c *CompositionRoot) CreateGetParcelHistoryQueryHandler() queries.GetParcelHistoryQueryHandler {
	return queries.NewGetParcelHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetQualityIssuesQueryHandler() queries.GetQualityIssuesQueryHandler {
	return queries.NewGetQualityIssuesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetTransitionAttemptsQueryHandler() queries.GetTransitionAttemptsQueryHandler {
	return queries.NewGetTransitionAttemptsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDwellingParcelsQueryHandler() queries.GetDwellingParcelsQueryHandler {
	return queries.NewGetDwellingParcelsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *http.Server {
	return http.NewServer(http.Handlers{
		CreateParcel:      c.CreateCreateParcelCommandHandler(),
		RequestTransition: c.CreateRequestTransitionCommandHandler(),
		GetSnapshot:       c.CreateGetParcelSnapshotQueryHandler(),
		GetHistory:        c.CreateGetParcelHistoryQueryHandler(),
		GetIssues:         c.CreateGetQualityIssuesQueryHandler(),
		GetAttempts:       c.CreateGetTransitionAttemptsQueryHandler(),
	}, http.DefaultRetryPolicy(), c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateGetDwellingParcelsQueryHandler(), jobs.DwellMonitorConfig{
		Schedule:  c.config.DwellMonitorSchedule,
		Threshold: c.config.DwellAlertThreshold,
	}, c.now, c.logger)
}

type FuncIntakeUoWFactory func() commands.IntakeUoW

func (f FuncIntakeUoWFactory) Create() commands.IntakeUoW {
	return f()
}

type FuncTransitionUoWFactory func() commands.TransitionUoW

func (f FuncTransitionUoWFactory) Create() commands.TransitionUoW {
	return f()
}

type FuncAuditUoWFactory func() commands.AuditUoW

func (f FuncAuditUoWFactory) Create() commands.AuditUoW {
	return f()
}
