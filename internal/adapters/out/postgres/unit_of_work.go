// Package postgres provides the GORM implementation of the Unit of Work used
// by the warehouse commands. One unit of work wraps one database transaction;
// all repositories obtained from it after Begin share that transaction.
//
// Key Features:
//   - One transaction across the parcel, interval, quality and audit repositories
//   - Row lock on the parcel (GetForUpdate) plus a version-conditional Update
//   - Tracking of every parcel written, reported once with its highest version
//   - An after-commit hook that never runs for a rolled back unit of work
//   - Schema migration through Migrate
//
// Usage Patterns:
//
// Single transition:
//
//	factory := postgres.NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	p, err := uow.ParcelRepository().GetForUpdate(ctx, code)
//	if err != nil {
//	    return err
//	}
//	// ... change the parcel and its history ...
//	if err := uow.ParcelRepository().Update(ctx, p, expectedVersion); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Rollback after Commit only returns gorm.ErrInvalidTransaction, so the
// deferred call is safe on the success path.
//
// Multi-Repository Transactions:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.IntervalRepository().Close(ctx, open); err != nil {
//	    return err
//	}
//	if err := uow.IntervalRepository().Add(ctx, next); err != nil {
//	    return err
//	}
//	if err := uow.QualityIssueRepository().Add(ctx, issue); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Cache invalidation:
//
//	factory := postgres.NewGormUnitOfWorkFactory(db,
//	    postgres.WithAfterCommit(func(ctx context.Context, parcels []ports.CommittedParcel) {
//	        if err := cache.Invalidate(ctx, parcels...); err != nil {
//	            logger.WithError(err).Warn("snapshot invalidation failed")
//	        }
//	    }))
//
// Parcels added or updated through a unit of work are tracked. After a
// successful commit the tracked parcels and their versions are handed to the
// registered AfterCommitFunc. The hook cannot fail the commit; it runs after
// the data is durable.
package postgres

import (
	"context"

	"warehouse/internal/adapters/out/postgres/auditrepo"
	"warehouse/internal/adapters/out/postgres/intervalrepo"
	"warehouse/internal/adapters/out/postgres/parcelrepo"
	"warehouse/internal/adapters/out/postgres/qualityrepo"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/ports"

	"gorm.io/gorm"
)

// AfterCommitFunc receives every parcel written by a committed unit of work,
// once, with the version it was committed at. It runs after the transaction
// is closed and cannot fail the commit, so it must handle its own errors.
type AfterCommitFunc func(ctx context.Context, parcels []ports.CommittedParcel)

type versioned interface {
	Version() int64
}

type trackedAggregate struct {
	Code      kernel.TrackingCode
	Aggregate any
}

type Option func(*GormUnitOfWorkFactory)

// WithAfterCommit registers a hook run after every successful commit.
func WithAfterCommit(hook AfterCommitFunc) Option {
	return func(f *GormUnitOfWorkFactory) {
		f.afterCommit = hook
	}
}

// GormUnitOfWorkFactory creates a fresh GormUnitOfWork per business operation.
type GormUnitOfWorkFactory struct {
	db          *gorm.DB
	afterCommit AfterCommitFunc
}

func NewGormUnitOfWorkFactory(db *gorm.DB, opts ...Option) *GormUnitOfWorkFactory {
	f := &GormUnitOfWorkFactory{db: db}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		afterCommit:       f.afterCommit,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork is not safe for concurrent use. Each goroutine must create
// its own instance from the factory.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	afterCommit       AfterCommitFunc
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it again while a transaction is
// active is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Commit makes the transaction durable and then runs the after-commit hook
// with the tracked parcels.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	parcels := uow.committedParcels()
	uow.trackedAggregates = uow.trackedAggregates[:0]
	if uow.afterCommit != nil && len(parcels) > 0 {
		uow.afterCommit(context.WithoutCancel(ctx), parcels)
	}
	return nil
}

// Rollback discards the transaction. It returns gorm.ErrInvalidTransaction
// when nothing is active, which makes a deferred Rollback after Commit
// harmless.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) ParcelRepository() ports.ParcelRepository {
	return parcelrepo.NewGormParcelRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) IntervalRepository() ports.IntervalRepository {
	return intervalrepo.NewGormIntervalRepository(uow.conn())
}

func (uow *GormUnitOfWork) QualityIssueRepository() ports.QualityIssueRepository {
	return qualityrepo.NewGormQualityIssueRepository(uow.conn())
}

func (uow *GormUnitOfWork) AuditRepository() ports.AuditRepository {
	return auditrepo.NewGormAuditRepository(uow.conn())
}

// TrackAggregate is called by repositories for every parcel they write.
func (uow *GormUnitOfWork) TrackAggregate(code kernel.TrackingCode, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		Code:      code,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// committedParcels folds the tracked writes into one entry per parcel,
// keeping the highest version written.
func (uow *GormUnitOfWork) committedParcels() []ports.CommittedParcel {
	index := make(map[string]int, len(uow.trackedAggregates))
	parcels := make([]ports.CommittedParcel, 0, len(uow.trackedAggregates))
	for _, t := range uow.trackedAggregates {
		var version int64
		if v, ok := t.Aggregate.(versioned); ok {
			version = v.Version()
		}
		if i, ok := index[t.Code.String()]; ok {
			parcels[i].Version = max(parcels[i].Version, version)
			continue
		}
		index[t.Code.String()] = len(parcels)
		parcels = append(parcels, ports.CommittedParcel{TrackingCode: t.Code, Version: version})
	}
	return parcels
}
