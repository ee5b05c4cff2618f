package parcelrepo_test

import (
	"context"
	"testing"
	"time"

	"warehouse/internal/adapters/out/postgres/parcelrepo"
	"warehouse/internal/adapters/out/postgres/pgtest"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/parcel"
	"warehouse/internal/core/domain/model/stage"
	"warehouse/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type mockAggregateTracker struct {
	tracked []kernel.TrackingCode
}

func (m *mockAggregateTracker) TrackAggregate(code kernel.TrackingCode, _ any) {
	m.tracked = append(m.tracked, code)
}

type ParcelRepositoryTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	tracker   *mockAggregateTracker
	repo      *parcelrepo.GormParcelRepository
}

func (suite *ParcelRepositoryTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
}

func (suite *ParcelRepositoryTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *ParcelRepositoryTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(pgtest.TruncateSQL).Error)
	suite.tracker = &mockAggregateTracker{}
	suite.repo = parcelrepo.NewGormParcelRepository(suite.db, suite.tracker)
}

func (suite *ParcelRepositoryTestSuite) newParcel(code string) *parcel.Parcel {
	p, err := parcel.NewParcel(kernel.MustTrackingCode(code), "ORD-5512", "Kunde GmbH", 12,
		parcel.PriorityUrgent, kernel.MustOperatorID("intake-1"), pgtest.Round(time.Now()))
	suite.Require().NoError(err)
	return p
}

func (suite *ParcelRepositoryTestSuite) TestAddAndGet() {
	ctx := context.Background()
	p := suite.newParcel("SF-1")

	suite.Require().NoError(suite.repo.Add(ctx, p))

	stored, err := suite.repo.Get(ctx, p.TrackingCode())
	suite.Require().NoError(err)
	suite.Equal(p.State(), stored.State())
	suite.Equal([]kernel.TrackingCode{p.TrackingCode()}, suite.tracker.tracked)
}

func (suite *ParcelRepositoryTestSuite) TestAdd_DuplicateTrackingCode() {
	ctx := context.Background()
	suite.Require().NoError(suite.repo.Add(ctx, suite.newParcel("SF-2")))

	err := suite.repo.Add(ctx, suite.newParcel("SF-2"))

	suite.Require().ErrorIs(err, errs.ErrObjectAlreadyExists)
	suite.Len(suite.tracker.tracked, 1)
}

func (suite *ParcelRepositoryTestSuite) TestGet_NotFound() {
	_, err := suite.repo.Get(context.Background(), kernel.MustTrackingCode("SF-MISSING"))
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	_, err = suite.repo.GetForUpdate(context.Background(), kernel.MustTrackingCode("SF-MISSING"))
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ParcelRepositoryTestSuite) TestUpdate_ConditionalOnVersion() {
	ctx := context.Background()
	p := suite.newParcel("SF-3")
	suite.Require().NoError(suite.repo.Add(ctx, p))

	at := pgtest.Round(time.Now().Add(time.Minute))
	suite.Require().NoError(p.ApplyTransition(1, stage.Processing, kernel.MustOperatorID("op-2"), at))
	suite.Require().NoError(suite.repo.Update(ctx, p, 1))

	stored, err := suite.repo.Get(ctx, p.TrackingCode())
	suite.Require().NoError(err)
	suite.Equal(p.State(), stored.State())

	stale := suite.newParcel("SF-3")
	suite.Require().NoError(stale.ApplyTransition(1, stage.Cancelled, kernel.MustOperatorID("op-3"), at))
	err = suite.repo.Update(ctx, stale, 1)

	suite.Require().ErrorIs(err, errs.ErrVersionConflict)
	var conflict *errs.VersionConflictError
	suite.Require().ErrorAs(err, &conflict)
	suite.Equal(int64(1), conflict.Expected)
	suite.Equal(int64(2), conflict.Actual)

	stored, err = suite.repo.Get(ctx, p.TrackingCode())
	suite.Require().NoError(err)
	suite.Equal(stage.Processing, stored.Stage())
}

func (suite *ParcelRepositoryTestSuite) TestGetForUpdate_BlocksSecondLocker() {
	ctx := context.Background()
	p := suite.newParcel("SF-4")
	suite.Require().NoError(suite.repo.Add(ctx, p))

	tx1 := suite.db.Begin()
	defer tx1.Rollback()
	_, err := parcelrepo.NewGormParcelRepository(tx1, suite.tracker).GetForUpdate(ctx, p.TrackingCode())
	suite.Require().NoError(err)

	tx2 := suite.db.Begin()
	defer tx2.Rollback()
	lockCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	_, err = parcelrepo.NewGormParcelRepository(tx2, suite.tracker).GetForUpdate(lockCtx, p.TrackingCode())

	suite.Require().Error(err, "second locker must wait for the first transaction")
}

func TestParcelRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ParcelRepositoryTestSuite))
}
