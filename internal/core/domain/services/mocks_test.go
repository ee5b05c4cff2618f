package services_test

import (
	"context"

	"warehouse/internal/core/domain/model/history"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/parcel"
	"warehouse/internal/core/domain/model/quality"

	"github.com/stretchr/testify/mock"
)

type MockParcelRepository struct{ mock.Mock }

func (m *MockParcelRepository) Add(ctx context.Context, p *parcel.Parcel) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockParcelRepository) Get(ctx context.Context, code kernel.TrackingCode) (*parcel.Parcel, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}

func (m *MockParcelRepository) GetForUpdate(ctx context.Context, code kernel.TrackingCode) (*parcel.Parcel, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}

func (m *MockParcelRepository) Update(ctx context.Context, p *parcel.Parcel, expectedVersion int64) error {
	return m.Called(ctx, p, expectedVersion).Error(0)
}

type MockIntervalRepository struct{ mock.Mock }

func (m *MockIntervalRepository) Add(ctx context.Context, i *history.Interval) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockIntervalRepository) GetOpen(ctx context.Context, code kernel.TrackingCode) (*history.Interval, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*history.Interval), args.Error(1)
}

func (m *MockIntervalRepository) Close(ctx context.Context, i *history.Interval) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockIntervalRepository) ListByParcel(ctx context.Context, code kernel.TrackingCode) ([]*history.Interval, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*history.Interval), args.Error(1)
}

type MockQualityIssueRepository struct{ mock.Mock }

func (m *MockQualityIssueRepository) Add(ctx context.Context, i *quality.Issue) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockQualityIssueRepository) Update(ctx context.Context, i *quality.Issue) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockQualityIssueRepository) GetLatestUnresolved(ctx context.Context, code kernel.TrackingCode) (*quality.Issue, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quality.Issue), args.Error(1)
}

func (m *MockQualityIssueRepository) ListByParcel(ctx context.Context, code kernel.TrackingCode) ([]*quality.Issue, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*quality.Issue), args.Error(1)
}
