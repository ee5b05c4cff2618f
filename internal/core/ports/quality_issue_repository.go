package ports

import (
	"context"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/quality"
)

type QualityIssueRepository interface {
	Add(ctx context.Context, issue *quality.Issue) error
	Update(ctx context.Context, issue *quality.Issue) error

	// GetLatestUnresolved returns the most recently reported unresolved issue
	// or *errs.ObjectNotFoundError.
	GetLatestUnresolved(ctx context.Context, code kernel.TrackingCode) (*quality.Issue, error)

	// ListByParcel returns all issues of the parcel, oldest first.
	ListByParcel(ctx context.Context, code kernel.TrackingCode) ([]*quality.Issue, error)
}
