package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/quality"
	"warehouse/internal/core/ports"
	"warehouse/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Defect is what the inspector reports when a parcel fails quality check.
type Defect struct {
	IssueType   quality.IssueType
	Severity    quality.Severity
	Description string
	Cost        decimal.Decimal
}

// QualityInspector records failed checks and resolves them once rework is done.
type QualityInspector struct {
	repo ports.QualityIssueRepository
}

func NewQualityInspector(repo ports.QualityIssueRepository) QualityInspector {
	return QualityInspector{repo: repo}
}

// RecordFailure stores an unresolved issue for the parcel. parcelVersion is
// the version the failed check was made against.
func (q QualityInspector) RecordFailure(
	ctx context.Context,
	code kernel.TrackingCode,
	parcelVersion int64,
	defect Defect,
	inspector kernel.OperatorID,
	at time.Time,
) (*quality.Issue, error) {
	issue, err := quality.NewIssue(code, parcelVersion, defect.IssueType, defect.Severity,
		defect.Description, defect.Cost, inspector, at)
	if err != nil {
		return nil, err
	}
	if err = q.repo.Add(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// ResolveLatest resolves the most recently reported unresolved issue.
//
// Returns quality.ErrNoUnresolvedIssue if the parcel has none.
func (q QualityInspector) ResolveLatest(
	ctx context.Context,
	code kernel.TrackingCode,
	resolver kernel.OperatorID,
	resolution string,
	at time.Time,
) (*quality.Issue, error) {
	issue, err := q.repo.GetLatestUnresolved(ctx, code)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, fmt.Errorf("%w: %s", quality.ErrNoUnresolvedIssue, code)
	}
	if err != nil {
		return nil, err
	}

	if err = issue.Resolve(resolver, resolution, at); err != nil {
		return nil, err
	}
	if err = q.repo.Update(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// Issues lists every issue recorded for the parcel.
func (q QualityInspector) Issues(ctx context.Context, code kernel.TrackingCode) ([]*quality.Issue, error) {
	return q.repo.ListByParcel(ctx, code)
}
