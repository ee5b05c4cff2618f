package queries

import (
	"errors"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetQualityIssuesQueryIsNotConstructed = errors.New(
	"GetQualityIssuesQuery must be created via NewGetQualityIssuesQuery constructor",
)

type GetQualityIssuesQuery struct {
	trackingCode   kernel.TrackingCode
	unresolvedOnly bool
	guard          guard.ConstructorGuard
}

func NewGetQualityIssuesQuery(trackingCode string, unresolvedOnly bool) (GetQualityIssuesQuery, error) {
	code, err := kernel.NewTrackingCode(trackingCode)
	if err != nil {
		return GetQualityIssuesQuery{}, err
	}
	return GetQualityIssuesQuery{
		trackingCode:   code,
		unresolvedOnly: unresolvedOnly,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (q GetQualityIssuesQuery) Validate() error {
	return q.guard.Validate(ErrGetQualityIssuesQueryIsNotConstructed)
}

func (q GetQualityIssuesQuery) TrackingCode() kernel.TrackingCode {
	return q.trackingCode
}

func (q GetQualityIssuesQuery) UnresolvedOnly() bool {
	return q.unresolvedOnly
}

type QualityIssueResponse struct {
	ID            string          `json:"id"`
	ParcelVersion int64           `json:"parcel_version"`
	IssueType     string          `json:"issue_type"`
	Severity      string          `json:"severity"`
	Description   string          `json:"description"`
	Cost          decimal.Decimal `json:"cost"`
	ReportedBy    string          `json:"reported_by"`
	ReportedAt    time.Time       `json:"reported_at"`
	ResolvedBy    string          `json:"resolved_by,omitempty"`
	ResolvedAt    *time.Time      `json:"resolved_at"`
	Resolution    string          `json:"resolution,omitempty"`
}
