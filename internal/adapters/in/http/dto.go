package http

import (
	"time"

	"warehouse/internal/core/application/usecases/commands"
	"warehouse/internal/core/domain/model/history"
	"warehouse/internal/core/domain/model/parcel"
	"warehouse/internal/core/domain/model/quality"

	"github.com/shopspring/decimal"
)

// NewParcelRequest is the body of POST /api/v1/parcels.
type NewParcelRequest struct {
	TrackingCode string `json:"tracking_code" validate:"required,max=64"`
	OrderRef     string `json:"order_ref" validate:"required,max=64"`
	CustomerRef  string `json:"customer_ref" validate:"required,max=128"`
	ItemCount    int    `json:"item_count" validate:"required,min=1,max=10000"`
	Priority     string `json:"priority" validate:"omitempty,oneof=Low Normal High Express Urgent"`
	Operator     string `json:"operator" validate:"required,max=100"`
}

// TransitionRequestBody is the body of POST /api/v1/parcels/:code/transitions.
type TransitionRequestBody struct {
	ExpectedVersion int64        `json:"expected_version" validate:"required,min=1"`
	TargetStage     string       `json:"target_stage" validate:"required"`
	Operator        string       `json:"operator" validate:"required,max=100"`
	Note            string       `json:"note" validate:"max=500"`
	Quality         *QualityBody `json:"quality" validate:"omitempty"`
	Change          *ChangeBody  `json:"change" validate:"omitempty"`
}

// QualityBody carries the defect found when a check fails, or the resolution
// when a parcel leaves rework.
type QualityBody struct {
	IssueType   string          `json:"issue_type" validate:"omitempty,max=32"`
	Severity    string          `json:"severity" validate:"omitempty,oneof=Minor Major Critical"`
	Description string          `json:"description" validate:"max=1000"`
	Cost        decimal.Decimal `json:"cost"`
	Resolution  string          `json:"resolution" validate:"max=1000"`
}

type ChangeBody struct {
	Field string `json:"field" validate:"required,max=64"`
	Old   string `json:"old" validate:"max=255"`
	New   string `json:"new" validate:"max=255"`
}

type ParcelResponse struct {
	TrackingCode  string    `json:"tracking_code"`
	OrderRef      string    `json:"order_ref"`
	CustomerRef   string    `json:"customer_ref"`
	ItemCount     int       `json:"item_count"`
	Priority      string    `json:"priority"`
	Stage         string    `json:"stage"`
	Version       int64     `json:"version"`
	ReworkCount   int       `json:"rework_count"`
	CreatedBy     string    `json:"created_by"`
	LastUpdatedBy string    `json:"last_updated_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type IntervalResponse struct {
	ID        string     `json:"id"`
	Sequence  int64      `json:"sequence"`
	Stage     string     `json:"stage"`
	Operator  string     `json:"operator"`
	EnteredAt time.Time  `json:"entered_at"`
	ExitedAt  *time.Time `json:"exited_at"`
	Duration  *int64     `json:"duration_ns"`
	Clamped   bool       `json:"clamped"`
}

type IssueResponse struct {
	ID          string          `json:"id"`
	IssueType   string          `json:"issue_type"`
	Severity    string          `json:"severity"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
	ReportedBy  string          `json:"reported_by"`
	ReportedAt  time.Time       `json:"reported_at"`
	Resolved    bool            `json:"resolved"`
	Resolution  string          `json:"resolution,omitempty"`
}

type TransitionResponse struct {
	Parcel          ParcelResponse   `json:"parcel"`
	ClosedInterval  IntervalResponse `json:"closed_interval"`
	OpenedInterval  IntervalResponse `json:"opened_interval"`
	Duration        int64            `json:"duration_ns"`
	DurationClamped bool             `json:"duration_clamped"`
	Issue           *IssueResponse   `json:"issue,omitempty"`
}

// ErrorResponse is returned for every refused request. Retryable tells the
// station whether sending again can succeed; for version conflicts it must
// reload first and CurrentVersion says what it will find.
type ErrorResponse struct {
	Code           int               `json:"code"`
	Kind           string            `json:"kind,omitempty"`
	Message        string            `json:"message"`
	Retryable      bool              `json:"retryable"`
	CurrentVersion *int64            `json:"current_version,omitempty"`
	Fields         map[string]string `json:"fields,omitempty"`
}

func toParcelResponse(p *parcel.Parcel) ParcelResponse {
	return ParcelResponse{
		TrackingCode:  p.TrackingCode().String(),
		OrderRef:      p.OrderRef(),
		CustomerRef:   p.CustomerRef(),
		ItemCount:     p.ItemCount(),
		Priority:      p.Priority().String(),
		Stage:         p.Stage().String(),
		Version:       p.Version(),
		ReworkCount:   p.ReworkCount(),
		CreatedBy:     p.CreatedBy().String(),
		LastUpdatedBy: p.LastUpdatedBy().String(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}

func toIntervalResponse(i *history.Interval) IntervalResponse {
	r := IntervalResponse{
		ID:        i.ID().String(),
		Sequence:  i.Sequence(),
		Stage:     i.Stage().String(),
		Operator:  i.Operator().String(),
		EnteredAt: i.EnteredAt(),
		ExitedAt:  i.ExitedAt(),
		Clamped:   i.Clamped(),
	}
	if d := i.Duration(); d != nil {
		ns := d.Nanoseconds()
		r.Duration = &ns
	}
	return r
}

func toIssueResponse(i *quality.Issue) *IssueResponse {
	if i == nil {
		return nil
	}
	return &IssueResponse{
		ID:          i.ID().String(),
		IssueType:   i.IssueType().String(),
		Severity:    i.Severity().String(),
		Description: i.Description(),
		Cost:        i.Cost(),
		ReportedBy:  i.ReportedBy().String(),
		ReportedAt:  i.ReportedAt(),
		Resolved:    i.IsResolved(),
		Resolution:  i.Resolution(),
	}
}

func toTransitionResponse(r commands.TransitionResult) TransitionResponse {
	return TransitionResponse{
		Parcel:          toParcelResponse(r.Parcel),
		ClosedInterval:  toIntervalResponse(r.ClosedInterval),
		OpenedInterval:  toIntervalResponse(r.OpenedInterval),
		Duration:        r.Duration.Nanoseconds(),
		DurationClamped: r.DurationClamped,
		Issue:           toIssueResponse(r.Issue),
	}
}
