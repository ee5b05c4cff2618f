package queries

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetQualityIssuesQueryHandler struct {
	db *gorm.DB
}

func NewGetQualityIssuesQueryHandler(db *gorm.DB) GetQualityIssuesQueryHandler {
	return GetQualityIssuesQueryHandler{db: db}
}

// Handle lists the issues of a parcel oldest first.
func (h GetQualityIssuesQueryHandler) Handle(ctx context.Context, query GetQualityIssuesQuery) ([]QualityIssueResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	code := query.TrackingCode().String()

	if err := ensureParcelExists(ctx, h.db, code); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			parcel_version,
			issue_type,
			severity,
			description,
			cost,
			reported_by,
			reported_at,
			resolved_by,
			resolved_at,
			resolution
		FROM quality_issues
		WHERE tracking_code = ? AND (NOT ? OR resolved_at IS NULL)
		ORDER BY reported_at, parcel_version
	`, code, query.UnresolvedOnly()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	issues := make([]QualityIssueResponse, 0)
	for rows.Next() {
		var (
			r          QualityIssueResponse
			id         uuid.UUID
			cost       decimal.Decimal
			resolvedBy sql.NullString
			resolvedAt sql.NullTime
			resolution sql.NullString
		)
		if err = rows.Scan(
			&id,
			&r.ParcelVersion,
			&r.IssueType,
			&r.Severity,
			&r.Description,
			&cost,
			&r.ReportedBy,
			&r.ReportedAt,
			&resolvedBy,
			&resolvedAt,
			&resolution,
		); err != nil {
			return nil, err
		}

		r.ID = id.String()
		r.Cost = cost
		r.ReportedAt = r.ReportedAt.UTC()
		r.ResolvedBy = resolvedBy.String
		r.Resolution = resolution.String
		if resolvedAt.Valid {
			t := resolvedAt.Time.UTC()
			r.ResolvedAt = &t
		}
		issues = append(issues, r)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return issues, nil
}
