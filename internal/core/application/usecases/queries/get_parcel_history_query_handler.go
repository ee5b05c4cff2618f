package queries

import (
	"context"
	"database/sql"
	"time"

	"warehouse/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetParcelHistoryQueryHandler lists the stage intervals of a parcel by entry
// time, ties broken by the version the interval was opened at.
type GetParcelHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetParcelHistoryQueryHandler(db *gorm.DB) GetParcelHistoryQueryHandler {
	return GetParcelHistoryQueryHandler{db: db}
}

// Handle returns *errs.ObjectNotFoundError for unknown parcels.
func (h GetParcelHistoryQueryHandler) Handle(ctx context.Context, query GetParcelHistoryQuery) ([]StageIntervalResponse, error) {
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
			sequence,
			stage,
			operator,
			entered_at,
			exited_at,
			duration_ns,
			clamped,
			note,
			change_field,
			change_old,
			change_new
		FROM stage_intervals
		WHERE tracking_code = ?
		ORDER BY entered_at, sequence
	`, code).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	intervals := make([]StageIntervalResponse, 0)
	for rows.Next() {
		var (
			r          StageIntervalResponse
			id         uuid.UUID
			exitedAt   sql.NullTime
			durationNs sql.NullInt64
			field      sql.NullString
			oldValue   sql.NullString
			newValue   sql.NullString
		)
		if err = rows.Scan(
			&id,
			&r.Sequence,
			&r.Stage,
			&r.Operator,
			&r.EnteredAt,
			&exitedAt,
			&durationNs,
			&r.Clamped,
			&r.Note,
			&field,
			&oldValue,
			&newValue,
		); err != nil {
			return nil, err
		}

		r.ID = id.String()
		r.EnteredAt = r.EnteredAt.UTC()
		if exitedAt.Valid {
			t := exitedAt.Time.UTC()
			r.ExitedAt = &t
		}
		if durationNs.Valid {
			d := time.Duration(durationNs.Int64)
			r.Duration = &d
		}
		r.ChangeField, r.ChangeOld, r.ChangeNew = field.String, oldValue.String, newValue.String
		intervals = append(intervals, r)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return intervals, nil
}

func ensureParcelExists(ctx context.Context, db *gorm.DB, code string) error {
	var count int64
	if err := db.WithContext(ctx).Raw(`SELECT count(*) FROM parcels WHERE tracking_code = ?`, code).
		Scan(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("parcel", code)
	}
	return nil
}
