package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetTransitionAttemptsQueryHandler struct {
	db *gorm.DB
}

func NewGetTransitionAttemptsQueryHandler(db *gorm.DB) GetTransitionAttemptsQueryHandler {
	return GetTransitionAttemptsQueryHandler{db: db}
}

// Handle returns the newest attempts first. Unknown codes yield an empty list.
func (h GetTransitionAttemptsQueryHandler) Handle(ctx context.Context, query GetTransitionAttemptsQuery) ([]TransitionAttemptResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, operator, target_stage, expected_version, kind, message, attempted_at
		FROM transition_attempts
		WHERE tracking_code = ?
		ORDER BY attempted_at DESC
		LIMIT ?
	`, query.TrackingCode(), query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := make([]TransitionAttemptResponse, 0)
	for rows.Next() {
		var (
			r  TransitionAttemptResponse
			id uuid.UUID
		)
		if err = rows.Scan(&id, &r.Operator, &r.TargetStage, &r.ExpectedVersion, &r.Kind, &r.Message, &r.AttemptedAt); err != nil {
			return nil, err
		}
		r.ID = id.String()
		r.AttemptedAt = r.AttemptedAt.UTC()
		attempts = append(attempts, r)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}
