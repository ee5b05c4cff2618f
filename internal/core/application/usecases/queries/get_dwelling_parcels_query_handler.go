package queries

import (
	"context"

	"warehouse/internal/core/domain/model/stage"

	"gorm.io/gorm"
)

type GetDwellingParcelsQueryHandler struct {
	db *gorm.DB
}

func NewGetDwellingParcelsQueryHandler(db *gorm.DB) GetDwellingParcelsQueryHandler {
	return GetDwellingParcelsQueryHandler{db: db}
}

// Handle returns the longest dwelling parcels first.
func (h GetDwellingParcelsQueryHandler) Handle(ctx context.Context, query GetDwellingParcelsQuery) ([]DwellingParcelResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT p.tracking_code, p.stage, p.priority, i.operator, i.entered_at
		FROM stage_intervals i
		JOIN parcels p ON p.tracking_code = i.tracking_code
		WHERE i.exited_at IS NULL
			AND i.entered_at < ?
			AND p.stage NOT IN (?, ?)
		ORDER BY i.entered_at
		LIMIT ?
	`, query.EnteredBefore(), stage.Shipped.String(), stage.Cancelled.String(), query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parcels := make([]DwellingParcelResponse, 0)
	for rows.Next() {
		var r DwellingParcelResponse
		if err = rows.Scan(&r.TrackingCode, &r.Stage, &r.Priority, &r.Operator, &r.EnteredAt); err != nil {
			return nil, err
		}
		r.EnteredAt = r.EnteredAt.UTC()
		parcels = append(parcels, r)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return parcels, nil
}
