package ports

import (
	"context"

	"warehouse/internal/core/domain/model/audit"
)

// AuditRepository stores refused transition attempts.
type AuditRepository interface {
	Add(ctx context.Context, attempt *audit.Attempt) error

	// ListByParcel returns the refused attempts for the raw tracking code,
	// newest first, at most limit entries.
	ListByParcel(ctx context.Context, trackingCode string, limit int) ([]*audit.Attempt, error)
}
