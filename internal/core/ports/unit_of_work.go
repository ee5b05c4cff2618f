package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command or query.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories obtained after
// Begin share its transaction; repositories obtained without Begin work
// directly on the database.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit makes all changes durable. Returns error if no transaction is
	// active or the database refuses the commit.
	Commit(ctx context.Context) error

	// Rollback discards all changes. Returns error if no transaction is active.
	Rollback(ctx context.Context) error

	ParcelRepository() ParcelRepository
	IntervalRepository() IntervalRepository
	QualityIssueRepository() QualityIssueRepository
	AuditRepository() AuditRepository
}
