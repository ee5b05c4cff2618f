// Package commands contains the operations that change warehouse state:
// registering parcels at intake and moving them between stages.
// Every command follows the same pattern: constructor validation, one unit of
// work, explicit commit, rollback on any early return.
//
// # Usage
//
// Commands are built from raw station input. A command that fails its
// constructor never reaches a handler:
//
//	handler := commands.NewRequestTransitionCommandHandler(uowFactory, auditFactory,
//	    commands.TransitionPolicy{Timeout: 5 * time.Second, MaxReworkCycles: 3}, logger)
//
//	req := commands.TransitionRequest{
//	    TrackingCode:    "SF-2024-000131",
//	    ExpectedVersion: 4,
//	    TargetStage:     "QualityPassed",
//	    Operator:        "qc-lead-3",
//	}
//	cmd, err := commands.NewRequestTransitionCommand(req)
//	if err != nil {
//	    handler.RecordRejectedRequest(ctx, req, err)
//	    return err
//	}
//
//	result, err := handler.Handle(ctx, cmd)
//	switch commands.Classify(err) {
//	case commands.FailureNone:
//	    // result.Parcel carries the new version
//	case commands.FailureVersionConflict, commands.FailureTimeout:
//	    // reread and resend; commands.IsRetryable(err) is true
//	}
//
// # Failures
//
// Handlers return the domain errors and wrap an expired deadline in
// ErrTimeout. Classify maps them to a FailureKind for transports. Refused transitions other than timeouts,
// version conflicts and cancellations are written to the audit trail after the
// transaction has rolled back.
package commands

import (
	"context"

	"warehouse/internal/core/ports"
)

// Unit of Work interfaces narrowed to what each handler touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	ParcelRepoFactory interface {
		ParcelRepository() ports.ParcelRepository
	}

	IntervalRepoFactory interface {
		IntervalRepository() ports.IntervalRepository
	}

	QualityIssueRepoFactory interface {
		QualityIssueRepository() ports.QualityIssueRepository
	}

	AuditRepoFactory interface {
		AuditRepository() ports.AuditRepository
	}

	// IntakeUoW covers parcel registration: the ledger row and its first interval.
	IntakeUoW interface {
		TxManager
		ParcelRepoFactory
		IntervalRepoFactory
	}

	IntakeUoWFactory interface {
		Create() IntakeUoW
	}

	// TransitionUoW covers everything a stage transition writes.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   parcel, err := uow.ParcelRepository().GetForUpdate(ctx, code)
	//   // ... close and open intervals, record quality issues
	//
	//   err = uow.Commit(ctx)
	TransitionUoW interface {
		TxManager
		ParcelRepoFactory
		IntervalRepoFactory
		QualityIssueRepoFactory
	}

	TransitionUoWFactory interface {
		Create() TransitionUoW
	}

	// AuditUoW writes outside of any transition transaction, so that a
	// refused attempt is recorded even though its transaction rolled back.
	AuditUoW interface {
		AuditRepoFactory
	}

	AuditUoWFactory interface {
		Create() AuditUoW
	}
)
