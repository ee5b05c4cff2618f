package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"warehouse/internal/core/domain/model/audit"
	"warehouse/internal/core/domain/model/history"
	"warehouse/internal/core/domain/model/parcel"
	"warehouse/internal/core/domain/model/quality"
	"warehouse/internal/core/domain/model/stage"
	"warehouse/internal/core/domain/services"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName   = "warehouse/transitions"
	auditTimeout = 5 * time.Second

	DefaultTransitionTimeout = 5 * time.Second
)

// TransitionPolicy holds the operational limits of the transition flow.
type TransitionPolicy struct {
	// Timeout bounds the whole transaction, waiting for the parcel lock
	// included. Zero or negative means DefaultTransitionTimeout.
	Timeout time.Duration

	// MaxReworkCycles limits how often a parcel may enter ReworkRequired.
	// Zero means unbounded.
	MaxReworkCycles int

	// Now is the clock used for interval timestamps. Defaults to time.Now.
	Now func() time.Time
}

// TransitionResult is what a station gets back after a successful move.
type TransitionResult struct {
	Parcel          *parcel.Parcel
	ClosedInterval  *history.Interval
	OpenedInterval  *history.Interval
	Duration        time.Duration
	DurationClamped bool

	// Issue is the recorded or resolved quality issue, if the move touched one.
	Issue *quality.Issue
}

// RequestTransitionCommandHandler is the single entry point that moves parcels
// between stages. Ledger, history and quality records change together in one
// transaction or not at all.
//
// Concurrency: the parcel row is locked first, so concurrent requests for the
// same parcel run one after another and every loser sees the advanced version
// and fails with a version conflict. Requests for different parcels do not
// contend.
//
// Example:
//
//	handler := NewRequestTransitionCommandHandler(uowFactory, auditFactory, policy, logger)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case IsRetryable(err):
//	    // reload the parcel (VersionConflict) or resend as is (Timeout)
//	case err != nil:
//	    // show the operator what was refused
//	default:
//	    fmt.Printf("now at version %d after %s\n", result.Parcel.Version(), result.Duration)
//	}
type RequestTransitionCommandHandler struct {
	uowFactory   TransitionUoWFactory
	auditFactory AuditUoWFactory
	policy       TransitionPolicy
	logger       logrus.FieldLogger
	tracer       trace.Tracer
}

// NewRequestTransitionCommandHandler wires the coordinator. auditFactory may
// be nil, in which case refused attempts are only logged.
func NewRequestTransitionCommandHandler(
	uowFactory TransitionUoWFactory,
	auditFactory AuditUoWFactory,
	policy TransitionPolicy,
	logger logrus.FieldLogger,
) RequestTransitionCommandHandler {
	if policy.Now == nil {
		policy.Now = time.Now
	}
	if policy.Timeout <= 0 {
		policy.Timeout = DefaultTransitionTimeout
	}
	return RequestTransitionCommandHandler{
		uowFactory:   uowFactory,
		auditFactory: auditFactory,
		policy:       policy,
		logger:       logger.WithField("component", "transition-coordinator"),
		tracer:       otel.Tracer(tracerName),
	}
}

// Handle validates and applies the transition.
//
// Returns, besides infrastructure errors:
//   - *errs.ObjectNotFoundError if the parcel does not exist
//   - *errs.VersionConflictError if the expected version is stale (retryable after reload)
//   - *stage.IllegalTransitionError if the catalog has no such move
//   - parcel.ErrReworkLimitReached, quality.ErrNoUnresolvedIssue
//   - ErrTimeout if the transaction did not finish in time (retryable as is)
//   - history errors and ErrHistoryOutOfSync on corrupted history
func (h RequestTransitionCommandHandler) Handle(ctx context.Context, cmd RequestTransitionCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}

	ctx, span := h.tracer.Start(ctx, "RequestTransition", trace.WithAttributes(
		attribute.String("parcel.tracking_code", cmd.TrackingCode().String()),
		attribute.String("parcel.target_stage", cmd.Target().String()),
		attribute.Int64("parcel.expected_version", cmd.ExpectedVersion()),
	))
	defer span.End()

	log := h.logger.WithFields(logrus.Fields{
		"tracking_code":    cmd.TrackingCode().String(),
		"target_stage":     cmd.Target().String(),
		"expected_version": cmd.ExpectedVersion(),
		"operator":         cmd.Operator().String(),
	})

	result, err := h.transition(ctx, cmd)
	if err != nil {
		kind := Classify(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(kind))
		h.reportFailure(ctx, log, cmd.Request(), kind, err)
		return TransitionResult{}, err
	}

	if result.DurationClamped {
		log.WithField("stage", result.ClosedInterval.Stage().String()).
			Warn("stage exit precedes entry, duration clamped to zero; station clocks are out of sync")
	}
	log.WithFields(logrus.Fields{
		"version":  result.Parcel.Version(),
		"duration": result.Duration.String(),
	}).Info("transition applied")

	return result, nil
}

func (h RequestTransitionCommandHandler) transition(
	ctx context.Context,
	cmd RequestTransitionCommand,
) (result TransitionResult, err error) {
	ctx, cancel := context.WithTimeout(ctx, h.policy.Timeout)
	defer cancel()
	defer func() {
		if err != nil {
			err = h.interpret(ctx, cmd, err)
		}
	}()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return TransitionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ledger := services.NewLedger(uow.ParcelRepository())
	historyLog := services.NewHistoryLog(uow.IntervalRepository())
	inspector := services.NewQualityInspector(uow.QualityIssueRepository())

	code := cmd.TrackingCode()
	expected := cmd.ExpectedVersion()
	target := cmd.Target()

	p, err := ledger.Lock(ctx, code)
	if err != nil {
		return TransitionResult{}, err
	}
	if err = p.CheckTransition(expected, target); err != nil {
		return TransitionResult{}, err
	}
	if err = p.CheckReworkAllowance(target, h.policy.MaxReworkCycles); err != nil {
		return TransitionResult{}, err
	}

	from := p.Stage()
	now := h.policy.Now()

	closed, clamped, err := historyLog.CloseOpenInterval(ctx, code, now)
	if err != nil {
		return TransitionResult{}, err
	}
	if closed.Stage() != from {
		return TransitionResult{}, fmt.Errorf("%w: parcel %s is in %s, open interval is for %s",
			ErrHistoryOutOfSync, code, from, closed.Stage())
	}

	opened, err := historyLog.OpenInterval(ctx, code, expected+1, target, cmd.Operator(), now, cmd.Note(), cmd.Change())
	if err != nil {
		return TransitionResult{}, err
	}

	var issue *quality.Issue
	switch {
	case stage.IsReworkTarget(target):
		issue, err = inspector.RecordFailure(ctx, code, expected, *cmd.Defect(), cmd.Operator(), now)
	case stage.IsReworkCompletion(from, target):
		issue, err = inspector.ResolveLatest(ctx, code, cmd.Operator(), cmd.Resolution(), now)
	}
	if err != nil {
		return TransitionResult{}, err
	}

	if err = ledger.ApplyTransition(ctx, p, expected, target, cmd.Operator(), now); err != nil {
		return TransitionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return TransitionResult{}, err
	}

	return TransitionResult{
		Parcel:          p,
		ClosedInterval:  closed,
		OpenedInterval:  opened,
		Duration:        *closed.Duration(),
		DurationClamped: clamped,
		Issue:           issue,
	}, nil
}

// interpret turns context errors into the coordinator's vocabulary: an
// elapsed deadline becomes ErrTimeout, a caller cancellation stays
// context.Canceled. Domain outcomes pass unchanged.
func (h RequestTransitionCommandHandler) interpret(ctx context.Context, cmd RequestTransitionCommand, err error) error {
	deadline := errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
	canceled := errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled)

	kind := Classify(err)
	if kind != FailureInternal && kind != FailureCanceled && !deadline {
		return err
	}

	code := cmd.TrackingCode()
	switch {
	case deadline:
		return fmt.Errorf("%w: parcel %s did not commit within %s: %w", ErrTimeout, code, h.policy.Timeout, err)
	case canceled && !errors.Is(err, context.Canceled):
		return fmt.Errorf("transition of parcel %s canceled before commit: %w: %w", code, context.Canceled, err)
	case canceled:
		return fmt.Errorf("transition of parcel %s canceled before commit: %w", code, err)
	default:
		return err
	}
}

// RecordRejectedRequest logs and audits a request that was refused before it
// became a command, typically for malformed input.
func (h RequestTransitionCommandHandler) RecordRejectedRequest(ctx context.Context, req TransitionRequest, err error) {
	log := h.logger.WithFields(logrus.Fields{
		"tracking_code":    req.TrackingCode,
		"target_stage":     req.TargetStage,
		"expected_version": req.ExpectedVersion,
		"operator":         req.Operator,
	})
	h.reportFailure(ctx, log, req, Classify(err), err)
}

// reportFailure logs every failure and writes non-retryable ones to the audit
// trail. Audit problems are logged and never replace the original error.
func (h RequestTransitionCommandHandler) reportFailure(
	ctx context.Context,
	log logrus.FieldLogger,
	req TransitionRequest,
	kind FailureKind,
	err error,
) {
	log = log.WithFields(logrus.Fields{"kind": string(kind), "error": err.Error()})

	switch kind {
	case FailureTimeout, FailureVersionConflict:
		log.Info("transition refused, caller may retry")
		return
	case FailureCanceled:
		log.Info("transition canceled by caller before commit")
		return
	case FailureInvariantViolation:
		log.Error("stage history invariant violated; this is a bug and needs investigation")
	default:
		log.Warn("transition refused")
	}

	if h.auditFactory == nil {
		return
	}

	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()

	target, _ := stage.Parse(req.TargetStage)
	attempt, auditErr := audit.NewAttempt(req.TrackingCode, req.Operator, target, req.ExpectedVersion,
		string(kind), err.Error(), h.policy.Now())
	if auditErr == nil {
		auditErr = h.auditFactory.Create().AuditRepository().Add(auditCtx, attempt)
	}
	if auditErr != nil {
		log.WithField("audit_error", auditErr.Error()).Error("failed to record refused transition in audit trail")
	}
}
