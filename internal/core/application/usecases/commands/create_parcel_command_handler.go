package commands

import (
	"context"
	"time"

	"warehouse/internal/core/domain/model/parcel"
	"warehouse/internal/core/domain/model/stage"
	"warehouse/internal/core/domain/services"

	"github.com/sirupsen/logrus"
)

// CreateParcelCommandHandler registers parcels. The ledger row and the first
// Intake interval are written in one transaction, so a parcel never exists
// without an open interval.
type CreateParcelCommandHandler struct {
	uowFactory IntakeUoWFactory
	now        func() time.Time
	logger     logrus.FieldLogger
}

func NewCreateParcelCommandHandler(
	uowFactory IntakeUoWFactory,
	now func() time.Time,
	logger logrus.FieldLogger,
) CreateParcelCommandHandler {
	if now == nil {
		now = time.Now
	}
	return CreateParcelCommandHandler{
		uowFactory: uowFactory,
		now:        now,
		logger:     logger.WithField("component", "create-parcel"),
	}
}

// Handle returns *errs.ObjectAlreadyExistsError when the tracking code is taken.
func (h CreateParcelCommandHandler) Handle(ctx context.Context, cmd CreateParcelCommand) (*parcel.Parcel, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	at := h.now()
	p, err := parcel.NewParcel(
		cmd.TrackingCode(), cmd.OrderRef(), cmd.CustomerRef(), cmd.ItemCount(),
		cmd.Priority(), cmd.Operator(), at,
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = services.NewLedger(uow.ParcelRepository()).Create(ctx, p); err != nil {
		return nil, err
	}

	_, err = services.NewHistoryLog(uow.IntervalRepository()).
		OpenInterval(ctx, p.TrackingCode(), p.Version(), stage.Intake, cmd.Operator(), at, "", nil)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.WithFields(logrus.Fields{
		"tracking_code": p.TrackingCode().String(),
		"operator":      cmd.Operator().String(),
		"priority":      p.Priority().String(),
	}).Info("parcel registered")

	return p, nil
}
