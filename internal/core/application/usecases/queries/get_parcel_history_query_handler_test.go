package queries_test

import (
	"context"
	"time"

	"warehouse/internal/core/application/usecases/commands"
	"warehouse/internal/core/application/usecases/queries"
	"warehouse/internal/core/domain/model/history"
	"warehouse/internal/pkg/errs"
)

func (suite *QueryHandlersTestSuite) TestHistory_OrderedWithDurations() {
	suite.register("SF-HIST")
	suite.Require().NoError(suite.move(commands.TransitionRequest{
		TrackingCode:    "SF-HIST",
		ExpectedVersion: 1,
		TargetStage:     "Processing",
		Operator:        "station-2",
		Note:            "item count corrected",
		Change:          &history.FieldChange{Field: "item_count", Old: "12", New: "11"},
	}))
	suite.Require().NoError(suite.move(commands.TransitionRequest{
		TrackingCode:    "SF-HIST",
		ExpectedVersion: 2,
		TargetStage:     "FabricWork",
		Operator:        "station-3",
	}))
	handler := queries.NewGetParcelHistoryQueryHandler(suite.db)

	query, err := queries.NewGetParcelHistoryQuery("SF-HIST")
	suite.Require().NoError(err)
	intervals, err := handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(intervals, 3)

	suite.Equal("Intake", intervals[0].Stage)
	suite.Equal("intake-1", intervals[0].Operator)
	suite.Require().NotNil(intervals[0].Duration)
	suite.Equal(time.Minute, *intervals[0].Duration)

	suite.Equal("Processing", intervals[1].Stage)
	suite.Equal(int64(2), intervals[1].Sequence)
	suite.Equal("item count corrected", intervals[1].Note)
	suite.Equal("item_count", intervals[1].ChangeField)
	suite.Equal("12", intervals[1].ChangeOld)
	suite.Equal("11", intervals[1].ChangeNew)
	suite.Require().NotNil(intervals[1].ExitedAt)

	suite.Equal("FabricWork", intervals[2].Stage)
	suite.Nil(intervals[2].ExitedAt)
	suite.Nil(intervals[2].Duration)
	suite.Empty(intervals[2].ChangeField)
}

func (suite *QueryHandlersTestSuite) TestHistory_NotFound() {
	handler := queries.NewGetParcelHistoryQueryHandler(suite.db)
	query, err := queries.NewGetParcelHistoryQuery("SF-NONE")
	suite.Require().NoError(err)

	_, err = handler.Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}
