package queries_test

import (
	"context"

	"warehouse/internal/core/application/usecases/commands"
	"warehouse/internal/core/application/usecases/queries"
)

func (suite *QueryHandlersTestSuite) TestAttempts_ListsRefusals() {
	suite.register("SF-AUD")
	err := suite.move(commands.TransitionRequest{
		TrackingCode:    "SF-AUD",
		ExpectedVersion: 1,
		TargetStage:     "Shipped",
		Operator:        "station-9",
	})
	suite.Require().Error(err)
	err = suite.move(commands.TransitionRequest{
		TrackingCode:    "SF-AUD",
		ExpectedVersion: 1,
		TargetStage:     "QualityCheck",
		Operator:        "station-9",
	})
	suite.Require().Error(err)
	handler := queries.NewGetTransitionAttemptsQueryHandler(suite.db)

	query, err := queries.NewGetTransitionAttemptsQuery("SF-AUD", 0)
	suite.Require().NoError(err)
	attempts, err := handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(attempts, 2)
	suite.Equal("QualityCheck", attempts[0].TargetStage)
	suite.Equal("Shipped", attempts[1].TargetStage)
	suite.Equal(string(commands.FailureIllegalTransition), attempts[0].Kind)
	suite.Equal("station-9", attempts[0].Operator)
	suite.Equal(int64(1), attempts[0].ExpectedVersion)

	limited, err := queries.NewGetTransitionAttemptsQuery("SF-AUD", 1)
	suite.Require().NoError(err)
	attempts, err = handler.Handle(context.Background(), limited)
	suite.Require().NoError(err)
	suite.Len(attempts, 1)
}

func (suite *QueryHandlersTestSuite) TestAttempts_UnknownCodeIsEmpty() {
	handler := queries.NewGetTransitionAttemptsQueryHandler(suite.db)
	query, err := queries.NewGetTransitionAttemptsQuery("SF-NEVER", 10)
	suite.Require().NoError(err)

	attempts, err := handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Empty(attempts)
}
