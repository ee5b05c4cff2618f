package queries_test

import (
	"context"

	"warehouse/internal/core/application/usecases/commands"
	"warehouse/internal/core/application/usecases/queries"
	"warehouse/internal/core/domain/model/quality"
	"warehouse/internal/core/domain/services"
	"warehouse/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

func (suite *QueryHandlersTestSuite) failCheck(code string, version int64, issueType quality.IssueType) {
	suite.Require().NoError(suite.move(commands.TransitionRequest{
		TrackingCode:    code,
		ExpectedVersion: version,
		TargetStage:     "ReworkRequired",
		Operator:        "qc-lead-3",
		Defect: &services.Defect{
			IssueType:   issueType,
			Severity:    quality.SeverityMinor,
			Description: "found at check",
			Cost:        decimal.RequireFromString("2.25"),
		},
	}))
}

func (suite *QueryHandlersTestSuite) TestIssues_ListAndFilter() {
	suite.register("SF-QI")
	suite.walk("SF-QI", "Processing", "FabricWork", "QualityCheck")
	suite.failCheck("SF-QI", 4, quality.IssueTypeSoiling)
	suite.Require().NoError(suite.move(commands.TransitionRequest{
		TrackingCode:    "SF-QI",
		ExpectedVersion: 5,
		TargetStage:     "Processing",
		Operator:        "rework-1",
		Resolution:      "washed",
	}))
	suite.Require().NoError(suite.move(commands.TransitionRequest{TrackingCode: "SF-QI", ExpectedVersion: 6, TargetStage: "FabricWork", Operator: "s"}))
	suite.Require().NoError(suite.move(commands.TransitionRequest{TrackingCode: "SF-QI", ExpectedVersion: 7, TargetStage: "QualityCheck", Operator: "s"}))
	suite.failCheck("SF-QI", 8, quality.IssueTypeMotifError)
	handler := queries.NewGetQualityIssuesQueryHandler(suite.db)

	all, err := queries.NewGetQualityIssuesQuery("SF-QI", false)
	suite.Require().NoError(err)
	issues, err := handler.Handle(context.Background(), all)
	suite.Require().NoError(err)
	suite.Require().Len(issues, 2)
	suite.Equal("Soiling", issues[0].IssueType)
	suite.Equal("washed", issues[0].Resolution)
	suite.Equal("rework-1", issues[0].ResolvedBy)
	suite.NotNil(issues[0].ResolvedAt)
	suite.Equal(int64(4), issues[0].ParcelVersion)
	suite.True(issues[0].Cost.Equal(decimal.RequireFromString("2.25")))
	suite.Equal("MotifError", issues[1].IssueType)
	suite.Nil(issues[1].ResolvedAt)

	open, err := queries.NewGetQualityIssuesQuery("SF-QI", true)
	suite.Require().NoError(err)
	unresolved, err := handler.Handle(context.Background(), open)
	suite.Require().NoError(err)
	suite.Require().Len(unresolved, 1)
	suite.Equal(int64(8), unresolved[0].ParcelVersion)
}

func (suite *QueryHandlersTestSuite) TestIssues_EmptyAndNotFound() {
	suite.register("SF-CLEAN")
	handler := queries.NewGetQualityIssuesQueryHandler(suite.db)

	query, err := queries.NewGetQualityIssuesQuery("SF-CLEAN", false)
	suite.Require().NoError(err)
	issues, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.NotNil(issues)
	suite.Empty(issues)

	query, err = queries.NewGetQualityIssuesQuery("SF-NONE", false)
	suite.Require().NoError(err)
	_, err = handler.Handle(context.Background(), query)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}
