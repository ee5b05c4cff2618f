package queries_test

import (
	"context"
	"time"

	"warehouse/internal/core/application/usecases/queries"
)

func (suite *QueryHandlersTestSuite) TestDwelling_ListsStaleNonTerminalParcels() {
	// The clock ticks a minute per write: SF-FRESH enters Intake last.
	suite.register("SF-OLD")
	suite.register("SF-DONE")
	suite.walk("SF-DONE", "Cancelled")
	suite.register("SF-FRESH")
	cutoff := suite.now.Add(-30 * time.Second)
	handler := queries.NewGetDwellingParcelsQueryHandler(suite.db)

	query, err := queries.NewGetDwellingParcelsQuery(cutoff, 10)
	suite.Require().NoError(err)
	parcels, err := handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(parcels, 1)
	suite.Equal("SF-OLD", parcels[0].TrackingCode)
	suite.Equal("Intake", parcels[0].Stage)
	suite.Equal("High", parcels[0].Priority)
	suite.Equal("intake-1", parcels[0].Operator)
}

func (suite *QueryHandlersTestSuite) TestDwelling_RespectsLimitAndOrder() {
	suite.register("SF-A")
	suite.register("SF-B")
	suite.register("SF-C")
	handler := queries.NewGetDwellingParcelsQueryHandler(suite.db)

	query, err := queries.NewGetDwellingParcelsQuery(suite.now.Add(time.Hour), 2)
	suite.Require().NoError(err)
	parcels, err := handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(parcels, 2)
	suite.Equal("SF-A", parcels[0].TrackingCode)
	suite.Equal("SF-B", parcels[1].TrackingCode)
}
