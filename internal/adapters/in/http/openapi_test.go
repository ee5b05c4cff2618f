package http_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	api "warehouse/internal/adapters/in/http"
	"warehouse/internal/core/application/usecases/commands"
	"warehouse/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLoadAPIDocument_DescribesEveryRoute(t *testing.T) {
	doc, err := api.LoadAPIDocument(context.Background())
	require.NoError(t, err)

	operations := map[string]string{}
	for path, item := range doc.Paths.Map() {
		for method, op := range item.Operations() {
			operations[op.OperationID] = method + " " + path
		}
	}

	assert.Equal(t, map[string]string{
		"health":                "GET /health",
		"createParcel":          "POST /api/v1/parcels",
		"getParcel":             "GET /api/v1/parcels/{code}",
		"getParcelHistory":      "GET /api/v1/parcels/{code}/history",
		"getQualityIssues":      "GET /api/v1/parcels/{code}/issues",
		"getTransitionAttempts": "GET /api/v1/parcels/{code}/attempts",
		"requestTransition":     "POST /api/v1/parcels/{code}/transitions",
	}, operations)
}

func TestSwaggerServesTheAPIDocument(t *testing.T) {
	a := newTestAPI(t, stubSnapshots{})
	newTestAPI(t, stubSnapshots{})

	rec := a.do(http.MethodGet, "/swagger/doc.json", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"requestTransition"`)
	assert.Contains(t, rec.Body.String(), `"/api/v1/parcels/{code}/attempts"`)
}

func TestRequestContract(t *testing.T) {
	t.Run("query parameter out of range", func(t *testing.T) {
		a := newTestAPI(t, stubSnapshots{})

		rec := a.do(http.MethodGet, "/api/v1/parcels/SF-1/attempts?limit=-1", "")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "Validation", body.Kind)
		assert.Equal(t, "query", body.Fields["limit"])
		assert.Zero(t, a.limit)
	})

	t.Run("tracking code outside the label alphabet", func(t *testing.T) {
		a := newTestAPI(t, stubSnapshots{})

		rec := a.do(http.MethodGet, "/api/v1/parcels/SF.1/history", "")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "path", decodeError(t, rec).Fields["code"])
	})

	t.Run("body that is not an object", func(t *testing.T) {
		a := newTestAPI(t, stubSnapshots{})

		rec := a.do(http.MethodPost, "/api/v1/parcels", `["SF-1"]`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "schema", decodeError(t, rec).Fields["body"])
		a.registrar.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("rejected transition is still audited", func(t *testing.T) {
		a := newTestAPI(t, stubSnapshots{})
		a.transitions.On("RecordRejectedRequest", mock.Anything, mock.MatchedBy(func(req commands.TransitionRequest) bool {
			return req.TrackingCode == "SF.1"
		}), mock.MatchedBy(func(err error) bool {
			return errors.Is(err, errs.ErrValueIsInvalid)
		})).Once()

		rec := a.do(http.MethodPost, "/api/v1/parcels/SF.1/transitions",
			`{"expected_version":1,"target_stage":"Processing","operator":"s"}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		a.transitions.AssertExpectations(t)
		a.transitions.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("undocumented paths fall through to routing", func(t *testing.T) {
		a := newTestAPI(t, stubSnapshots{})

		rec := a.do(http.MethodGet, "/api/v1/stations", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
