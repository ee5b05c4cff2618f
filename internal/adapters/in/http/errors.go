package http

import (
	"errors"
	"net/http"

	"warehouse/internal/core/application/usecases/commands"
	"warehouse/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// statusFor maps a failure kind to the HTTP status stations act on.
func statusFor(kind commands.FailureKind) int {
	switch kind {
	case commands.FailureNotFound:
		return http.StatusNotFound
	case commands.FailureDuplicateTrackingCode, commands.FailureVersionConflict:
		return http.StatusConflict
	case commands.FailureIllegalTransition,
		commands.FailureNoUnresolvedIssue,
		commands.FailureReworkLimitReached:
		return http.StatusUnprocessableEntity
	case commands.FailureValidation:
		return http.StatusBadRequest
	case commands.FailureTimeout:
		return http.StatusServiceUnavailable
	case commands.FailureCanceled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(c echo.Context, err error) error {
	kind := commands.Classify(err)
	status := statusFor(kind)

	body := ErrorResponse{
		Code:      status,
		Kind:      string(kind),
		Message:   err.Error(),
		Retryable: commands.IsRetryable(err),
	}

	var conflict *errs.VersionConflictError
	if errors.As(err, &conflict) {
		current := conflict.Actual
		body.CurrentVersion = &current
	}

	if status == http.StatusInternalServerError {
		s.logger.WithFields(logrus.Fields{
			"kind":   string(kind),
			"method": c.Request().Method,
			"path":   c.Path(),
		}).WithError(err).Error("request failed")
		if kind == commands.FailureInternal {
			body.Message = "internal error"
		}
	}

	return c.JSON(status, body)
}

func respondBadRequest(c echo.Context, message string, err error) error {
	body := ErrorResponse{
		Code:    http.StatusBadRequest,
		Kind:    string(commands.FailureValidation),
		Message: message,
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		body.Fields = make(map[string]string, len(validationErrors))
		for _, ve := range validationErrors {
			body.Fields[ve.Field()] = ve.Tag()
		}
	}

	return c.JSON(http.StatusBadRequest, body)
}

// invalidBody wraps a validator failure so that it is classified and audited
// as a validation error.
func invalidBody(err error) error {
	return errs.NewValueIsInvalidErrorWithCause("transition request", err)
}
