package errs_test

import (
	"errors"
	"testing"

	"warehouse/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("parcel", "QR-100")

		assert.Equal(t, "parcel", err.ParamName)
		assert.Equal(t, "QR-100", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: parcel QR-100", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.NewObjectNotFoundErrorWithCause("parcel", "QR-100", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "object not found: parcel QR-100 (cause: connection reset)", err.Error())
	})

	t.Run("non string identifiers are formatted", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("issue", 42)
		assert.Equal(t, "object not found: issue 42", err.Error())
	})
}

func TestObjectAlreadyExistsError(t *testing.T) {
	err := errs.NewObjectAlreadyExistsError("parcel", "QR-100")

	assert.Equal(t, "object already exists: parcel QR-100", err.Error())
	require.ErrorIs(t, err, errs.ErrObjectAlreadyExists)

	withCause := errs.NewObjectAlreadyExistsErrorWithCause("parcel", "QR-100", errors.New("duplicate key"))
	assert.Equal(t, "object already exists: parcel QR-100 (cause: duplicate key)", withCause.Error())
}

func TestVersionConflictError(t *testing.T) {
	t.Run("with known stored version", func(t *testing.T) {
		err := errs.NewVersionConflictError("parcel", "QR-100", 4, 5)

		assert.Equal(t, int64(4), err.Expected)
		assert.Equal(t, int64(5), err.Actual)
		assert.Equal(t, "version conflict: parcel QR-100 expected version 4, actual version 5", err.Error())
		assert.Equal(t, errs.ErrVersionConflict, err.Unwrap())
	})

	t.Run("with unknown stored version", func(t *testing.T) {
		err := errs.NewVersionConflictError("parcel", "QR-100", 4, 0)
		assert.Equal(t, "version conflict: parcel QR-100 expected version 4", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		err := errs.NewVersionConflictErrorWithCause("parcel", "QR-100", 4, 0, errors.New("0 rows affected"))
		assert.Equal(t, "version conflict: parcel QR-100 expected version 4 (cause: 0 rows affected)", err.Error())
	})
}

func TestValueErrors(t *testing.T) {
	t.Run("required", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("operator")
		assert.Equal(t, "value is required: operator", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())

		withCause := errs.NewValueIsRequiredErrorWithCause("operator", errors.New("empty badge"))
		assert.Equal(t, "value is required: operator (cause: empty badge)", withCause.Error())
	})

	t.Run("invalid", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("priority")
		assert.Equal(t, "value is invalid: priority", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())

		withCause := errs.NewValueIsInvalidErrorWithCause("priority", errors.New("unknown name"))
		assert.Equal(t, "value is invalid: priority (cause: unknown name)", withCause.Error())
	})

	t.Run("out of range", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("item count", 0, 1, 10000)
		assert.Equal(t, 0, err.Value)
		assert.Equal(t, "value is out of range: item count is 0, min value is 1, max value is 10000", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("out of range keeps values on one line", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("note", "line one\nline two", 0, 500)
		assert.Contains(t, err.Error(), "line one line two")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestErrorsCanBeMatched(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", errs.NewObjectNotFoundError("parcel", "A"), errs.ErrObjectNotFound},
		{"already exists", errs.NewObjectAlreadyExistsError("parcel", "A"), errs.ErrObjectAlreadyExists},
		{"version conflict", errs.NewVersionConflictError("parcel", "A", 1, 2), errs.ErrVersionConflict},
		{"required", errs.NewValueIsRequiredError("a"), errs.ErrValueIsRequired},
		{"invalid", errs.NewValueIsInvalidError("a"), errs.ErrValueIsInvalid},
		{"out of range", errs.NewValueIsOutOfRangeError("a", 1, 2, 3), errs.ErrValueIsOutOfRange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.err, tc.sentinel)

			var target *errs.VersionConflictError
			assert.Equal(t, tc.sentinel == errs.ErrVersionConflict, errors.As(tc.err, &target))
		})
	}
}
