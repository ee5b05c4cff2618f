package kernel_test

import (
	"strings"
	"testing"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrackingCode(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		want     string
		sentinel error
	}{
		{name: "plain code", raw: "SF-2024-000131", want: "SF-2024-000131"},
		{name: "scanner trailing newline is trimmed", raw: "QR_77\n", want: "QR_77"},
		{name: "empty", raw: "   ", sentinel: errs.ErrValueIsRequired},
		{name: "too long", raw: strings.Repeat("A", 65), sentinel: errs.ErrValueIsOutOfRange},
		{name: "illegal characters", raw: "QR 77", sentinel: errs.ErrValueIsInvalid},
		{name: "path separator", raw: "QR/77", sentinel: errs.ErrValueIsInvalid},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, err := kernel.NewTrackingCode(tc.raw)
			if tc.sentinel != nil {
				require.ErrorIs(t, err, tc.sentinel)
				assert.Error(t, code.Validate())
				return
			}
			require.NoError(t, err)
			require.NoError(t, code.Validate())
			assert.Equal(t, tc.want, code.String())
		})
	}
}

func TestTrackingCode_Equality(t *testing.T) {
	a := kernel.MustTrackingCode("QR-1")
	b := kernel.MustTrackingCode(" QR-1 ")
	c := kernel.MustTrackingCode("QR-2")

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(c))
	assert.Panics(t, func() { kernel.MustTrackingCode("") })
}

func TestTrackingCode_ZeroValueIsInvalid(t *testing.T) {
	var code kernel.TrackingCode
	require.ErrorIs(t, code.Validate(), kernel.ErrTrackingCodeIsNotConstructed)
}

func TestNewOperatorID(t *testing.T) {
	t.Run("accepts badge identity", func(t *testing.T) {
		op, err := kernel.NewOperatorID(" RFID:0A4F22 ")

		require.NoError(t, err)
		assert.Equal(t, "RFID:0A4F22", op.String())
		assert.True(t, op.IsEqual(kernel.MustOperatorID("RFID:0A4F22")))
	})

	t.Run("rejects empty identity", func(t *testing.T) {
		_, err := kernel.NewOperatorID("")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects oversized identity", func(t *testing.T) {
		_, err := kernel.NewOperatorID(strings.Repeat("x", 101))
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		var op kernel.OperatorID
		require.ErrorIs(t, op.Validate(), kernel.ErrOperatorIDIsNotConstructed)
	})
}
