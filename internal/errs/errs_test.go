package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiagnosticErrorFormatting(t *testing.T) {
	d := New(MalformedInput, "nil callback")
	require.Equal(t, "malformed_input: nil callback", d.Error())
}

func TestDiagnosticWithContextIsImmutable(t *testing.T) {
	base := New(NoSignal, "empty audio buffer")
	withFrame := base.With("frame", 12)

	require.Nil(t, base.Context)
	require.Equal(t, 12, withFrame.Context["frame"])
	require.Contains(t, withFrame.Error(), "frame")
}

func TestDiagnosticUnwrapsViaErrorsAs(t *testing.T) {
	var err error = Newf(InternalInvariantViolation, "checksum %d != %d", 1, 2)

	var d *Diagnostic
	require.True(t, errors.As(err, &d))
	require.Equal(t, InternalInvariantViolation, d.Code)
}
