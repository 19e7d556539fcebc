package kernel

import (
	lerrors "github.com/matzehuels/lamina/pkg/errors"
)

// IsAssumption reports whether err, or any error it wraps, means a kernel
// routine met a case it cannot handle.
func IsAssumption(err error) bool {
	return lerrors.Has(err, lerrors.ErrCodeAssumption)
}

// IsMismatch reports whether err means two operands lived on different
// triangulations.
func IsMismatch(err error) bool {
	return lerrors.Has(err, lerrors.ErrCodeMismatch)
}

// IsUnsupported reports whether err names an operation lamina does not implement.
func IsUnsupported(err error) bool {
	return lerrors.Has(err, lerrors.ErrCodeUnsupported)
}

func assumptionf(format string, args ...any) error {
	return lerrors.New(lerrors.ErrCodeAssumption, format, args...)
}

func mismatchf(format string, args ...any) error {
	return lerrors.New(lerrors.ErrCodeMismatch, format, args...)
}

func unsupported(op string) error {
	return lerrors.New(lerrors.ErrCodeUnsupported, "%s is not implemented", op)
}

func invalidTriangulationf(format string, args ...any) error {
	return lerrors.New(lerrors.ErrCodeInvalidTriangulation, format, args...)
}

func invalidLaminationf(format string, args ...any) error {
	return lerrors.New(lerrors.ErrCodeInvalidLamination, format, args...)
}

func invalidInputf(format string, args ...any) error {
	return lerrors.New(lerrors.ErrCodeInvalidInput, format, args...)
}
