package pipeline

import (
	"context"
	"errors"
	"io/fs"

	apperr "github.com/matzehuels/flowplan/pkg/errors"
	flowio "github.com/matzehuels/flowplan/pkg/io"
	"github.com/matzehuels/flowplan/pkg/network"
	"github.com/matzehuels/flowplan/pkg/release"
	"github.com/matzehuels/flowplan/pkg/scan"
	"github.com/matzehuels/flowplan/pkg/valve"
)

// Classify converts an error from any pipeline stage into a structured
// *errors.Error. Errors that already carry a code are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if apperr.GetCode(err) != "" {
		return err
	}

	code, msg := apperr.ErrCodeInternal, "internal error"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code, msg = apperr.ErrCodeTimeout, "planning timed out"
	case errors.Is(err, context.Canceled):
		code, msg = apperr.ErrCodeCanceled, "planning canceled"
	case errors.Is(err, fs.ErrNotExist):
		code, msg = apperr.ErrCodeFileNotFound, "input not found"
	case errors.Is(err, scan.ErrSyntax), errors.Is(err, flowio.ErrDecode):
		code, msg = apperr.ErrCodeInvalidInput, "malformed network description"
	case errors.Is(err, flowio.ErrUnknownFormat):
		code, msg = apperr.ErrCodeInvalidFormat, "unsupported input format"
	case errors.Is(err, valve.ErrInvalidValveID),
		errors.Is(err, valve.ErrDuplicateValve),
		errors.Is(err, valve.ErrUnknownValve):
		code, msg = apperr.ErrCodeInvalidGraph, "invalid valve network"
	case errors.Is(err, network.ErrTooManyValves):
		code, msg = apperr.ErrCodeTooLarge, "too many openable valves"
	case errors.Is(err, release.ErrInvalidStrategy):
		code, msg = apperr.ErrCodeInvalidStrategy, "invalid strategy"
	}
	return apperr.Wrap(code, err, "%s", msg)
}
