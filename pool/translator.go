package pool

import (
	"context"
	"errors"
	"net"

	apperrors "github.com/kbukum/poolfetch/errors"
	"github.com/kbukum/poolfetch/resilience"
)

// Dispatch phases reported in timeout errors.
const (
	phaseHeaders = "waiting for response headers"
	phaseBody    = "reading response body"
)

// errBodyTimeout is the cancel cause set when BodyTimeout elapses.
var errBodyTimeout = errors.New("body timeout exceeded")

// translateError converts a transport error to an AppError.
func translateError(origin, phase string, err error) *apperrors.AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}

	if errors.Is(err, resilience.ErrBulkheadFull) || errors.Is(err, resilience.ErrBulkheadTimeout) {
		return apperrors.PoolExhausted(origin, err)
	}

	if errors.Is(err, errBodyTimeout) {
		return apperrors.Timeout(phaseBody, err).WithDetail("origin", origin)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Timeout(phase, err).WithDetail("origin", origin)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.Timeout(phase, err).WithDetail("origin", origin)
	}

	return apperrors.ConnectionFailed(origin, err)
}
