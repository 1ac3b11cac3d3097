package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Pool creation errors. These reach the caller unchanged.
const (
	// ErrCodeInvalidOrigin indicates an origin or URL that cannot be pooled.
	ErrCodeInvalidOrigin ErrorCode = "INVALID_ORIGIN"
	// ErrCodePoolCreate indicates a pool could not be built for a valid origin.
	ErrCodePoolCreate ErrorCode = "POOL_CREATE_FAILED"
)

// Dispatch errors. The HTTP client recovers these through its fallback path.
const (
	// ErrCodePoolClosed indicates the pool or registry no longer accepts work.
	ErrCodePoolClosed ErrorCode = "POOL_CLOSED"
	// ErrCodePoolExhausted indicates no in-flight slot became free in time.
	ErrCodePoolExhausted ErrorCode = "POOL_EXHAUSTED"
	// ErrCodeConnectionFailed indicates the upstream could not be reached.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout indicates a header, body or connect timeout.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates invalid configuration or request input.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodePoolExhausted:    true,
	ErrCodeConnectionFailed: true,
	ErrCodeTimeout:          true,
}

var dispatchCodes = map[ErrorCode]bool{
	ErrCodePoolClosed:       true,
	ErrCodePoolExhausted:    true,
	ErrCodeConnectionFailed: true,
	ErrCodeTimeout:          true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// IsDispatchCode reports whether code describes a failed dispatch rather
// than a failure to obtain a pool.
func IsDispatchCode(code ErrorCode) bool {
	return dispatchCodes[code]
}
