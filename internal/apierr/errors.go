// Package apierr provides shared error sentinels for HTTP-based API
// clients. Provider-specific error types are classified into these
// sentinels at the adapter boundary.
//
// Adapters map HTTP status codes to these errors using
// fmt.Errorf("%s: %w", msg, sentinel); callers check with
// errors.Is(err, apierr.ErrRateLimit) etc. There is deliberately no
// retry machinery here: a silently retried synthesis call is a silently
// repeated charge.
package apierr

import "errors"

// Sentinel errors for API interaction failures.
var (
	// ErrRateLimit indicates the API rate limit was exceeded.
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the API quota was exceeded (billing issue).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a request timed out.
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates API authentication failed (invalid key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrBadRequest indicates a client error (4xx) that is not otherwise
	// classified, including inputs the model cannot synthesize.
	ErrBadRequest = errors.New("bad request")
)
