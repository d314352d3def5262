package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrEmptyGeneration reports that the model call succeeded but produced no
// usable text. Unexpected, not impossible.
var ErrEmptyGeneration = errors.New("model returned no usable text")

// Category names a model-call failure kind the HTTP layer can map to a
// status code.
type Category string

const (
	CategoryAuth         Category = "auth"
	CategoryRateLimit    Category = "rate_limit"
	CategoryTimeout      Category = "timeout"
	CategoryUnclassified Category = "unclassified"
)

// UpstreamError tags a model-call failure with its category. The wrapped
// error keeps provider detail for server-side logs; it is never echoed to
// the client.
type UpstreamError struct {
	Category Category
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s failure: %v", e.Category, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// statusCoder is implemented by provider SDK errors that carry the HTTP
// status of the rejected request.
type statusCoder interface {
	error
	StatusCode() int
}

// classify maps a raw model-call error to a typed category. Classification
// is structural (sentinel errors, net.Error, carried status codes), never
// substring matching on provider message text.
func classify(err error) *UpstreamError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &UpstreamError{Category: CategoryTimeout, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &UpstreamError{Category: CategoryTimeout, Err: err}
	}

	var coded statusCoder
	if errors.As(err, &coded) {
		switch coded.StatusCode() {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &UpstreamError{Category: CategoryAuth, Err: err}
		case http.StatusTooManyRequests:
			return &UpstreamError{Category: CategoryRateLimit, Err: err}
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return &UpstreamError{Category: CategoryTimeout, Err: err}
		}
	}

	return &UpstreamError{Category: CategoryUnclassified, Err: err}
}
