package bilibili

import (
	"fmt"

	"bilibili-favorites-service/internal/core/domain"
)

// ResponseCodeError is returned when the API answers with a non-zero code,
// e.g. -404 for a missing list or -403 for a private one.
type ResponseCodeError struct {
	Code    int
	Message string
}

func (e *ResponseCodeError) Error() string {
	return fmt.Sprintf("bilibili api error %d: %s", e.Code, e.Message)
}

func (e *ResponseCodeError) Is(target error) bool { return target == domain.ErrUpstream }

// HTTPError is returned for non-2xx responses (412 when rate limited by risk control).
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("bilibili api returned http %d", e.StatusCode)
}

func (e *HTTPError) Is(target error) bool { return target == domain.ErrUpstream }

// TransportError covers everything between sending the request and decoding the envelope.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == domain.ErrUpstream }
