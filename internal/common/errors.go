package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound           = errors.New("not found")
	ErrorInvalidID          = errors.New("invalid id")
	ErrorStorageUnavailable = errors.New("storage unavailable")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorBadRequest   = errors.New("bad request")
)

// RequestError carries a client-facing message together with the error kind
// (one of the sentinels above) used to pick the response status.
type RequestError struct {
	Kind    error
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Kind
}

// BadRequest returns a RequestError of kind ErrorBadRequest.
func BadRequest(msg string) error {
	return &RequestError{Kind: ErrorBadRequest, Message: msg}
}

// NotFound returns a RequestError of kind ErrorNotFound.
func NotFound(msg string) error {
	return &RequestError{Kind: ErrorNotFound, Message: msg}
}

// MessageOf returns the client-facing message of err, or fallback when err
// carries none.
func MessageOf(err error, fallback string) string {
	var re *RequestError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return fallback
}
