package rest

import (
	"errors"
	"fmt"
)

// Kind is the closed set of failure categories a service call can produce.
type Kind int

const (
	KindUnknown Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindError4xx
	KindServerError
	KindError5xx
	KindDecoding
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindError4xx:
		return "client error"
	case KindServerError:
		return "server error"
	case KindError5xx:
		return "server error (5xx)"
	case KindDecoding:
		return "decoding error"
	case KindTransport:
		return "transport failure"
	default:
		return "unknown error"
	}
}

// ServiceError is the only error type surfaced by the transport and the
// services built on top of it. Code carries the HTTP status for
// status-derived kinds, cause the underlying error for decode and
// transport failures.
type ServiceError struct {
	Kind  Kind
	Code  int
	cause error
}

func (e *ServiceError) Error() string {
	switch {
	case e.cause != nil:
		return fmt.Sprintf("%s: %s", e.Kind, e.cause)
	case e.Code != 0:
		return fmt.Sprintf("%s (status %d)", e.Kind, e.Code)
	default:
		return e.Kind.String()
	}
}

func (e *ServiceError) Unwrap() error {
	return e.cause
}

// StatusError maps an HTTP status code onto a ServiceError. The mapping is
// total: every int yields a result, unknown codes map to KindUnknown.
func StatusError(statusCode int) *ServiceError {
	switch {
	case statusCode == 400:
		return &ServiceError{Kind: KindBadRequest, Code: statusCode}
	case statusCode == 401:
		return &ServiceError{Kind: KindUnauthorized, Code: statusCode}
	case statusCode == 403:
		return &ServiceError{Kind: KindForbidden, Code: statusCode}
	case statusCode == 404:
		return &ServiceError{Kind: KindNotFound, Code: statusCode}
	case statusCode == 402 || (statusCode >= 405 && statusCode <= 499):
		return &ServiceError{Kind: KindError4xx, Code: statusCode}
	case statusCode == 500:
		return &ServiceError{Kind: KindServerError, Code: statusCode}
	case statusCode >= 501 && statusCode <= 599:
		return &ServiceError{Kind: KindError5xx, Code: statusCode}
	default:
		return &ServiceError{Kind: KindUnknown, Code: statusCode}
	}
}

func DecodingError(cause error) *ServiceError {
	return &ServiceError{Kind: KindDecoding, cause: cause}
}

func TransportError(cause error) *ServiceError {
	return &ServiceError{Kind: KindTransport, cause: cause}
}

// AsServiceError unwraps err down to a ServiceError, if there is one.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// KindOf returns the error kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	if se, ok := AsServiceError(err); ok {
		return se.Kind
	}
	return KindUnknown
}
