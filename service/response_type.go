package service

import "net/http"

// ResponseType enumerates the outcomes a service call can report to a handler
type ResponseType int

const (
	// InvalidData response
	InvalidData ResponseType = iota

	// Error response
	Error

	// NotFound response
	NotFound

	// Success response
	Success

	// Conflict response
	Conflict

	// ProviderError response, PayPal or the model server failed
	ProviderError
)

var vals = [...]string{
	"invalid-data",
	"error",
	"not-found",
	"success",
	"conflict",
	"provider-error",
}

// String representation of `ResponseType`
func (a ResponseType) String() string {
	return vals[a]
}

// HTTPStatus is the status code a handler replies with for this response type
func (a ResponseType) HTTPStatus() int {
	switch a {
	case InvalidData:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Success:
		return http.StatusOK
	case Conflict:
		return http.StatusConflict
	case ProviderError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
