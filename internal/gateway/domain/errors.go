package domain

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/jdmatchr/pkg/httpx"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrSync           = errors.New("oauth sync error")
	ErrConfiguration  = errors.New("configuration error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrProtocol       = errors.New("protocol error")
)

// Error is a failure of one of the gateway components. Error() returns
// Message, which may be shown to the end user as is.
type Error struct {
	Kind    error
	Message string

	// Status overrides the HTTP status AsProxiedError would pick for Kind.
	Status int

	// Raw is the upstream body, kept for diagnostics.
	Raw string

	Err error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func Validation(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func Authentication(msg string) *Error {
	return &Error{Kind: ErrAuthentication, Message: msg}
}

func Sync(msg string, err error) *Error {
	return &Error{Kind: ErrSync, Message: msg, Err: err}
}

func Configuration(msg string) *Error {
	return &Error{Kind: ErrConfiguration, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: ErrUnauthorized, Message: msg, Status: http.StatusUnauthorized}
}

func Protocol(msg, raw string) *Error {
	return &Error{Kind: ErrProtocol, Message: msg, Raw: raw}
}

// ProxiedError is the uniform error body every API route returns.
type ProxiedError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	RawDetails string `json:"details,omitempty"`
}

func (e *ProxiedError) Error() string { return e.Message }

// WriteError writes the error as {"message", "details"?} with its status.
func (e *ProxiedError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

// WithoutDetails drops RawDetails, for production responses.
func (e *ProxiedError) WithoutDetails() *ProxiedError {
	cp := *e
	cp.RawDetails = ""
	return &cp
}

// AsProxiedError translates any error into the client-visible shape.
func AsProxiedError(err error) *ProxiedError {
	var pe *ProxiedError
	if errors.As(err, &pe) {
		return pe
	}

	out := &ProxiedError{
		StatusCode: http.StatusInternalServerError,
		Message:    "Internal server error",
	}

	var de *Error
	if !errors.As(err, &de) {
		return out
	}

	out.Message = de.Error()
	out.RawDetails = de.Raw

	switch {
	case de.Status != 0:
		out.StatusCode = de.Status
	case errors.Is(de.Kind, ErrValidation):
		out.StatusCode = http.StatusBadRequest
	case errors.Is(de.Kind, ErrAuthentication), errors.Is(de.Kind, ErrUnauthorized):
		out.StatusCode = http.StatusUnauthorized
	case errors.Is(de.Kind, ErrSync):
		out.StatusCode = http.StatusBadGateway
	default:
		out.StatusCode = http.StatusInternalServerError
	}
	return out
}
