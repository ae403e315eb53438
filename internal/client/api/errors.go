package api

import (
	"errors"
	"fmt"
	"net/http"

	appErrors "github.com/aaravmahajanofficial/storefront-sync/internal/errors"
)

type Kind string

const (
	KindUnreachable     Kind = "UNREACHABLE"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindSessionExpired  Kind = "SESSION_EXPIRED"
	KindValidation      Kind = "VALIDATION"
	KindEmptyCart       Kind = "EMPTY_CART"
	KindProductNotFound Kind = "PRODUCT_NOT_FOUND"
	KindNotFound        Kind = "NOT_FOUND"
	KindServer          Kind = "SERVER"
)

// Error is the only error type the client packages hand to callers.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so callers can write
// errors.Is(err, api.ErrSessionExpired).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrUnreachable     = &Error{Kind: KindUnreachable}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrSessionExpired  = &Error{Kind: KindSessionExpired}
	ErrValidation      = &Error{Kind: KindValidation}
	ErrEmptyCart       = &Error{Kind: KindEmptyCart}
	ErrProductNotFound = &Error{Kind: KindProductNotFound}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrServer          = &Error{Kind: KindServer}
)

// KindOf returns the kind of err, or KindServer for foreign errors.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}

	return KindServer
}

func unreachable(err error) *Error {
	return &Error{Kind: KindUnreachable, Message: "Could not connect to the server", Err: err}
}

// fromStatus classifies a non-2xx reply. authenticated tells a 401 on a
// bearer call (expired session) from a 401 on login (bad credentials).
func fromStatus(status int, body *errorBody, authenticated bool) *Error {

	e := &Error{Status: status, Kind: KindServer, Message: http.StatusText(status)}

	if body != nil {
		if body.Message != "" {
			e.Message = body.Message
		}
		e.Details = body.Details
	}

	code := ""
	if body != nil {
		code = body.Code
	}

	switch {
	case status == http.StatusUnauthorized && authenticated:
		e.Kind = KindSessionExpired
	case status == http.StatusUnauthorized:
		e.Kind = KindUnauthenticated
	case code == appErrors.ErrCodeEmptyCart:
		e.Kind = KindEmptyCart
	case code == appErrors.ErrCodeProductNotFound:
		e.Kind = KindProductNotFound
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status >= 400 && status < 500:
		e.Kind = KindValidation
	}

	return e
}
