package types

import (
	"errors"
	"net/http"
)

// Domain error taxonomy. Handlers recover these at the request boundary and
// map them onto the response envelope; nothing here should ever escape as a
// panic.

type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }

type ConflictError struct{ Msg string }

func (e *ConflictError) Error() string { return e.Msg }

type InventoryError struct{ Msg string }

func (e *InventoryError) Error() string { return e.Msg }

type AmountMismatchError struct{ Msg string }

func (e *AmountMismatchError) Error() string { return e.Msg }

type GatewayError struct {
	Msg string
	Err error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *GatewayError) Unwrap() error { return e.Err }

// ErrorStatus maps a domain error onto its HTTP status. Unknown errors are
// treated as internal.
func ErrorStatus(err error) int {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		conflict   *ConflictError
		inventory  *InventoryError
		mismatch   *AmountMismatchError
		gateway    *GatewayError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &inventory):
		return http.StatusBadRequest
	case errors.As(err, &mismatch):
		return http.StatusBadRequest
	case errors.As(err, &gateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
