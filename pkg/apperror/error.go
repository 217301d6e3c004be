package apperror

import (
	"fmt"
	"net/http"
)

// Kind is the stable, machine-readable classification of an error.
// Clients dispatch on Kind; Message is for humans only.
type Kind string

const (
	KindValidationFailed      Kind = "validation_failed"
	KindIneligibleApplication Kind = "ineligible_application"
	KindNotFound              Kind = "not_found"
	KindAlreadyReviewed       Kind = "already_reviewed"
	KindCannotModifyReviewed  Kind = "cannot_modify_reviewed"
	KindStoreUnavailable      Kind = "store_unavailable"
	KindBadRequest            Kind = "bad_request"
	KindInternal              Kind = "internal"
)

type AppError struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	// Reason carries the eligibility denial reason when Kind is
	// ineligible_application.
	Reason string `json:"reason,omitempty"`
	Err    error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, kind Kind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, KindBadRequest, message, nil)
}

// ValidationFailed reports a single field violating its constraint.
func ValidationFailed(field, constraint string) *AppError {
	return New(http.StatusUnprocessableEntity, KindValidationFailed,
		fmt.Sprintf("field %q violates constraint %q", field, constraint), nil)
}

// Ineligible reports a denied creation. The same reason is used whether the
// denial came from the pre-check or from the unique index at commit.
func Ineligible(reason, message string) *AppError {
	e := New(http.StatusConflict, KindIneligibleApplication, message, nil)
	e.Reason = reason
	return e
}

func NotFound(entityKind, id string) *AppError {
	return New(http.StatusNotFound, KindNotFound,
		fmt.Sprintf("%s %q not found", entityKind, id), nil)
}

func AlreadyReviewed(id string) *AppError {
	return New(http.StatusConflict, KindAlreadyReviewed,
		fmt.Sprintf("application %q has already been reviewed", id), nil)
}

func CannotModifyReviewed(id string) *AppError {
	return New(http.StatusConflict, KindCannotModifyReviewed,
		fmt.Sprintf("application %q is reviewed and can no longer be modified", id), nil)
}

func StoreUnavailable(err error) *AppError {
	return New(http.StatusServiceUnavailable, KindStoreUnavailable,
		"Storage is temporarily unavailable. Please try again.", err)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, KindInternal, "Internal Server Error", err)
}
