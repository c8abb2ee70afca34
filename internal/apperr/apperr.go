// Package apperr defines the error kinds from spec §7 and maps them onto
// HTTP status codes at the control-plane boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is one of the named error kinds from spec §7. These are kinds, not
// Go types — callers compare with errors.Is against the sentinel for each
// kind, or inspect AppError.Kind directly.
type Kind string

const (
	KindConfig     Kind = "config_error"
	KindValidation Kind = "validation_error"
	KindAuth       Kind = "auth_error"
	KindRateLimit  Kind = "rate_limited"
	KindTableMiss  Kind = "table_missing"
	KindNetwork    Kind = "network_error"
	KindScraping   Kind = "scraping_error"
	KindSoftFail   Kind = "soft_enrichment_failure"
	KindStorage    Kind = "storage_error"
	KindInternal   Kind = "internal_error"
)

// httpStatus maps each kind to the status code the control plane returns.
var httpStatus = map[Kind]int{
	KindConfig:     http.StatusInternalServerError,
	KindValidation: http.StatusBadRequest,
	KindAuth:       http.StatusUnauthorized,
	KindRateLimit:  http.StatusServiceUnavailable,
	KindTableMiss:  http.StatusNotFound,
	KindNetwork:    http.StatusBadGateway,
	KindScraping:   http.StatusUnprocessableEntity,
	KindSoftFail:   http.StatusOK,
	KindStorage:    http.StatusInternalServerError,
	KindInternal:   http.StatusInternalServerError,
}

// AppError is a wrapped error carrying a kind and a message safe to show a
// client, following the teacher's AppError{UserMsg, Err, Code} shape.
type AppError struct {
	Kind    Kind
	UserMsg string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMsg, e.Err)
	}
	return e.UserMsg
}

func (e *AppError) Unwrap() error { return e.Err }

// HTTPStatus returns the status code this error's kind maps to.
func (e *AppError) HTTPStatus() int {
	if s, ok := httpStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// New builds an AppError of the given kind.
func New(kind Kind, userMsg string, err error) *AppError {
	return &AppError{Kind: kind, UserMsg: userMsg, Err: err}
}

// Validationf is a convenience constructor for KindValidation errors (the
// most common one at the HTTP boundary — malformed dates, missing fields).
func Validationf(format string, args ...any) *AppError {
	return &AppError{Kind: KindValidation, UserMsg: fmt.Sprintf(format, args...)}
}

// TableMissing builds a KindTableMiss error for a given partition table,
// matching §8 scenario F's literal message shape.
func TableMissing(table string) *AppError {
	return &AppError{Kind: KindTableMiss, UserMsg: fmt.Sprintf("Table %s not available", table)}
}

// StatusFor returns the HTTP status code for any error: AppErrors map via
// their kind, anything else is an internal error.
func StatusFor(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// KindOf returns the Kind of err if it is (or wraps) an AppError, or
// KindInternal otherwise.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}
