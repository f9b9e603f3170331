package dto

import (
	"net/http"

	"github.com/erp/backoffice/internal/domain/crm"
	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/erp/backoffice/internal/domain/shared"
)

// API error codes, ERR_<DESCRIPTION>
const (
	ErrCodeInternal    = "ERR_INTERNAL"
	ErrCodeUnavailable = "ERR_SERVICE_UNAVAILABLE"

	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	// ErrCodeRequestInProgress means an earlier request with the same
	// Idempotency-Key has not finished
	ErrCodeRequestInProgress = "ERR_REQUEST_IN_PROGRESS"
	ErrCodeSequenceLocked    = "ERR_SEQUENCE_LOCKED"

	ErrCodeInvalidState               = "ERR_INVALID_STATE"
	ErrCodeInvalidTransition          = "ERR_INVALID_TRANSITION"
	ErrCodeCommissionExceedsDealValue = "ERR_COMMISSION_EXCEEDS_DEAL_VALUE"
)

var statusByCode = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeUnavailable: http.StatusServiceUnavailable,

	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeRequestInProgress:   http.StatusConflict,
	ErrCodeSequenceLocked:      http.StatusConflict,

	// business rule violations
	ErrCodeInvalidState:               http.StatusUnprocessableEntity,
	ErrCodeInvalidTransition:          http.StatusUnprocessableEntity,
	ErrCodeCommissionExceedsDealValue: http.StatusUnprocessableEntity,
}

var apiCodeByDomainCode = map[string]string{
	shared.CodeNotFound:                ErrCodeNotFound,
	shared.CodeAlreadyExists:           ErrCodeAlreadyExists,
	shared.CodeInvalidInput:            ErrCodeInvalidInput,
	shared.CodeValidation:              ErrCodeValidation,
	shared.CodeInvalidState:            ErrCodeInvalidState,
	shared.CodeUnauthorized:            ErrCodeUnauthorized,
	shared.CodeForbidden:               ErrCodeForbidden,
	shared.CodeConcurrencyConflict:     ErrCodeConcurrencyConflict,
	shared.CodeInvalidTransition:       ErrCodeInvalidTransition,
	numbering.CodeSequenceLocked:       ErrCodeSequenceLocked,
	crm.CodeCommissionExceedsDealValue: ErrCodeCommissionExceedsDealValue,
}

// HTTPStatus returns the status for an API code, 500 when it is unknown
func HTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode turns a domain error code into its API code. API codes
// and unknown codes come back unchanged.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := apiCodeByDomainCode[code]; ok {
		return apiCode
	}
	return code
}
