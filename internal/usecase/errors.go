package usecase

import (
	"errors"
	"sort"
	"strings"
)

const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeDuplicateEmail      = "DUPLICATE_EMAIL"
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeOutreachUnavailable = "OUTREACH_UNAVAILABLE"
	CodeDatabase            = "DATABASE_ERROR"
	CodeOutreachFailed      = "OUTREACH_FAILED"
)

// DomainError is a rejection the caller can fix: bad input, a conflict, a missing record.
type DomainError struct {
	Code    string
	Message string
	Fields  map[string]string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is an infrastructure failure. Err keeps the cause for logs.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ErrorCode returns the code carried by a DomainError or TechnicalError, or "".
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

func NewValidationError(errs []ValidationError) *DomainError {
	fields := make(map[string]string, len(errs))
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if _, seen := fields[e.Field]; !seen {
			fields[e.Field] = e.Message
		}
		msgs = append(msgs, e.Error())
	}
	sort.Strings(msgs)
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(msgs, "; "),
		Fields:  fields,
	}
}
