package serviceerr

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// DataCode identifies a data-access failure. Data services speak this
// vocabulary; services translate it with FromData.
type DataCode string

const (
	DataNotFound     DataCode = "DATA_NOT_FOUND"
	DataConflict     DataCode = "DATA_CONFLICT"
	DataUnauthorized DataCode = "DATA_UNAUTHORIZED"
	DataForbidden    DataCode = "DATA_FORBIDDEN"
	DataBadRequest   DataCode = "DATA_BAD_REQUEST"
	DataUnavailable  DataCode = "DATA_UNAVAILABLE"
	DataUnknown      DataCode = "DATA_UNKNOWN"
)

// DataError is a data-layer failure.
type DataError struct {
	Code    DataCode
	Message string
	Cause   error
}

func (e *DataError) Error() string {
	if e.Cause != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.Cause.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *DataError) Unwrap() error {
	return e.Cause
}

// FromData maps a data-layer failure onto the service taxonomy. Codes without
// an explicit mapping become DependencyFailure so nothing is dropped.
func FromData(de *DataError) *Error {
	if de == nil {
		return nil
	}

	var out *Error
	switch de.Code {
	case DataNotFound:
		out = New(CodeNotFound, de.Message)
	case DataConflict:
		out = New(CodeDuplicateName, de.Message)
	case DataUnauthorized, DataForbidden:
		out = New(CodeInsufficientPermissions, de.Message)
	case DataBadRequest:
		out = New(CodeValidationInvalid, de.Message)
	default:
		out = New(CodeDependencyFailure, de.Message)
	}

	out = out.WithDetail("data_code", string(de.Code))
	if de.Cause != nil {
		out = out.WithCause(de.Cause)
	}
	return out
}

// ClassifyDB turns a storage error into a DataError.
func ClassifyDB(err error, message string) *DataError {
	if err == nil {
		return nil
	}

	var de *DataError
	if errors.As(err, &de) {
		return de
	}

	code := DataUnknown
	switch {
	case errors.Is(err, sql.ErrNoRows):
		code = DataNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled),
		errors.Is(err, sql.ErrConnDone):
		code = DataUnavailable
	case isUniqueViolation(err):
		code = DataConflict
	}

	return &DataError{Code: code, Message: message, Cause: err}
}

// isUniqueViolation matches the constraint messages of the drivers we ship
// (sqlite3 and lib/pq) without importing them here.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key value")
}
