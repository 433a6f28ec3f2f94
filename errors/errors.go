package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode identifies a failure class across the intake pipeline.
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	ErrorCode_INTERNAL ErrorCode = iota + 1000
	ErrorCode_INVALID_PAYLOAD
	ErrorCode_MISSING_RECORDING_URL
	ErrorCode_RECORDING_DOWNLOAD_FAILED
	ErrorCode_EXTRACTION_FAILED
	ErrorCode_PERSISTENCE_FAILED
	ErrorCode_RECORD_NOT_FOUND
)

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrorCode_HTTP_OK:
		return "OK"
	case ErrorCode_INTERNAL:
		return "INTERNAL"
	case ErrorCode_INVALID_PAYLOAD:
		return "INVALID_PAYLOAD"
	case ErrorCode_MISSING_RECORDING_URL:
		return "MISSING_RECORDING_URL"
	case ErrorCode_RECORDING_DOWNLOAD_FAILED:
		return "RECORDING_DOWNLOAD_FAILED"
	case ErrorCode_EXTRACTION_FAILED:
		return "EXTRACTION_FAILED"
	case ErrorCode_PERSISTENCE_FAILED:
		return "PERSISTENCE_FAILED"
	case ErrorCode_RECORD_NOT_FOUND:
		return "RECORD_NOT_FOUND"
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(c))
}

// AppError is the custom error type for the application.
type AppError struct {
	Raw      error
	HTTPCode int
	Code     ErrorCode
	Message  string
	Details  map[string]string
}

// Error implements the error interface.
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error.
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

// ErrMissingRecordingURL marks a completion callback that carries no
// recording reference. Nothing is persisted for such requests.
func ErrMissingRecordingURL() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_MISSING_RECORDING_URL,
		Message:  "Missing recording URL",
	}
}

func ErrRecordingDownload(url string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_RECORDING_DOWNLOAD_FAILED,
		Message:  "Failed to download recording",
	}.WithDetail("recording_url", url)
}

func ErrExtractionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_EXTRACTION_FAILED,
		Message:  "Failed to extract call summary",
	}
}

func ErrPersistence(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_PERSISTENCE_FAILED,
		Message:  "Failed to persist call record",
	}
}

func ErrRecordNotFound(id string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_RECORD_NOT_FOUND,
		Message:  "Call record not found",
	}.WithDetail("record_id", id)
}
