package sitevec

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINVALID     = "invalid"
	ENOTFOUND    = "not_found"
	EINTERNAL    = "internal"
	EUNAVAILABLE = "unavailable"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("sitevec error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return the error text unchanged.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// FetchError reports a page that was served with a non-success status.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// RemoteError is an error reported by the ingestion service.
// StatusCode is zero when the request never got a response.
type RemoteError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("remote %d: %s", e.StatusCode, e.Message)
}

// TargetError reports a failure to retrieve the ingestion target.
type TargetError struct {
	ID  string
	Err error
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("invalid vector store %q: %v", e.ID, e.Err)
}

func (e *TargetError) Unwrap() error { return e.Err }

// UploadError reports a failed batch flush. The staged files listed in
// Paths were left on disk.
type UploadError struct {
	Paths []string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %d staged files failed: %v", len(e.Paths), e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
