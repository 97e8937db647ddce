package rpc

import "fmt"

// Error code constants. The code string is embedded in the error message
// so clients matching on substrings like DUPLICATE keep working.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION"
	CodeDuplicate       = "DUPLICATE"
	CodeRateLimited     = "RATE_LIMITED"
	CodePollEnded       = "POLL_ENDED"
	CodeThreadLocked    = "THREAD_LOCKED"
)

// Error is a typed API error
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError creates a new API error
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Unauthenticated builds a sign-in-required error
func Unauthenticated() *Error {
	return NewError(CodeUnauthenticated, "must sign in")
}

// Forbidden builds an authorization error
func Forbidden(message string) *Error {
	return NewError(CodeForbidden, message)
}

// NotFound builds a missing-entity error
func NotFound(what string) *Error {
	return NewError(CodeNotFound, what+" not found")
}

// Validation builds an invalid-input error
func Validation(message string) *Error {
	return NewError(CodeValidation, message)
}

// Duplicate builds a conflict error
func Duplicate(message string) *Error {
	return NewError(CodeDuplicate, message)
}

// RateLimited builds a rate-limit error
func RateLimited(message string) *Error {
	return NewError(CodeRateLimited, message)
}

// PollEnded builds a poll-closed error
func PollEnded() *Error {
	return NewError(CodePollEnded, "poll ended")
}

// ThreadLocked builds a locked-thread error
func ThreadLocked() *Error {
	return NewError(CodeThreadLocked, "thread is locked")
}

// jsonrpcCode maps a typed error code to its JSON-RPC error code
func jsonrpcCode(code string) int {
	switch code {
	case CodeUnauthenticated:
		return -32001
	case CodeForbidden:
		return -32002
	case CodeRateLimited:
		return -32003
	case CodeNotFound:
		return -32004
	case CodeDuplicate:
		return -32005
	case CodePollEnded:
		return -32006
	case CodeThreadLocked:
		return -32007
	case CodeValidation:
		return ErrInvalidParams
	}
	return ErrServerError
}
