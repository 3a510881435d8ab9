package identity

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a provider failure.
type ErrorCode string

const (
	CodeInvalidEmail        ErrorCode = "invalid-email"
	CodeWrongPassword       ErrorCode = "wrong-password"
	CodeUserNotFound        ErrorCode = "user-not-found"
	CodeNetworkError        ErrorCode = "network-request-failed"
	CodeUserDisabled        ErrorCode = "user-disabled"
	CodeTooManyRequests     ErrorCode = "too-many-requests"
	CodeInvalidCredential   ErrorCode = "invalid-credential"
	CodeOperationNotAllowed ErrorCode = "operation-not-allowed"
	CodeEmailAlreadyInUse   ErrorCode = "email-already-in-use"

	// Codes below have no fixed user-facing text; the message is shown as is.
	CodeWeakPassword  ErrorCode = "weak-password"
	CodeMissingFields ErrorCode = "missing-fields"
	CodeInternal      ErrorCode = "internal-error"
)

var userMessages = map[ErrorCode]string{
	CodeInvalidEmail:        "The email address is badly formatted.",
	CodeWrongPassword:       "Your password is incorrect. Please try again.",
	CodeUserNotFound:        "No account found with this email address.",
	CodeNetworkError:        "Network error. Please check your internet connection.",
	CodeUserDisabled:        "This account has been disabled. Contact support.",
	CodeTooManyRequests:     "Too many attempts. Please wait a moment and try again.",
	CodeInvalidCredential:   "Invalid credentials. Please check your details.",
	CodeOperationNotAllowed: "This sign-in method is disabled for this project.",
	CodeEmailAlreadyInUse:   "This email is already registered. Try signing in instead.",
}

// Error is a provider failure with its code and the provider's raw message.
type Error struct {
	Code    ErrorCode
	Message string
}

// NewError returns an *Error with the given code and raw message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches another *Error with the same code, so callers can write
// errors.Is(err, &identity.Error{Code: identity.CodeUserNotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// CodeOf returns the provider code carried by err, or "" if err is not an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage translates err into text suitable for an alert.
// Known codes get fixed wording; anything else falls back to the raw message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if msg, ok := userMessages[e.Code]; ok {
			return msg
		}
		if e.Message != "" {
			return e.Message
		}
	}
	return err.Error()
}
