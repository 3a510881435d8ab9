package rpc

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/rentalmanager/internal/identity"
	"github.com/mmynk/rentalmanager/internal/service"
)

// ErrorCodeHeader carries the identity error code of a failed auth call so
// clients can branch on it without parsing the message.
const ErrorCodeHeader = "Rm-Error-Code"

// PaymentIDHeader names a payment that was recorded by a PayBill call that
// still failed.
const PaymentIDHeader = "Rm-Payment-Id"

var identityCodes = map[identity.ErrorCode]connect.Code{
	identity.CodeInvalidEmail:        connect.CodeInvalidArgument,
	identity.CodeWeakPassword:        connect.CodeInvalidArgument,
	identity.CodeMissingFields:       connect.CodeInvalidArgument,
	identity.CodeWrongPassword:       connect.CodeUnauthenticated,
	identity.CodeInvalidCredential:   connect.CodeUnauthenticated,
	identity.CodeUserNotFound:        connect.CodeNotFound,
	identity.CodeUserDisabled:        connect.CodePermissionDenied,
	identity.CodeOperationNotAllowed: connect.CodeFailedPrecondition,
	identity.CodeEmailAlreadyInUse:   connect.CodeAlreadyExists,
	identity.CodeTooManyRequests:     connect.CodeResourceExhausted,
	identity.CodeNetworkError:        connect.CodeUnavailable,
	identity.CodeInternal:            connect.CodeInternal,
}

// identityError converts an identity failure into a Connect error whose
// message is the user-facing text.
func identityError(err error) error {
	code := identity.CodeOf(err)
	connectCode, ok := identityCodes[code]
	if !ok {
		connectCode = connect.CodeInternal
	}
	cerr := connect.NewError(connectCode, errors.New(identity.UserMessage(err)))
	if code != "" {
		cerr.Meta().Set(ErrorCodeHeader, string(code))
	}
	return cerr
}

// serviceError converts a service-layer failure into a Connect error.
func serviceError(err error) *connect.Error {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, service.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, service.ErrAlreadyPaid):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
