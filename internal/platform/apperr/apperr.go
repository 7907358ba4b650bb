// Package apperr defines the business error taxonomy returned by services.
// Errors carry a Kind and map themselves to gRPC status codes via GRPCStatus,
// so handlers can return them unchanged.
package apperr

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind classifies a business error.
type Kind int

const (
	// KindAuthorization is a policy denial.
	KindAuthorization Kind = iota + 1
	// KindValidation is a business-rule violation in the request.
	KindValidation
	// KindNotFound is a missing entity, or one hidden because it is deleted.
	KindNotFound
	// KindConflict is a uniqueness or state conflict, including lost races.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindAuthorization:
		return "authorization"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a terminal business outcome. It is never retried.
type Error struct {
	Kind    Kind
	Message string
	// Action and Resource are set for authorization errors (e.g. "DELETE", task id).
	Action   string
	Resource string
}

func (e *Error) Error() string {
	if e.Kind == KindAuthorization && e.Action != "" {
		if e.Message != "" {
			return fmt.Sprintf("%s: not allowed to %s %s", e.Message, e.Action, e.Resource)
		}
		return fmt.Sprintf("not allowed to %s %s", e.Action, e.Resource)
	}
	return e.Message
}

// GRPCStatus lets status.FromError and status.Code recognise the error.
func (e *Error) GRPCStatus() *status.Status {
	return status.New(e.Code(), e.Error())
}

// Code returns the gRPC code for the error kind.
func (e *Error) Code() codes.Code {
	switch e.Kind {
	case KindAuthorization:
		return codes.PermissionDenied
	case KindValidation:
		return codes.InvalidArgument
	case KindNotFound:
		return codes.NotFound
	case KindConflict:
		return codes.AlreadyExists
	default:
		return codes.Internal
	}
}

// Authorization returns a denial for action on resource.
func Authorization(action, resource string) *Error {
	return &Error{Kind: KindAuthorization, Action: action, Resource: resource}
}

// Forbidden returns an authorization error with a free-form reason.
func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

// Validation returns a business-rule violation.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a missing-entity error for the named resource.
func NotFound(resource, id string) *Error {
	if id == "" {
		return &Error{Kind: KindNotFound, Message: resource + " not found", Resource: resource}
	}
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", resource, id), Resource: resource}
}

// Conflict returns a uniqueness or state conflict.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err (or anything it wraps) is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// As returns the *Error wrapped by err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
