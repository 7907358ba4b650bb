package apperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestError_GRPCCode(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"authorization", Authorization("DELETE", "task-1"), codes.PermissionDenied},
		{"forbidden", Forbidden("only leads"), codes.PermissionDenied},
		{"validation", Validation("bad input"), codes.InvalidArgument},
		{"not found", NotFound("task", "t1"), codes.NotFound},
		{"conflict", Conflict("duplicate"), codes.AlreadyExists},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := status.Code(tc.err); got != tc.want {
				t.Errorf("status.Code = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAuthorization_MessageNamesActionAndResource(t *testing.T) {
	err := Authorization("UPDATE", "task-42")
	msg := err.Error()
	if !strings.Contains(msg, "UPDATE") || !strings.Contains(msg, "task-42") {
		t.Errorf("message %q should name action and resource", msg)
	}
	if err.Action != "UPDATE" || err.Resource != "task-42" {
		t.Errorf("Action/Resource = %q/%q", err.Action, err.Resource)
	}
}

func TestIsKind_Wrapped(t *testing.T) {
	err := fmt.Errorf("create team: %w", Conflict("already in a team"))
	if !IsKind(err, KindConflict) {
		t.Error("IsKind should see through wrapping")
	}
	if IsKind(err, KindNotFound) {
		t.Error("IsKind(NotFound) = true, want false")
	}
	if IsKind(errors.New("plain"), KindConflict) {
		t.Error("plain error should not match any kind")
	}
	if e, ok := As(err); !ok || e.Kind != KindConflict {
		t.Errorf("As = %v, %v", e, ok)
	}
}
