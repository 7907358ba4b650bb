// Package rbac holds the handler-side guards that read the authenticated caller from context.
package rbac

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	policydomain "taskflow/backend/internal/policy/domain"
	"taskflow/backend/internal/server/interceptors"
)

// RequirePrincipal returns the authenticated principal, or an Unauthenticated gRPC error
// when the auth interceptor did not set one.
func RequirePrincipal(ctx context.Context) (policydomain.Principal, error) {
	p, ok := interceptors.GetPrincipal(ctx)
	if !ok || p.ID.IsZero() {
		return policydomain.Principal{}, status.Error(codes.Unauthenticated, "principal required")
	}
	return p, nil
}
