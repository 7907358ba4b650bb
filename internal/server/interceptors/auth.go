package interceptors

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	identityservice "taskflow/backend/internal/identity/service"
	"taskflow/backend/internal/platform/ident"
	policydomain "taskflow/backend/internal/policy/domain"
)

const bearerPrefix = "bearer "

// TokenValidator validates an access token and returns its session and user ids.
type TokenValidator interface {
	ValidateAccess(token string) (sessionID, userID string, err error)
}

// PrincipalResolver loads the current role and team of a user.
type PrincipalResolver interface {
	Resolve(ctx context.Context, userID ident.ID) (policydomain.Principal, error)
}

// AuthUnary returns a unary server interceptor that validates the Bearer access token,
// resolves the caller's principal and stores it in context for protected RPCs.
// publicMethods is the set of full method names that do not require a token
// (e.g. the gRPC health check).
func AuthUnary(tokens TokenValidator, principals PrincipalResolver, publicMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if publicMethods[info.FullMethod] {
			return handler(ctx, req)
		}
		token := extractBearer(ctx)
		if token == "" {
			return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
		}
		sessionID, userID, err := tokens.ValidateAccess(token)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
		}
		p, err := principals.Resolve(ctx, ident.Parse(userID))
		if err != nil {
			if errors.Is(err, identityservice.ErrUnknownUser) {
				return nil, status.Error(codes.Unauthenticated, "unknown user")
			}
			zap.L().Error("auth: resolve principal", zap.String("user_id", userID), zap.Error(err))
			return nil, status.Error(codes.Internal, "failed to resolve principal")
		}
		return handler(WithPrincipal(ctx, p, sessionID), req)
	}
}

// extractBearer returns the Bearer token from ctx metadata, or "" if missing or malformed.
func extractBearer(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return ""
	}
	v := strings.TrimSpace(vals[0])
	if len(v) < len(bearerPrefix) || !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
