package interceptors

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"taskflow/backend/internal/audit"
)

// AuditUnary returns a unary server interceptor that records an audit entry after each
// state-changing RPC, whether it succeeded or was rejected. Reads and skipMethods are not audited,
// nor are calls without an authenticated principal. It must run inside AuthUnary.
func AuditUnary(logger audit.AuditLogger, skipMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		if logger == nil || skipMethods[info.FullMethod] {
			return resp, err
		}
		ar := audit.ParseFullMethod(info.FullMethod)
		if !ar.Mutating() {
			return resp, err
		}
		p, ok := GetPrincipal(ctx)
		if !ok {
			return resp, err
		}
		logger.LogEvent(ctx, audit.Event{
			TeamID:   p.TeamID,
			UserID:   p.ID,
			Action:   ar.Action,
			Resource: ar.Resource,
			Code:     status.Code(err).String(),
			IP:       ClientIP(ctx),
		})
		return resp, err
	}
}
