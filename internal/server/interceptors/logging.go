package interceptors

import (
	"context"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"taskflow/backend/internal/platform/apperr"
)

// LoggingUnary returns a unary server interceptor that logs one line per RPC with method,
// status code, duration and caller. Business errors are logged at info, internal errors at
// error; internal error messages are replaced before they reach the client.
// skipMethods is the set of full method names not to log (e.g. health checks).
func LoggingUnary(log *zap.Logger, skipMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		ctx, ci := withCallInfo(ctx)
		resp, err := handler(ctx, req)
		code := status.Code(err)
		if code == codes.Unknown {
			code = codes.Internal
		}
		if !skipMethods[info.FullMethod] {
			fields := []zap.Field{
				zap.String("method", info.FullMethod),
				zap.String("code", code.String()),
				zap.Duration("duration", time.Since(start)),
				zap.String("client_ip", ClientIP(ctx)),
			}
			if ci.principalID != "" {
				fields = append(fields, zap.String("principal_id", ci.principalID))
			}
			level := zapcore.InfoLevel
			if code == codes.Internal {
				level = zapcore.ErrorLevel
				fields = append(fields, zap.Error(err))
			}
			log.Log(level, "grpc request", fields...)
		}
		if code == codes.Internal && err != nil {
			if _, ok := apperr.As(err); !ok {
				return nil, status.Error(codes.Internal, "internal error")
			}
		}
		return resp, err
	}
}

// ClientIP returns the client IP from gRPC metadata (x-forwarded-for, x-real-ip) or peer.
func ClientIP(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get("x-forwarded-for"); len(vals) > 0 {
			first, _, _ := strings.Cut(vals[0], ",")
			if s := strings.TrimSpace(first); s != "" {
				return s
			}
		}
		if vals := md.Get("x-real-ip"); len(vals) > 0 {
			if s := strings.TrimSpace(vals[0]); s != "" {
				return s
			}
		}
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		if host, _, err := net.SplitHostPort(p.Addr.String()); err == nil {
			return host
		}
		return p.Addr.String()
	}
	return ""
}
