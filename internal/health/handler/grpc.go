package handler

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// Pinger is used for readiness (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PolicyChecker reports whether the policy evaluator is usable (e.g. the OPA evaluator).
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server implements grpc.health.v1.Health. Every Check runs the configured probes;
// nil probes are skipped.
type Server struct {
	healthpb.UnimplementedHealthServer
	pinger   Pinger
	policy   PolicyChecker
	services map[string]bool
}

// NewServer returns a health server. services lists the fully qualified service names
// that Check answers for in addition to the overall "" service.
func NewServer(pinger Pinger, policy PolicyChecker, services ...string) *Server {
	known := map[string]bool{"": true}
	for _, s := range services {
		known[s] = true
	}
	return &Server{pinger: pinger, policy: policy, services: known}
}

// Register adds the health service to s.
func Register(s grpc.ServiceRegistrar, srv *Server) {
	healthpb.RegisterHealthServer(s, srv)
}

// Check reports NOT_SERVING when the database ping or the policy check fails.
// Probe failures are not returned as gRPC errors.
func (s *Server) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if !s.services[req.GetService()] {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", req.GetService())
	}
	return &healthpb.HealthCheckResponse{Status: s.probe(ctx)}, nil
}

func (s *Server) probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	if s.pinger != nil {
		if err := s.pinger.PingContext(ctx); err != nil {
			zap.L().Warn("health: database ping failed", zap.Error(err))
			return healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	if s.policy != nil {
		if err := s.policy.HealthCheck(ctx); err != nil {
			zap.L().Warn("health: policy check failed", zap.Error(err))
			return healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	return healthpb.HealthCheckResponse_SERVING
}
