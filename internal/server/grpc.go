// Package server assembles the gRPC server: interceptor chain, stats handler and service registration.
package server

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"taskflow/backend/internal/audit"
	healthhandler "taskflow/backend/internal/health/handler"
	membershiphandler "taskflow/backend/internal/membership/handler"
	membershipservice "taskflow/backend/internal/membership/service"
	"taskflow/backend/internal/server/interceptors"
	taskhandler "taskflow/backend/internal/task/handler"
	taskservice "taskflow/backend/internal/task/service"
)

// Deps holds the services exposed over gRPC.
type Deps struct {
	Teams *membershipservice.Service
	Tasks *taskservice.Service
	// HealthPinger is used by the health service for readiness (e.g. *sql.DB). If nil, the DB ping is skipped.
	HealthPinger healthhandler.Pinger
	// HealthPolicyChecker is used by the health service for readiness (e.g. the OPA evaluator). If nil, the policy check is skipped.
	HealthPolicyChecker healthhandler.PolicyChecker
}

// PublicMethods are callable without an access token.
var PublicMethods = map[string]bool{
	healthpb.Health_Check_FullMethodName: true,
	healthpb.Health_Watch_FullMethodName: true,
	healthpb.Health_List_FullMethodName:  true,
}

// New returns a gRPC server with the otelgrpc stats handler and the logging, auth and audit
// interceptors. Health checks skip authentication, request logging and auditing. auditLog may be nil.
func New(log *zap.Logger, tokens interceptors.TokenValidator, principals interceptors.PrincipalResolver, auditLog audit.AuditLogger, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptors.LoggingUnary(log, PublicMethods),
			interceptors.AuthUnary(tokens, principals, PublicMethods),
			interceptors.AuditUnary(auditLog, PublicMethods),
		),
	}, opts...)
	return grpc.NewServer(opts...)
}

// RegisterServices registers every gRPC service with s.
//
// Service → handler mapping:
//   - taskflow.team.v1.TeamService → internal/membership/handler
//   - taskflow.task.v1.TaskService → internal/task/handler
//   - grpc.health.v1.Health        → internal/health/handler
func RegisterServices(s grpc.ServiceRegistrar, deps Deps) {
	membershiphandler.Register(s, membershiphandler.NewServer(deps.Teams))
	taskhandler.Register(s, taskhandler.NewServer(deps.Tasks))
	healthhandler.Register(s, healthhandler.NewServer(deps.HealthPinger, deps.HealthPolicyChecker,
		membershiphandler.ServiceName, taskhandler.ServiceName))
}
