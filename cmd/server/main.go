package main

import (
	"context"
	"errors"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"taskflow/backend/internal/audit"
	auditrepo "taskflow/backend/internal/audit/repository"
	"taskflow/backend/internal/config"
	"taskflow/backend/internal/db"
	healthhandler "taskflow/backend/internal/health/handler"
	identityservice "taskflow/backend/internal/identity/service"
	invrepo "taskflow/backend/internal/invitation/repository"
	"taskflow/backend/internal/logger"
	membershiprepo "taskflow/backend/internal/membership/repository"
	membershipservice "taskflow/backend/internal/membership/service"
	"taskflow/backend/internal/notification"
	"taskflow/backend/internal/policy/engine"
	"taskflow/backend/internal/security"
	"taskflow/backend/internal/server"
	taskrepo "taskflow/backend/internal/task/repository"
	taskservice "taskflow/backend/internal/task/service"
	teamrepo "taskflow/backend/internal/team/repository"
	telemetryotel "taskflow/backend/internal/telemetry/otel"
	userrepo "taskflow/backend/internal/user/repository"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.OTelServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zl); err != nil {
		zl.Fatal("server exited", zap.Error(err))
	}
	zl.Info("gRPC server stopped")
}

func run(ctx context.Context, cfg *config.Config, zl *zap.Logger) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}

	providers, err := telemetryotel.NewProviders(ctx, cfg.OTelEndpoint, cfg.OTelServiceName, cfg.OTelInsecure)
	if err != nil {
		return err
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, publicKey, err := security.LoadKeys("", cfg.JWTPublicKey)
	if err != nil {
		return err
	}
	tokens := security.NewTokenProvider(nil, publicKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL())

	users := userrepo.NewPostgresRepository(conn)

	var cache identityservice.PrincipalCache
	if cfg.RedisAddr != "" {
		rc := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer rc.Close()
		cache = identityservice.NewRedisPrincipalCache(rc, cfg.CacheTTL())
		zl.Info("principal cache enabled", zap.String("redis_addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL()))
	}
	principals := identityservice.NewResolver(users, cache)

	notifiers := notification.Multi{notification.NewOTelNotifier(providers.LoggerProvider)}
	if kn := notification.NewKafkaNotifier(cfg.KafkaBrokersList(), cfg.NotificationKafkaTopic); kn != nil {
		defer kn.Close()
		notifiers = append(notifiers, kn)
		zl.Info("kafka notifications enabled", zap.String("topic", cfg.NotificationKafkaTopic))
	}

	var (
		evaluator     engine.Evaluator = engine.Native{}
		policyChecker healthhandler.PolicyChecker
	)
	if cfg.PolicyEngine == config.PolicyEngineOPA {
		opa, err := engine.NewOPAEvaluator(ctx)
		if err != nil {
			return err
		}
		evaluator, policyChecker = opa, opa
	}

	deps := server.Deps{
		Teams: membershipservice.NewService(membershipservice.Deps{
			Users:             users,
			Teams:             teamrepo.NewPostgresRepository(conn),
			Invitations:       invrepo.NewPostgresRepository(conn),
			Store:             membershiprepo.NewPostgresRepository(conn),
			Notifier:          notifiers,
			Principals:        principals,
			DefaultMaxMembers: cfg.TeamDefaultMaxMembers,
		}),
		Tasks:               taskservice.NewService(taskrepo.NewPostgresRepository(conn), users, evaluator),
		HealthPinger:        conn,
		HealthPolicyChecker: policyChecker,
	}

	auditLog := audit.NewLogger(auditrepo.NewPostgresRepository(conn))
	s := server.New(zl, tokens, principals, auditLog)
	server.RegisterServices(s, deps)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zl.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr), zap.String("policy_engine", cfg.PolicyEngine))
		if err := s.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zl.Info("shutting down gRPC server")
		gracefulStop(s, shutdownTimeout)
		if !notification.Drain(notification.ShutdownDrainDuration) {
			zl.Warn("notification deliveries still in flight at shutdown")
		}
		return nil
	})
	return g.Wait()
}

// gracefulStop drains in-flight RPCs, forcing a stop after timeout.
func gracefulStop(s *grpc.Server, timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		s.Stop()
	}
}
