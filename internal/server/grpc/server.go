// Package grpc serves the standard gRPC health protocol for the files
// manager. The overall status is SERVING only while both postgres and redis
// answer; each is also reported under its own service name.
package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
)

const (
	ServicePostgres = "postgres"
	ServiceRedis    = "redis"

	DefaultProbeInterval = 5 * time.Second
)

// StatusReporter probes the backing stores.
type StatusReporter interface {
	Status(ctx context.Context) services.Status
}

type HealthServer struct {
	address  string
	reporter StatusReporter
	interval time.Duration
	logger   logging.Logger
	health   *health.Server
}

func NewHealthServer(a string, l logging.Logger, r StatusReporter, interval time.Duration) *HealthServer {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	return &HealthServer{
		address:  a,
		reporter: r,
		interval: interval,
		logger:   l.With("module", "grpc_server"),
		health:   health.NewServer(),
	}
}

func servingStatus(ok bool) healthpb.HealthCheckResponse_ServingStatus {
	if ok {
		return healthpb.HealthCheckResponse_SERVING
	}
	return healthpb.HealthCheckResponse_NOT_SERVING
}

// Refresh probes the stores once and publishes the result.
func (s *HealthServer) Refresh(ctx context.Context) services.Status {
	st := s.reporter.Status(ctx)

	s.health.SetServingStatus(ServicePostgres, servingStatus(st.DB))
	s.health.SetServingStatus(ServiceRedis, servingStatus(st.Redis))
	s.health.SetServingStatus("", servingStatus(st.DB && st.Redis))

	return st
}

func (s *HealthServer) poll(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	last := s.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := s.Refresh(ctx)
			if st != last {
				s.logger.Warn(ctx, "health changed", "db", st.DB, "redis", st.Redis)
				last = st
			}
		}
	}
}

func (s *HealthServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve runs the health service on lis until ctx is done.
func (s *HealthServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, s.health)

	go s.poll(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}
