package grpc

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
)

type fakeReporter struct {
	mu sync.Mutex
	st services.Status
}

func (f *fakeReporter) Status(context.Context) services.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st
}

func (f *fakeReporter) set(st services.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.st = st
}

func check(t *testing.T, s *HealthServer, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := s.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestRefresh(t *testing.T) {
	serving := healthpb.HealthCheckResponse_SERVING
	notServing := healthpb.HealthCheckResponse_NOT_SERVING

	tests := []struct {
		name                     string
		st                       services.Status
		overall, postgres, redis healthpb.HealthCheckResponse_ServingStatus
	}{
		{"all up", services.Status{DB: true, Redis: true}, serving, serving, serving},
		{"db down", services.Status{DB: false, Redis: true}, notServing, notServing, serving},
		{"redis down", services.Status{DB: true, Redis: false}, notServing, serving, notServing},
		{"all down", services.Status{}, notServing, notServing, notServing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewHealthServer("127.0.0.1:0", logging.Nop(), &fakeReporter{st: tt.st}, time.Second)
			assert.Equal(t, tt.st, s.Refresh(context.Background()))

			assert.Equal(t, tt.overall, check(t, s, ""))
			assert.Equal(t, tt.postgres, check(t, s, ServicePostgres))
			assert.Equal(t, tt.redis, check(t, s, ServiceRedis))
		})
	}
}

func TestServe_AnswersHealthChecks(t *testing.T) {
	rep := &fakeReporter{st: services.Status{DB: true, Redis: true}}
	s := NewHealthServer("", logging.Nop(), rep, 20*time.Millisecond)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	require.Eventually(t, func() bool {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{})
		return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 10*time.Millisecond)

	rep.set(services.Status{DB: true, Redis: false})
	require.Eventually(t, func() bool {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceRedis})
		return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_NOT_SERVING
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	s := NewHealthServer("127.0.0.1:99999", logging.Nop(), &fakeReporter{}, 0)
	assert.Error(t, s.Run(context.Background()))
	assert.Equal(t, DefaultProbeInterval, s.interval)
}
