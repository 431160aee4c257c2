package grpc

import (
	"fmt"
	"net"
	"os"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// SimulationService is the health service name reporting whether ticks are
// being processed. The empty service reports the process itself.
const SimulationService = "colony.Simulation"

// HealthServer exposes the standard gRPC health protocol on a unix socket
// for the lifetime of a simulate run, so supervisors can probe it with
// grpc_health_probe or grpcurl.
type HealthServer struct {
	socketPath string
	listener   net.Listener
	server     *grpc.Server
	health     *health.Server

	stopOnce sync.Once
	errs     chan error
}

// NewHealthServer binds the socket, replacing a stale one left by a crashed run
func NewHealthServer(socketPath string) (*HealthServer, error) {
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
	}

	// owner only
	if err := os.Chmod(socketPath, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(SimulationService, healthpb.HealthCheckResponse_NOT_SERVING)

	server := grpc.NewServer()
	healthpb.RegisterHealthServer(server, hs)

	return &HealthServer{
		socketPath: socketPath,
		listener:   listener,
		server:     server,
		health:     hs,
		errs:       make(chan error, 1),
	}, nil
}

func (s *HealthServer) SocketPath() string { return s.socketPath }

// Start serves in the background. Serve errors are reported by Stop.
func (s *HealthServer) Start() {
	go func() {
		if err := s.server.Serve(s.listener); err != nil {
			s.errs <- fmt.Errorf("gRPC health server error: %w", err)
		}
	}()
}

// SetRunning flips the simulation service between SERVING and NOT_SERVING
func (s *HealthServer) SetRunning(running bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if running {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(SimulationService, status)
}

// Stop tells watchers every service is going away, drains in-flight checks
// and removes the socket. Calling it twice is a no-op.
func (s *HealthServer) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		s.health.Shutdown()
		s.server.GracefulStop()
		// only closed by GracefulStop when Start ran
		_ = s.listener.Close()
		select {
		case err = <-s.errs:
		default:
		}
		if rmErr := os.Remove(s.socketPath); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
			err = fmt.Errorf("failed to remove socket: %w", rmErr)
		}
	})
	return err
}
