package handler

import (
	"context"
	"log"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Pinger checks the database connection (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RulesChecker checks that the hierarchy rules engine evaluates (e.g. *engine.OPARules).
type RulesChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server implements grpc.health.v1.Health for readiness and liveness.
// Check reports NOT_SERVING (not a gRPC error) when the database or the rules engine is unhealthy.
type Server struct {
	healthpb.UnimplementedHealthServer
	pinger Pinger
	rules  RulesChecker
}

// NewServer returns a new Health gRPC server. pinger and rules may be nil; the corresponding check is skipped.
func NewServer(pinger Pinger, rules RulesChecker) *Server {
	return &Server{pinger: pinger, rules: rules}
}

// Check returns SERVING when every configured dependency is healthy. The service name is ignored.
func (s *Server) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if s.pinger != nil {
		if err := s.pinger.PingContext(ctx); err != nil {
			log.Printf("health: database ping failed: %v", err)
			return notServing(), nil
		}
	}
	if s.rules != nil {
		if err := s.rules.HealthCheck(ctx); err != nil {
			log.Printf("health: rules check failed: %v", err)
			return notServing(), nil
		}
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}

func notServing() *healthpb.HealthCheckResponse {
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}
}
