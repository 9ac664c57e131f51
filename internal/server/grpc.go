package server

import (
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	assetv1 "asset-hierarchy/api/asset/v1"
	assethandler "asset-hierarchy/internal/asset/handler"
	healthhandler "asset-hierarchy/internal/health/handler"
	"asset-hierarchy/internal/server/interceptors"
	"asset-hierarchy/internal/telemetry"
)

// Deps holds optional service dependencies for gRPC handlers.
type Deps struct {
	// Assets is the asset service. If nil, AssetService RPCs return Unimplemented.
	Assets assethandler.Assets
	// HealthPinger is used by the health service for readiness (e.g. *sql.DB). If nil, Check skips the DB ping.
	HealthPinger healthhandler.Pinger
	// HealthRulesChecker is used by the health service for readiness (e.g. *engine.OPARules). If nil, Check skips it.
	HealthRulesChecker healthhandler.RulesChecker
	// Events receives a grpc.request event per RPC. If nil, requests are not emitted.
	Events telemetry.EventEmitter
}

// SkipTelemetryMethods are not reported as grpc.request events.
var SkipTelemetryMethods = map[string]bool{
	healthpb.Health_Check_FullMethodName: true,
	healthpb.Health_Watch_FullMethodName: true,
}

// UnaryInterceptors returns the server interceptor chain: request id first, then request telemetry.
func UnaryInterceptors(deps Deps) []grpc.UnaryServerInterceptor {
	return []grpc.UnaryServerInterceptor{
		interceptors.RequestIDUnary(),
		interceptors.TelemetryUnary(deps.Events, SkipTelemetryMethods),
	}
}

// RegisterServices registers all gRPC services with the given server.
//
// Service → handler mapping:
//   - asset.v1.AssetService → internal/asset/handler
//   - grpc.health.v1.Health → internal/health/handler
func RegisterServices(s grpc.ServiceRegistrar, deps Deps) {
	assetv1.RegisterAssetServiceServer(s, assethandler.NewServer(deps.Assets))
	healthpb.RegisterHealthServer(s, healthhandler.NewServer(deps.HealthPinger, deps.HealthRulesChecker))
}
