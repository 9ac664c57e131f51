package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"asset-hierarchy/internal/telemetry"
)

const requestEventSource = "grpc_interceptor"

// TelemetryUnary returns a unary server interceptor that emits a grpc.request event after each RPC.
// Best-effort: the emit is asynchronous and failures are logged, never returned. If emitter is nil,
// the interceptor no-ops. skipMethods is the set of full method names to not emit (e.g. health checks).
func TelemetryUnary(emitter telemetry.EventEmitter, skipMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if emitter == nil || skipMethods[info.FullMethod] {
			return resp, err
		}
		event := telemetry.NewEvent(telemetry.EventGRPCRequest, requestEventSource).
			With("full_method", info.FullMethod).
			With("status_code", status.Code(err).String()).
			With("duration_ms", time.Since(start).Milliseconds()).
			With("client_ip", ClientIP(ctx))
		if id, ok := GetRequestID(ctx); ok {
			event.With("request_id", id)
		}
		telemetry.EmitAsync(emitter, event)
		return resp, err
	}
}
