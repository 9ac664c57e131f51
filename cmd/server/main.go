package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	"asset-hierarchy/internal/asset/service"
	"asset-hierarchy/internal/association"
	"asset-hierarchy/internal/config"
	dprepo "asset-hierarchy/internal/datapoint/repository"
	"asset-hierarchy/internal/db"
	objrepo "asset-hierarchy/internal/object/repository"
	"asset-hierarchy/internal/policy/engine"
	"asset-hierarchy/internal/server"
	"asset-hierarchy/internal/telemetry"
	telemetryotel "asset-hierarchy/internal/telemetry/otel"
	"asset-hierarchy/internal/telemetry/producer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	ctx := context.Background()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	providers, err := telemetryotel.NewProviders(ctx, telemetryotel.Options{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Env,
		Insecure:    cfg.OTLPInsecure,
	})
	if err != nil {
		log.Fatalf("otel: %v", err)
	}
	providers.SetGlobal()
	if cfg.OTLPEndpoint != "" {
		log.Printf("otel: exporting to %s", cfg.OTLPEndpoint)
	}

	rules, err := engine.LoadOPARules(ctx, cfg.HierarchyPolicyFile)
	if err != nil {
		log.Fatalf("policy: %v", err)
	}

	emitters := []telemetry.EventEmitter{telemetryotel.NewEventEmitter(providers.LoggerProvider)}
	kafkaProducer := producer.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.EventsKafkaTopic)
	if kafkaProducer != nil {
		emitters = append(emitters, kafkaProducer)
		log.Printf("events: publishing to kafka topic %s", cfg.EventsKafkaTopic)
	}
	events := telemetry.NewFanout(emitters...)

	assets := service.NewAssetService(
		objrepo.NewPostgresRepository(conn),
		dprepo.NewPostgresRepository(conn),
		association.NewManager(association.NewPostgresStore(conn)),
		rules,
		events,
		providers.TracerProvider,
		providers.MeterProvider,
	)

	deps := server.Deps{
		Assets:             assets,
		HealthPinger:       conn,
		HealthRulesChecker: rules,
		Events:             events,
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	defer lis.Close()

	s := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(server.UnaryInterceptors(deps)...),
	)
	server.RegisterServices(s, deps)

	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr)
		if err := s.Serve(lis); err != nil {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down gRPC server...")
	stopped := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(cfg.ShutdownGrace()):
		log.Println("graceful stop timed out; forcing stop")
		s.Stop()
	}
	log.Println("gRPC server stopped")

	// Let in-flight async emits finish before the exporters and the Kafka writer go away.
	time.Sleep(telemetry.ShutdownDrainDuration)
	if err := kafkaProducer.Close(); err != nil {
		log.Printf("events: kafka close: %v", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace())
	defer cancel()
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("otel: shutdown: %v", err)
	}
}
