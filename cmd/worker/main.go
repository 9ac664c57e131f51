// Command worker relays asset hierarchy change events (object, datapoint and association changes plus
// per-RPC request events) from the events topic to Loki, labelled by event type.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"asset-hierarchy/internal/config"
	"asset-hierarchy/internal/telemetry/loki"
	"asset-hierarchy/internal/telemetry/relay"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("event relay: KAFKA_BROKERS is required")
	}
	sink, err := loki.NewClient(cfg.LokiURL, nil)
	if err != nil {
		log.Fatalf("event relay: LOKI_URL is required: %v", err)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    cfg.EventsKafkaTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 1 << 20,
		MaxWait:  500 * time.Millisecond,
	})
	defer func() {
		if err := reader.Close(); err != nil {
			log.Printf("event relay: close reader: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("event relay: hierarchy events %s (group %s) -> %s", cfg.EventsKafkaTopic, cfg.KafkaGroupID, cfg.LokiURL)
	if err := relay.New(reader, sink).Run(ctx); err != nil {
		log.Fatalf("event relay: %v", err)
	}
}
