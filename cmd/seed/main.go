// seed creates a sample hierarchy for local testing: go run ./cmd/seed [-file hierarchy.yaml] [-force].
// Idempotent by default: skips when any root object already exists.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"asset-hierarchy/internal/asset/service"
	"asset-hierarchy/internal/association"
	"asset-hierarchy/internal/config"
	dprepo "asset-hierarchy/internal/datapoint/repository"
	"asset-hierarchy/internal/db"
	objrepo "asset-hierarchy/internal/object/repository"
	"asset-hierarchy/internal/policy/engine"
	"asset-hierarchy/internal/seed"
)

func main() {
	file := flag.String("file", "", "YAML hierarchy to load (default: built-in sample hotel)")
	force := flag.Bool("force", false, "Seed even when root objects already exist")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	data := seed.SampleHotel
	if *file != "" {
		if data, err = os.ReadFile(*file); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}
	doc, err := seed.Parse(data)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	rules, err := engine.LoadOPARules(ctx, cfg.HierarchyPolicyFile)
	if err != nil {
		log.Fatalf("policy: %v", err)
	}
	assets := service.NewAssetService(
		objrepo.NewPostgresRepository(conn),
		dprepo.NewPostgresRepository(conn),
		association.NewManager(association.NewPostgresStore(conn)),
		rules, nil, nil, nil,
	)

	res, err := seed.Apply(ctx, assets, doc, *force)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	if res.Skipped {
		log.Println("Seed already applied (root objects exist). Skipping; use -force to seed anyway.")
		return
	}
	log.Printf("Seed completed: %d objects, %d datapoints.", res.Objects, res.Datapoints)
}
