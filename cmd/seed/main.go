// Package main provides a tool to seed a media backend from a fixtures file.
//
// The fixtures file maps table names to item objects:
//
//	{"books": [{"title": "Emma", "author": "Austen", "genre": "Classic"}]}
//
// Usage:
//
//	HASURA_ENDPOINT=http://localhost:8081/v1/graphql HASURA_ADMIN_SECRET=... go run ./cmd/seed --file fixtures.json
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/listenupapp/mediashelf/internal/mediastore"
	"github.com/listenupapp/mediashelf/internal/mediastore/hasura"
)

func main() {
	file := flag.String("file", "fixtures.json", "Path to the fixtures file")
	endpoint := flag.String("endpoint", os.Getenv("HASURA_ENDPOINT"), "Hasura GraphQL endpoint")
	idType := flag.String("id-type", "uuid", "GraphQL type of the id column")
	timeout := flag.Duration("timeout", 30*time.Second, "Per-call timeout")
	flag.Parse()

	if *endpoint == "" {
		log.Fatal("No endpoint: set HASURA_ENDPOINT or pass --endpoint")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open fixtures: %v", err)
	}
	defer f.Close()

	fixtures, err := mediastore.ReadFixtures(f)
	if err != nil {
		log.Fatalf("Failed to read fixtures: %v", err)
	}

	client := hasura.New(hasura.Options{
		Endpoint:    *endpoint,
		AdminSecret: os.Getenv("HASURA_ADMIN_SECRET"),
		Timeout:     *timeout,
		IDType:      *idType,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Seeding %s from %s\n", *endpoint, *file)

	report, err := mediastore.Seed(ctx, client, fixtures)
	fmt.Printf("Inserted %d, skipped %d duplicates\n", report.Inserted, report.Skipped)
	if err != nil {
		log.Fatalf("Seeding stopped: %v", err)
	}
}
