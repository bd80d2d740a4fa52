package main

import (
	"context"
	"log"
	"os"

	"github.com/Mattkaye3/sjstats/adapters/postgres/migrations"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url> [up|status|down]")
	}

	databaseURL := os.Args[1]
	command := "up"
	if len(os.Args) > 2 {
		command = os.Args[2]
	}

	// Connect to database
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	migrator := migrations.NewMigrator(db.DB, os.Getenv("MIGRATIONS_DIR"))

	ctx := context.Background()
	switch command {
	case "up":
		err = migrator.Up(ctx)
	case "status":
		err = migrator.Status(ctx)
	case "down":
		err = migrator.Down(ctx)
	default:
		log.Fatalf("Unknown command %q, expected up, status or down", command)
	}

	if err != nil {
		log.Fatalf("Migration %s failed: %v", command, err)
	}
}
