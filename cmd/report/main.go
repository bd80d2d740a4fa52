package main

import (
	"log"
	"os"

	"github.com/Mattkaye3/sjstats/adapters/postgres"
	"github.com/Mattkaye3/sjstats/internal"
	"github.com/Mattkaye3/sjstats/internal/report"
	"github.com/Mattkaye3/sjstats/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	port := os.Getenv("REPORT_PORT")
	if port == "" {
		port = "8081"
	}

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	app, err := ui.NewApp(ui.Config{
		Port: port,
	}, postgres.NewAnalysisRepository(db), report.NewRenderer(report.Config{}), internal.NewDefaultLogger())
	if err != nil {
		log.Fatal("Failed to create report browser:", err)
	}

	log.Println("Starting report browser on http://localhost:" + port)
	log.Fatal(app.Start())
}
