package main

import (
	"context"
	"log"

	"github.com/Mattkaye3/sjstats/adapters/postgres/migrations"
	"github.com/Mattkaye3/sjstats/internal/config"
	"github.com/Mattkaye3/sjstats/internal/container"
	"github.com/Mattkaye3/sjstats/internal/errors"
	"github.com/Mattkaye3/sjstats/ui"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase opens the PostgreSQL connection and brings the schema up to date
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	if appConfig.Database.URL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	// Run migrations
	migrator := migrations.NewMigrator(db.DB, "")
	if err := migrator.Up(context.Background()); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	// Create dependency injection container
	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	// Initialize container with database
	if err := appContainer.InitWithDatabase(db); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	gin.SetMode(appConfig.Server.GinMode)

	// Start the report browser alongside the API when a port is configured
	if appConfig.Server.ReportPort != "" {
		browser, err := ui.NewApp(ui.Config{
			Port: appConfig.Server.ReportPort,
		}, appContainer.AnalysisRepo, appContainer.Renderer, appContainer.Logger)
		if err != nil {
			log.Fatalf("Failed to create report browser: %v", err)
		}
		go func() {
			log.Printf("Report browser starting on http://localhost:%s", appConfig.Server.ReportPort)
			if err := browser.Start(); err != nil {
				log.Printf("Report browser failed: %v", err)
			}
		}()
	}

	// Initialize web server
	server := ui.NewServer(
		appConfig.Models.Dir,
		appContainer.MediationService,
		appContainer.SummaryService,
		appContainer.ModelLoader,
		appContainer.AnalysisRepo,
		appContainer.Logger,
	)

	// Start the server
	log.Printf("Starting sjstats server on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
