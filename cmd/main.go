package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/kperminova/gig-service/internal/db"
	"github.com/kperminova/gig-service/internal/handlers"
	"github.com/kperminova/gig-service/internal/identity"
	"github.com/kperminova/gig-service/internal/notification"
	"github.com/kperminova/gig-service/internal/repository"
	"github.com/kperminova/gig-service/internal/router"
	"github.com/kperminova/gig-service/internal/router/config"
	"github.com/kperminova/gig-service/internal/services"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	runDBMigration(cfg.MigrationURL, cfg.PostgresConn)

	dbPool, err := db.InitDb(cfg)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer dbPool.Close()

	logger := log.New(os.Stdout, "INFO: ", log.LstdFlags)

	gigRepo := repository.NewPostgresGigRepository(dbPool)
	bidRepo := repository.NewPostgresBidRepository(dbPool)
	hireRepo := repository.NewPostgresHireRepository(dbPool)

	hub := notification.NewHub()
	provider := identity.NewHeaderProvider()

	gigService := services.NewGigService(gigRepo)
	bidService := services.NewBidService(bidRepo, gigRepo)
	hireCoordinator := services.NewHireCoordinator(hireRepo, hub, logger)

	gigHandler := handlers.NewGigHandler(gigService, provider, logger, 5*time.Second)
	bidHandler := handlers.NewBidHandler(bidService, hireCoordinator, provider, logger, 5*time.Second)
	eventsHandler := handlers.NewEventsHandler(hub, provider, logger)

	routes := router.InitRoutes(gigHandler, bidHandler, eventsHandler)

	log.Printf("server is listening on %s...", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, routes); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func runDBMigration(migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		log.Fatal("cannot create a new migrate instance", err)
	}

	if err = migration.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("failed to run migrate up:", err)
	}
	log.Println("db migrated successfully")
}
