package main

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"leadsync/internal/config"
	"leadsync/internal/handler"
	"leadsync/internal/middleware"
	"leadsync/internal/queue"
	"leadsync/internal/repository"
	"leadsync/internal/service"
)

func main() {
	// Load .env file (ignore error in production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	// Connect to RabbitMQ and set up the dispatch queue
	conn, err := queue.NewConnection(cfg.GetRabbitMQURL())
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()

	publisher, err := queue.NewPublisher(conn, cfg.Dispatch.QueueName)
	if err != nil {
		log.Fatalf("Failed to create publisher: %v", err)
	}
	log.Println("Connected to RabbitMQ")

	// Repositories
	submissionRepo := repository.NewSubmissionRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	fileRepo := repository.NewAutomationFileRepository(db)
	ledgerStore := repository.NewLedgerRepository(db)
	cursorStore := repository.NewCursorRepository(db)
	quotaStore := repository.NewQuotaRepository(db)

	// Services
	composer := service.NewComposer()
	scheduler := service.NewScheduler()
	ledger := service.NewLedger(ledgerStore)
	quota := service.NewQuotaGuard(quotaStore)
	campaignSvc := service.NewCampaignService(campaignRepo, fileRepo, composer)
	syncSvc := service.NewSyncService(fileRepo, campaignRepo, submissionRepo, cursorStore, scheduler)
	dispatchSvc := service.NewDispatchService(submissionRepo, ledger, quota, composer, scheduler, publisher)
	healthSvc := service.NewHealthService(db, cfg.GetRabbitMQURL(), "1.0.0")

	// Periodic eligibility sweep for delayed/remarketing triggers
	sweeper := service.NewSweeper(campaignRepo, dispatchSvc, cfg.Dispatch.SweepSchedule)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("Failed to start sweeper: %v", err)
	}
	defer sweeper.Stop()
	log.Printf("Campaign sweep running (%s)", cfg.Dispatch.SweepSchedule)

	// Handlers
	syncHandler := handler.NewSyncHandler(syncSvc)
	deliveryHandler := handler.NewDeliveryHandler(ledger)
	quotaHandler := handler.NewQuotaHandler(quota)
	campaignHandler := handler.NewCampaignHandler(campaignSvc, dispatchSvc)
	healthHandler := handler.NewHealthHandler(healthSvc)

	// Router
	router := mux.NewRouter()
	router.Use(middleware.Recovery)

	router.HandleFunc("/health", healthHandler.HandleHealth).Methods("GET")
	router.HandleFunc("/sync", syncHandler.Sync).Methods("GET")
	router.HandleFunc("/delivery-report", deliveryHandler.Report).Methods("POST")
	router.HandleFunc("/quota", quotaHandler.Get).Methods("GET")
	router.HandleFunc("/campaigns", campaignHandler.Create).Methods("POST")
	router.HandleFunc("/campaigns", campaignHandler.List).Methods("GET")
	router.HandleFunc("/campaigns/{id}", campaignHandler.GetByID).Methods("GET")
	router.HandleFunc("/campaigns/{id}/activate", campaignHandler.Activate).Methods("POST")
	router.HandleFunc("/campaigns/{id}/pause", campaignHandler.Pause).Methods("POST")
	router.HandleFunc("/campaigns/{id}/complete", campaignHandler.Complete).Methods("POST")
	router.HandleFunc("/campaigns/{id}/dispatch", campaignHandler.Dispatch).Methods("POST")

	// Start server
	port := ":" + cfg.Server.Port
	log.Printf("API server starting on port %s (env: %s)", port, cfg.Env)

	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
