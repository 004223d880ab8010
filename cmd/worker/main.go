package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"leadsync/internal/config"
	"leadsync/internal/models"
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

	// The ledger reservation happened at admission time; the worker only
	// delivers and records outcomes
	ledger := service.NewLedger(repository.NewLedgerRepository(db))
	sender := service.NewSenderService(cfg.Dispatch.SenderRate)

	// Connect to RabbitMQ
	conn, err := queue.NewConnection(cfg.GetRabbitMQURL())
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()
	log.Println("Connected to RabbitMQ")

	consumer, err := queue.NewConsumer(conn, cfg.Dispatch.QueueName, createJobHandler(ledger, sender))
	if err != nil {
		log.Fatalf("Failed to create consumer: %v", err)
	}

	if err := consumer.Start(); err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}
	log.Printf("Worker started, consuming from queue: %s", cfg.Dispatch.QueueName)

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")

	if err := consumer.Stop(); err != nil {
		log.Printf("Error stopping consumer: %v", err)
	}

	log.Println("Worker stopped")
}

// createJobHandler builds the per-job delivery function
func createJobHandler(ledger *service.Ledger, sender *service.SenderService) queue.JobHandler {
	return func(job *queue.DispatchJob) error {
		ctx := context.Background()
		channel := models.Channel(job.Channel)

		log.Printf("Delivering campaign %d lead %s via %s", job.CampaignID, job.LeadID, job.Channel)

		result := sender.Send(channel, job.Contact, job.Body)
		if result.Success {
			log.Printf("Sent to %s (latency: %v)", job.Contact, result.Latency)
			return nil
		}

		// Record the failure on the reservation so stats reflect it.
		// The reservation itself stands: the dedup guarantee is
		// at-most-once, a failed send is not re-admitted.
		log.Printf("Send failed for %s: %v", job.Contact, result.Error)
		if err := ledger.RecordOutcome(ctx, job.CampaignID, channel, job.Contact, models.OutcomeFailed); err != nil {
			log.Printf("ERROR: failed to record delivery failure: %v", err)
			return err
		}

		return nil
	}
}
