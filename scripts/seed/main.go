package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"leadsync/internal/config"
)

// ANSI color codes for terminal output
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
)

// Command-line flags
var (
	submissionsCount = flag.Int("submissions", 20, "Number of quiz submissions to create")
	quotaCredits     = flag.Int("quota", 100, "Credits per channel for the demo user")
	clearData        = flag.Bool("clear", false, "Clear existing seed data before inserting")
)

const (
	demoOwner = "demo-user"
	demoQuiz  = "quiz-demo"
	demoFile  = "automation-demo"
)

func main() {
	_ = godotenv.Load()
	flag.Parse()

	printInfo("=== LeadSync Seeder ===\n")

	cfg, err := config.Load()
	if err != nil {
		printError(fmt.Sprintf("Failed to load configuration: %v", err))
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		printError(fmt.Sprintf("Failed to open database connection: %v", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		printError(fmt.Sprintf("Failed to ping database: %v", err))
		os.Exit(1)
	}

	if *clearData {
		printInfo("Clearing existing seed data...")
		if err := clear(db); err != nil {
			printError(fmt.Sprintf("Failed to clear data: %v", err))
			os.Exit(1)
		}
	}

	if err := seedSubmissions(db, *submissionsCount); err != nil {
		printError(fmt.Sprintf("Failed to seed submissions: %v", err))
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Seeded %d submissions for quiz %s", *submissionsCount, demoQuiz))

	campaignID, err := seedCampaign(db)
	if err != nil {
		printError(fmt.Sprintf("Failed to seed campaign: %v", err))
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Seeded campaign %d bound to automation file %s", campaignID, demoFile))

	if err := seedQuota(db, *quotaCredits); err != nil {
		printError(fmt.Sprintf("Failed to seed quota: %v", err))
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Credited %d credits per channel to %s", *quotaCredits, demoOwner))

	printInfo("\nDone")
}

// clear removes all demo rows
func clear(db *sql.DB) error {
	statements := []string{
		"DELETE FROM delivery_records",
		"DELETE FROM sync_cursors",
		"DELETE FROM automation_files",
		"DELETE FROM campaigns WHERE owner_id = '" + demoOwner + "'",
		"DELETE FROM quiz_submissions WHERE quiz_id = '" + demoQuiz + "'",
		"DELETE FROM quota_balances WHERE user_id = '" + demoOwner + "'",
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// seedSubmissions inserts sample submissions in both legacy payload
// shapes, alternating complete and abandoned leads
func seedSubmissions(db *sql.DB, count int) error {
	base := time.Now().Add(-time.Duration(count) * time.Hour)

	for i := 0; i < count; i++ {
		id := fmt.Sprintf("sub-%04d", i+1)
		submittedAt := base.Add(time.Duration(i) * time.Hour)
		complete := i%2 == 0

		var payload []byte
		if i%3 == 0 {
			// Flat map shape
			payload, _ = json.Marshal(map[string]interface{}{
				"nome":     fmt.Sprintf("Lead %d", i+1),
				"telefone": fmt.Sprintf("119951339%02d", i%100),
				"email":    fmt.Sprintf("lead%d@example.com", i+1),
				"interesse": []string{
					"produto A", "produto B",
				},
			})
		} else {
			// Ordered answer list shape
			payload, _ = json.Marshal([]map[string]interface{}{
				{"elementId": "e1", "elementType": "text", "elementFieldId": "nome", "answer": fmt.Sprintf("Lead %d", i+1)},
				{"elementId": "e2", "elementType": "phone", "elementFieldId": "telefone", "answer": fmt.Sprintf("119951339%02d", i%100)},
				{"elementId": "e3", "elementType": "email", "elementFieldId": "email", "answer": fmt.Sprintf("lead%d@example.com", i+1)},
			})
		}

		percentage := 100
		if !complete {
			percentage = 40 + i%50
		}

		_, err := db.Exec(`
			INSERT INTO quiz_submissions (id, quiz_id, raw_answers, is_complete, is_partial, completion_percentage, submitted_at)
			VALUES ($1, $2, $3, $4, FALSE, $5, $6)
			ON CONFLICT (id) DO NOTHING
		`, id, demoQuiz, payload, complete, percentage, submittedAt)
		if err != nil {
			return err
		}
	}

	return nil
}

// seedCampaign inserts an active demo campaign with its automation file
func seedCampaign(db *sql.DB) (int, error) {
	var campaignID int
	err := db.QueryRow(`
		INSERT INTO campaigns (owner_id, quiz_id, channel, segment, trigger_type, trigger_delay_minutes, template, status)
		VALUES ($1, $2, 'whatsapp', 'completed', 'immediate', 0, $3, 'active')
		RETURNING id
	`, demoOwner, demoQuiz, "Olá {nome}! Obrigado por completar o quiz.").Scan(&campaignID)
	if err != nil {
		return 0, err
	}

	_, err = db.Exec(`
		INSERT INTO automation_files (id, owner_id, campaign_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, id) DO NOTHING
	`, demoFile, demoOwner, campaignID)
	if err != nil {
		return 0, err
	}

	return campaignID, nil
}

// seedQuota credits the demo user on every channel
func seedQuota(db *sql.DB, credits int) error {
	for _, channel := range []string{"sms", "email", "whatsapp"} {
		_, err := db.Exec(`
			INSERT INTO quota_balances (user_id, channel, remaining)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, channel) DO UPDATE SET remaining = EXCLUDED.remaining
		`, demoOwner, channel, credits)
		if err != nil {
			return err
		}
	}
	return nil
}

func printSuccess(msg string) {
	fmt.Printf("%s%s%s\n", colorGreen, msg, colorReset)
}

func printError(msg string) {
	fmt.Fprintf(os.Stderr, "%s%s%s\n", colorRed, msg, colorReset)
}

func printInfo(msg string) {
	fmt.Printf("%s%s%s\n", colorCyan, msg, colorReset)
}
