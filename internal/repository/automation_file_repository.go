package repository

import (
	"context"
	"database/sql"
	"fmt"

	"leadsync/internal/models"
)

type automationFileRepository struct {
	db *sql.DB
}

// NewAutomationFileRepository creates a new automation file repository
func NewAutomationFileRepository(db *sql.DB) AutomationFileRepository {
	return &automationFileRepository{db: db}
}

// Get resolves an automation file by its owner-scoped id
func (r *automationFileRepository) Get(ctx context.Context, ownerID, fileID string) (*models.AutomationFile, error) {
	query := `
		SELECT id, owner_id, campaign_id, created_at
		FROM automation_files
		WHERE owner_id = $1 AND id = $2
	`

	file := &models.AutomationFile{}
	err := r.db.QueryRowContext(ctx, query, ownerID, fileID).Scan(
		&file.ID,
		&file.OwnerID,
		&file.CampaignID,
		&file.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("automation file not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get automation file: %w", err)
	}

	return file, nil
}

// Create binds an automation file to a campaign
func (r *automationFileRepository) Create(ctx context.Context, file *models.AutomationFile) error {
	query := `
		INSERT INTO automation_files (id, owner_id, campaign_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query, file.ID, file.OwnerID, file.CampaignID).Scan(&file.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create automation file: %w", err)
	}

	return nil
}
