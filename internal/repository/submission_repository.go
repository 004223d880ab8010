package repository

import (
	"context"
	"database/sql"
	"fmt"

	"leadsync/internal/models"
)

type submissionRepository struct {
	db *sql.DB
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// ListByQuiz retrieves all submissions for a quiz, newest first
func (r *submissionRepository) ListByQuiz(ctx context.Context, quizID string) ([]*models.Submission, error) {
	query := `
		SELECT id, quiz_id, raw_answers, is_complete, is_partial, completion_percentage, submitted_at
		FROM quiz_submissions
		WHERE quiz_id = $1
		ORDER BY submitted_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	submissions := []*models.Submission{}
	for rows.Next() {
		sub := &models.Submission{}
		err := rows.Scan(
			&sub.ID,
			&sub.QuizID,
			&sub.RawAnswers,
			&sub.IsComplete,
			&sub.IsPartial,
			&sub.CompletionPercentage,
			&sub.SubmittedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}

	return submissions, nil
}

// Create inserts a submission (seeding and tests only; the response store
// is append-only from the engine's perspective)
func (r *submissionRepository) Create(ctx context.Context, sub *models.Submission) error {
	query := `
		INSERT INTO quiz_submissions (id, quiz_id, raw_answers, is_complete, is_partial, completion_percentage, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		sub.ID,
		sub.QuizID,
		sub.RawAnswers,
		sub.IsComplete,
		sub.IsPartial,
		sub.CompletionPercentage,
		sub.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	return nil
}
