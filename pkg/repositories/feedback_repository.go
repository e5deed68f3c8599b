package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/justai-labs/justai-engine/pkg/apperrors"
	"github.com/justai-labs/justai-engine/pkg/database"
	"github.com/justai-labs/justai-engine/pkg/models"
)

// FeedbackRepository provides data access for feedback records.
type FeedbackRepository interface {
	// Create persists fb and assigns its store-generated id in place.
	Create(ctx context.Context, fb *models.Feedback) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Feedback, error)
	GetAll(ctx context.Context) ([]*models.Feedback, error)
	Update(ctx context.Context, fb *models.Feedback) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// feedbackRepository implements FeedbackRepository using PostgreSQL.
type feedbackRepository struct {
	db *database.DB
}

// NewFeedbackRepository creates a new feedback repository.
func NewFeedbackRepository(db *database.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, fb *models.Feedback) error {
	if fb.ID == uuid.Nil {
		fb.ID = uuid.New()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO feedback (id, label, user_name, content, tags, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		fb.ID, fb.Label, fb.UserName, fb.Content, tagsToStrings(fb.Tags), fb.Rating, fb.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	return nil
}

func (r *feedbackRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Feedback, error) {
	query := `
		SELECT id, label, user_name, content, tags, rating, created_at
		FROM feedback
		WHERE id = $1`

	fb, err := scanFeedbackRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("feedback %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, err
	}

	return fb, nil
}

func (r *feedbackRepository) GetAll(ctx context.Context) ([]*models.Feedback, error) {
	query := `
		SELECT id, label, user_name, content, tags, rating, created_at
		FROM feedback
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var entries []*models.Feedback
	for rows.Next() {
		fb, err := scanFeedbackRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, fb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback: %w", err)
	}

	return entries, nil
}

func (r *feedbackRepository) Update(ctx context.Context, fb *models.Feedback) error {
	// user_name and created_at are immutable and deliberately not in the SET list.
	query := `
		UPDATE feedback
		SET label = $2, content = $3, tags = $4, rating = $5
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		fb.ID, fb.Label, fb.Content, tagsToStrings(fb.Tags), fb.Rating)
	if err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("feedback %s: %w", fb.ID, apperrors.ErrNotFound)
	}

	return nil
}

func (r *feedbackRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM feedback WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("feedback %s: %w", id, apperrors.ErrNotFound)
	}

	return nil
}

func tagsToStrings(tags []models.FeedbackTag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

func scanFeedbackRow(row pgx.Row) (*models.Feedback, error) {
	var fb models.Feedback
	var tags []string

	err := row.Scan(&fb.ID, &fb.Label, &fb.UserName, &fb.Content, &tags, &fb.Rating, &fb.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan feedback: %w", err)
	}

	fb.Tags = make([]models.FeedbackTag, len(tags))
	for i, t := range tags {
		fb.Tags[i] = models.FeedbackTag(t)
	}

	return &fb, nil
}

// Ensure feedbackRepository implements FeedbackRepository at compile time.
var _ FeedbackRepository = (*feedbackRepository)(nil)
