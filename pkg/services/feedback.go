package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/justai-labs/justai-engine/pkg/models"
	"github.com/justai-labs/justai-engine/pkg/repositories"
)

// FeedbackService defines the interface for feedback operations.
type FeedbackService interface {
	// Create stores a feedback entry. A zero createdAt means "now".
	Create(ctx context.Context, label, userName, content string, tags []models.FeedbackTag, rating int, createdAt time.Time) (*models.Feedback, error)
	GetAll(ctx context.Context) ([]*models.Feedback, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Feedback, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Edit replaces label, content, tags and rating. UserName and CreatedAt
	// are preserved from the stored record.
	Edit(ctx context.Context, id uuid.UUID, newLabel, newContent string, newTags []models.FeedbackTag, newRating int) error
}

// feedbackService implements FeedbackService.
type feedbackService struct {
	feedbackRepo repositories.FeedbackRepository
	logger       *zap.Logger
}

// NewFeedbackService creates a new feedback service with dependencies.
func NewFeedbackService(feedbackRepo repositories.FeedbackRepository, logger *zap.Logger) FeedbackService {
	return &feedbackService{
		feedbackRepo: feedbackRepo,
		logger:       logger,
	}
}

func (s *feedbackService) Create(ctx context.Context, label, userName, content string, tags []models.FeedbackTag, rating int, createdAt time.Time) (*models.Feedback, error) {
	if err := validateFeedback(tags, rating); err != nil {
		return nil, err
	}

	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	fb := &models.Feedback{
		Label:     label,
		UserName:  userName,
		Content:   content,
		Tags:      tags,
		Rating:    rating,
		CreatedAt: createdAt,
	}

	if err := s.feedbackRepo.Create(ctx, fb); err != nil {
		return nil, err
	}

	return fb, nil
}

func (s *feedbackService) GetAll(ctx context.Context) ([]*models.Feedback, error) {
	return s.feedbackRepo.GetAll(ctx)
}

func (s *feedbackService) Get(ctx context.Context, id uuid.UUID) (*models.Feedback, error) {
	return s.feedbackRepo.GetByID(ctx, id)
}

func (s *feedbackService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.feedbackRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.feedbackRepo.Delete(ctx, id)
}

func (s *feedbackService) Edit(ctx context.Context, id uuid.UUID, newLabel, newContent string, newTags []models.FeedbackTag, newRating int) error {
	if err := validateFeedback(newTags, newRating); err != nil {
		return err
	}

	existing, err := s.feedbackRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	updated := &models.Feedback{
		ID:        id,
		Label:     newLabel,
		UserName:  existing.UserName,
		Content:   newContent,
		Tags:      newTags,
		Rating:    newRating,
		CreatedAt: existing.CreatedAt,
	}

	return s.feedbackRepo.Update(ctx, updated)
}

func validateFeedback(tags []models.FeedbackTag, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}
	for _, tag := range tags {
		if !models.IsValidFeedbackTag(tag) {
			return fmt.Errorf("invalid feedback tag: %q", tag)
		}
	}
	return nil
}

// Ensure feedbackService implements FeedbackService at compile time.
var _ FeedbackService = (*feedbackService)(nil)
