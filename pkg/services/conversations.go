package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/justai-labs/justai-engine/pkg/apperrors"
	"github.com/justai-labs/justai-engine/pkg/models"
	"github.com/justai-labs/justai-engine/pkg/repositories"
)

// ConversationService defines the interface for conversation lifecycle
// operations.
type ConversationService interface {
	Create(ctx context.Context, agentName string, messages []models.Message, tags []string) (*models.Conversation, error)
	GetAll(ctx context.Context) ([]*models.Conversation, error)
	GetByAgentName(ctx context.Context, agentName string) ([]*models.Conversation, error)
	// DeleteByID backs the conversation up, removes it from the primary
	// store and returns the removed record.
	DeleteByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	// ModifyMessages replaces the conversation's message sequence, and its
	// tags as well when newTags is non-nil.
	ModifyMessages(ctx context.Context, id uuid.UUID, newMessages []models.Message, newTags []string) error
	// Overwrite is full-replace-by-id: the stored record is fetched only to
	// verify existence, then replaced wholesale by conv with its label tag
	// rewritten to label. Fields present in the stored copy but absent from
	// conv are discarded.
	Overwrite(ctx context.Context, conv *models.Conversation, label string) error
	// Recover reinserts a backed-up conversation into the primary store and
	// purges its backup entry.
	Recover(ctx context.Context, id uuid.UUID) error
	// SearchByTag returns the subset of conversations carrying tag
	// (exact, case-sensitive).
	SearchByTag(conversations []*models.Conversation, tag string) []*models.Conversation
	// ExtractLabels maps each conversation's label (first "label: " tag,
	// prefix stripped) to the conversation. On duplicate labels the
	// conversation iterated last wins; callers keep labels unique per
	// agent+user by convention, this is implementation-defined behavior and
	// not a contract.
	ExtractLabels(conversations []*models.Conversation) map[string]*models.Conversation
}

// conversationService implements ConversationService.
type conversationService struct {
	agentRepo        repositories.AgentRepository
	conversationRepo repositories.ConversationRepository
	backupRepo       repositories.BackupRepository
	logger           *zap.Logger
}

// NewConversationService creates a new conversation service with dependencies.
func NewConversationService(
	agentRepo repositories.AgentRepository,
	conversationRepo repositories.ConversationRepository,
	backupRepo repositories.BackupRepository,
	logger *zap.Logger,
) ConversationService {
	return &conversationService{
		agentRepo:        agentRepo,
		conversationRepo: conversationRepo,
		backupRepo:       backupRepo,
		logger:           logger,
	}
}

// Create persists a new conversation for an existing agent and returns it
// with its store-assigned id.
func (s *conversationService) Create(ctx context.Context, agentName string, messages []models.Message, tags []string) (*models.Conversation, error) {
	_, err := s.agentRepo.GetByName(ctx, agentName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("agent %q: %w", agentName, apperrors.ErrAgentNotFound)
		}
		return nil, err
	}

	conv := models.NewConversation(agentName, messages, tags)
	if err := s.conversationRepo.Create(ctx, conv); err != nil {
		return nil, err
	}

	return conv, nil
}

// GetAll returns all conversations.
func (s *conversationService) GetAll(ctx context.Context) ([]*models.Conversation, error) {
	return s.conversationRepo.GetAll(ctx)
}

// GetByAgentName returns all conversations linked to the given agent.
func (s *conversationService) GetByAgentName(ctx context.Context, agentName string) ([]*models.Conversation, error) {
	return s.conversationRepo.GetByAgentName(ctx, agentName)
}

// DeleteByID backs up and removes a conversation. The two steps are not
// atomic; a failure after backup leaves the record in both stores, which a
// later Recover tolerates.
func (s *conversationService) DeleteByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	conv, err := s.conversationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.backupRepo.Backup(ctx, []*models.Conversation{conv}); err != nil {
		return nil, fmt.Errorf("failed to backup conversation %s: %w", id, err)
	}

	if err := s.conversationRepo.DeleteByID(ctx, id); err != nil {
		s.logger.Warn("Conversation backed up but not removed from primary store",
			zap.String("conversation_id", id.String()),
			zap.Error(err))
		return nil, err
	}

	return conv, nil
}

// ModifyMessages replaces a conversation's messages (and optionally tags).
func (s *conversationService) ModifyMessages(ctx context.Context, id uuid.UUID, newMessages []models.Message, newTags []string) error {
	conv, err := s.conversationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	conv.Messages = newMessages
	if newTags != nil {
		conv.Tags = newTags
	}

	return s.conversationRepo.Update(ctx, conv)
}

// Overwrite replaces the stored conversation at conv.ID with conv after
// rewriting its label tag.
func (s *conversationService) Overwrite(ctx context.Context, conv *models.Conversation, label string) error {
	if _, err := s.conversationRepo.GetByID(ctx, conv.ID); err != nil {
		return err
	}

	conv.SetLabel(label)
	return s.conversationRepo.Update(ctx, conv)
}

// Recover moves a conversation from the backup store back into the primary
// store.
func (s *conversationService) Recover(ctx context.Context, id uuid.UUID) error {
	backedUp, err := s.backupRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.conversationRepo.Create(ctx, backedUp); err != nil {
		return fmt.Errorf("failed to reinsert backed-up conversation: %w", err)
	}

	if err := s.backupRepo.DeleteByID(ctx, id); err != nil {
		s.logger.Warn("Recovered conversation but failed to purge backup",
			zap.String("conversation_id", id.String()),
			zap.Error(err))
		return err
	}

	return nil
}

// SearchByTag filters conversations by exact tag match.
func (s *conversationService) SearchByTag(conversations []*models.Conversation, tag string) []*models.Conversation {
	var matched []*models.Conversation
	for _, conv := range conversations {
		if conv.HasTag(tag) {
			matched = append(matched, conv)
		}
	}
	return matched
}

// ExtractLabels builds a label-to-conversation index from label tags.
func (s *conversationService) ExtractLabels(conversations []*models.Conversation) map[string]*models.Conversation {
	labels := make(map[string]*models.Conversation)
	for _, conv := range conversations {
		if label, ok := conv.Label(); ok {
			labels[label] = conv
		}
	}
	return labels
}

// Ensure conversationService implements ConversationService at compile time.
var _ ConversationService = (*conversationService)(nil)
