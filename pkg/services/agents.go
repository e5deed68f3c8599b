package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/justai-labs/justai-engine/pkg/apperrors"
	"github.com/justai-labs/justai-engine/pkg/models"
	"github.com/justai-labs/justai-engine/pkg/repositories"
	"github.com/justai-labs/justai-engine/pkg/retry"
)

// AgentService defines the interface for agent lifecycle operations.
//
// Delete, Edit and Recover span the agent, conversation and backup stores
// without a shared transaction. A failure mid-workflow triggers a retried
// compensating action; a compensation failure is logged and the original
// error is returned, never masked.
type AgentService interface {
	Create(ctx context.Context, name, systemPrompt string) error
	Delete(ctx context.Context, name string) error
	Edit(ctx context.Context, oldName, newName, newSystemPrompt string) error
	Recover(ctx context.Context, name, systemPrompt string) error
	GetAll(ctx context.Context) ([]*models.Agent, error)
	GetOne(ctx context.Context, name string) (*models.Agent, error)
	AddDatasetGenerationPrompt(ctx context.Context, agentName, label, prompt string) error
	DeleteDatasetGenerationPrompt(ctx context.Context, agentName, label string) error
}

// agentService implements AgentService.
type agentService struct {
	agentRepo        repositories.AgentRepository
	conversationRepo repositories.ConversationRepository
	backupRepo       repositories.BackupRepository
	logger           *zap.Logger
}

// NewAgentService creates a new agent service with dependencies.
func NewAgentService(
	agentRepo repositories.AgentRepository,
	conversationRepo repositories.ConversationRepository,
	backupRepo repositories.BackupRepository,
	logger *zap.Logger,
) AgentService {
	return &agentService{
		agentRepo:        agentRepo,
		conversationRepo: conversationRepo,
		backupRepo:       backupRepo,
		logger:           logger,
	}
}

// Create persists a new agent with an empty prompt map.
// Returns ErrDuplicate if the name is already taken.
func (s *agentService) Create(ctx context.Context, name, systemPrompt string) error {
	_, err := s.agentRepo.GetByName(ctx, name)
	if err == nil {
		return fmt.Errorf("agent %q: %w", name, apperrors.ErrDuplicate)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	return s.agentRepo.Create(ctx, models.NewAgent(name, systemPrompt))
}

// Delete removes an agent after staging its linked conversations in the
// backup store. Steps are ordered, not atomic: backup, delete conversations,
// delete agent. A crash between steps leaves a partially-applied state that
// Recover can repair.
func (s *agentService) Delete(ctx context.Context, name string) error {
	agent, err := s.agentRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("agent %q: %w", name, apperrors.ErrAgentNotFound)
		}
		return err
	}

	linked, err := s.conversationRepo.GetByAgentName(ctx, agent.Name)
	if err != nil {
		return err
	}

	if len(linked) > 0 {
		if err := s.backupRepo.Backup(ctx, linked); err != nil {
			return fmt.Errorf("failed to backup conversations for agent %q: %w", name, err)
		}
		if err := s.conversationRepo.DeleteByAgentName(ctx, agent.Name); err != nil {
			// Conversations now exist in both stores. Leave the duplicates:
			// the primary copy is still authoritative and the agent survives.
			s.logger.Warn("Conversations backed up but not removed from primary store",
				zap.String("agent", name),
				zap.Int("conversations", len(linked)),
				zap.Error(err))
			return err
		}
	}

	if err := s.agentRepo.Delete(ctx, agent.Name); err != nil {
		s.logger.Warn("Conversations removed but agent record remains",
			zap.String("agent", name),
			zap.Error(err))
		return err
	}

	s.logger.Info("Deleted agent",
		zap.String("agent", name),
		zap.Int("backed_up_conversations", len(linked)))
	return nil
}

// Edit renames an agent and/or changes its system prompt, then propagates
// both into every linked conversation: agent_name is re-pointed and the
// content of each conversation's system message is rewritten.
func (s *agentService) Edit(ctx context.Context, oldName, newName, newSystemPrompt string) error {
	agentToEdit, err := s.agentRepo.GetByName(ctx, oldName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("agent %q: %w", oldName, apperrors.ErrAgentNotFound)
		}
		return err
	}

	if newName != oldName {
		_, err := s.agentRepo.GetByName(ctx, newName)
		if err == nil {
			return fmt.Errorf("agent %q: %w", newName, apperrors.ErrDuplicate)
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		// Collision guard: conversations already tagged with the target name
		// would be silently absorbed by the rename.
		existing, err := s.conversationRepo.GetByAgentName(ctx, newName)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("conversations for agent %q: %w", newName, apperrors.ErrDuplicate)
		}
	}

	updated := agentToEdit.Clone()
	updated.Name = newName
	updated.SystemPrompt = newSystemPrompt

	if err := s.agentRepo.Update(ctx, oldName, updated); err != nil {
		return err
	}

	if err := s.conversationRepo.UpdateAgentField(ctx, oldName, newName, newSystemPrompt); err != nil {
		s.compensate(ctx, "edit", err, func() error {
			delErr := s.agentRepo.Delete(ctx, newName)
			if errors.Is(delErr, apperrors.ErrNotFound) {
				return nil
			}
			return delErr
		})
		return fmt.Errorf("failed to propagate agent rename: %w", err)
	}

	s.logger.Info("Edited agent",
		zap.String("old_name", oldName),
		zap.String("new_name", newName))
	return nil
}

// Recover recreates a deleted agent and moves its backed-up conversations
// back into the primary store, purging the backup on success.
func (s *agentService) Recover(ctx context.Context, name, systemPrompt string) error {
	_, err := s.agentRepo.GetByName(ctx, name)
	if err == nil {
		return fmt.Errorf("agent %q: %w", name, apperrors.ErrDuplicate)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	agent := models.NewAgent(name, systemPrompt)
	if err := s.agentRepo.Create(ctx, agent); err != nil {
		return err
	}

	backedUp, err := s.backupRepo.GetByAgentName(ctx, name)
	if err != nil {
		s.compensate(ctx, "recover", err, func() error {
			return s.deleteIgnoreMissing(ctx, name)
		})
		return err
	}
	if len(backedUp) == 0 {
		s.compensate(ctx, "recover", nil, func() error {
			return s.deleteIgnoreMissing(ctx, name)
		})
		return fmt.Errorf("no backup for agent %q: %w", name, apperrors.ErrNotFound)
	}

	for _, conv := range backedUp {
		if err := s.conversationRepo.Create(ctx, conv); err != nil {
			s.compensate(ctx, "recover", err, func() error {
				if delErr := s.conversationRepo.DeleteByAgentName(ctx, name); delErr != nil {
					return delErr
				}
				return s.deleteIgnoreMissing(ctx, name)
			})
			return fmt.Errorf("failed to reinsert backed-up conversation: %w", err)
		}
	}

	if err := s.backupRepo.DeleteByAgentName(ctx, name); err != nil {
		// Recovery itself succeeded; stale backup entries remain and will be
		// overwritten by the next delete of this agent.
		s.logger.Warn("Recovered agent but failed to purge backup",
			zap.String("agent", name),
			zap.Error(err))
		return err
	}

	s.logger.Info("Recovered agent",
		zap.String("agent", name),
		zap.Int("conversations", len(backedUp)))
	return nil
}

// GetAll returns all agents.
func (s *agentService) GetAll(ctx context.Context) ([]*models.Agent, error) {
	return s.agentRepo.GetAll(ctx)
}

// GetOne returns the agent with the given name.
func (s *agentService) GetOne(ctx context.Context, name string) (*models.Agent, error) {
	agent, err := s.agentRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("agent %q: %w", name, apperrors.ErrAgentNotFound)
		}
		return nil, err
	}
	return agent, nil
}

// AddDatasetGenerationPrompt stores a labeled dataset generation prompt on
// the agent, overwriting any prompt already stored under that label.
func (s *agentService) AddDatasetGenerationPrompt(ctx context.Context, agentName, label, prompt string) error {
	agent, err := s.GetOne(ctx, agentName)
	if err != nil {
		return err
	}

	updated := agent.Clone()
	updated.DatasetGenerationPrompts[label] = prompt

	return s.agentRepo.Update(ctx, agentName, updated)
}

// DeleteDatasetGenerationPrompt removes the prompt stored under label.
func (s *agentService) DeleteDatasetGenerationPrompt(ctx context.Context, agentName, label string) error {
	agent, err := s.GetOne(ctx, agentName)
	if err != nil {
		return err
	}

	if _, ok := agent.DatasetGenerationPrompts[label]; !ok {
		return fmt.Errorf("prompt label %q on agent %q: %w", label, agentName, apperrors.ErrNotFound)
	}

	updated := agent.Clone()
	delete(updated.DatasetGenerationPrompts, label)

	return s.agentRepo.Update(ctx, agentName, updated)
}

// deleteIgnoreMissing deletes the agent record, treating an already-missing
// record as success so compensations stay idempotent.
func (s *agentService) deleteIgnoreMissing(ctx context.Context, name string) error {
	err := s.agentRepo.Delete(ctx, name)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return err
}

// compensate runs a compensating action with retries. The secondary error,
// if any, is logged and dropped so the caller can return the original cause.
func (s *agentService) compensate(ctx context.Context, op string, cause error, fn func() error) {
	if err := retry.Do(ctx, retry.DefaultConfig(), fn); err != nil {
		s.logger.Error("Compensating action failed, stores may be inconsistent",
			zap.String("operation", op),
			zap.NamedError("cause", cause),
			zap.Error(err))
	}
}

// Ensure agentService implements AgentService at compile time.
var _ AgentService = (*agentService)(nil)
