package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/justai-labs/justai-engine/pkg/apperrors"
	"github.com/justai-labs/justai-engine/pkg/database"
	"github.com/justai-labs/justai-engine/pkg/models"
)

// BackupRepository provides access to the conversation backup staging area.
// Backups exist only between an agent/conversation deletion and a possible
// recovery; they carry no lifecycle of their own.
type BackupRepository interface {
	Backup(ctx context.Context, conversations []*models.Conversation) error
	GetByAgentName(ctx context.Context, agentName string) ([]*models.Conversation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	DeleteByAgentName(ctx context.Context, agentName string) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// backupRepository implements BackupRepository using PostgreSQL.
type backupRepository struct {
	db *database.DB
}

// NewBackupRepository creates a new backup repository.
func NewBackupRepository(db *database.DB) BackupRepository {
	return &backupRepository{db: db}
}

func (r *backupRepository) Backup(ctx context.Context, conversations []*models.Conversation) error {
	batch := &pgx.Batch{}

	for _, conv := range conversations {
		messagesJSON, err := json.Marshal(conv.Messages)
		if err != nil {
			return fmt.Errorf("failed to marshal messages: %w", err)
		}

		tags := conv.Tags
		if tags == nil {
			tags = []string{}
		}

		batch.Queue(`
			INSERT INTO conversation_backups (id, agent_name, messages, tags)
			VALUES ($1, $2, $3, $4)`,
			conv.ID, conv.AgentName, messagesJSON, tags)
	}

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to backup conversations: %w", err)
	}

	return nil
}

func (r *backupRepository) GetByAgentName(ctx context.Context, agentName string) ([]*models.Conversation, error) {
	query := `
		SELECT id, agent_name, messages, tags
		FROM conversation_backups
		WHERE agent_name = $1
		ORDER BY backed_up_at`

	rows, err := r.db.Query(ctx, query, agentName)
	if err != nil {
		return nil, fmt.Errorf("failed to query backups: %w", err)
	}
	defer rows.Close()

	return scanConversationRows(rows)
}

func (r *backupRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	// A conversation can be backed up more than once; take the latest snapshot.
	query := `
		SELECT id, agent_name, messages, tags
		FROM conversation_backups
		WHERE id = $1
		ORDER BY backed_up_at DESC
		LIMIT 1`

	conv, err := scanConversationRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("backup for conversation %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, err
	}

	return conv, nil
}

func (r *backupRepository) DeleteByAgentName(ctx context.Context, agentName string) error {
	query := `DELETE FROM conversation_backups WHERE agent_name = $1`

	if _, err := r.db.Exec(ctx, query, agentName); err != nil {
		return fmt.Errorf("failed to delete backups: %w", err)
	}

	return nil
}

func (r *backupRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM conversation_backups WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete backup: %w", err)
	}

	return nil
}

// Ensure backupRepository implements BackupRepository at compile time.
var _ BackupRepository = (*backupRepository)(nil)
