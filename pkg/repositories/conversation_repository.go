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

// ConversationRepository provides data access for conversation records.
type ConversationRepository interface {
	// Create persists conv and assigns its store-generated id in place.
	Create(ctx context.Context, conv *models.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	GetAll(ctx context.Context) ([]*models.Conversation, error)
	GetByAgentName(ctx context.Context, agentName string) ([]*models.Conversation, error)
	// Update replaces the stored record at conv.ID wholesale.
	Update(ctx context.Context, conv *models.Conversation) error
	// UpdateAgentField re-points every conversation of oldName to newName and
	// rewrites the content of their system-role messages to newSystemPrompt.
	UpdateAgentField(ctx context.Context, oldName, newName, newSystemPrompt string) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteByAgentName(ctx context.Context, agentName string) error
}

// conversationRepository implements ConversationRepository using PostgreSQL.
type conversationRepository struct {
	db *database.DB
}

// NewConversationRepository creates a new conversation repository.
func NewConversationRepository(db *database.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(ctx context.Context, conv *models.Conversation) error {
	messagesJSON, err := json.Marshal(conv.Messages)
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}

	tags := conv.Tags
	if tags == nil {
		tags = []string{}
	}

	// Recovered conversations arrive with their original id and must keep it;
	// fresh conversations get a generated one.
	if conv.ID == uuid.Nil {
		conv.ID = uuid.New()
	}

	query := `
		INSERT INTO conversations (id, agent_name, messages, tags)
		VALUES ($1, $2, $3, $4)`

	_, err = r.db.Exec(ctx, query, conv.ID, conv.AgentName, messagesJSON, tags)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	return nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	query := `
		SELECT id, agent_name, messages, tags
		FROM conversations
		WHERE id = $1`

	conv, err := scanConversationRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("conversation %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, err
	}

	return conv, nil
}

func (r *conversationRepository) GetAll(ctx context.Context) ([]*models.Conversation, error) {
	query := `
		SELECT id, agent_name, messages, tags
		FROM conversations
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	return scanConversationRows(rows)
}

func (r *conversationRepository) GetByAgentName(ctx context.Context, agentName string) ([]*models.Conversation, error) {
	query := `
		SELECT id, agent_name, messages, tags
		FROM conversations
		WHERE agent_name = $1
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, agentName)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	return scanConversationRows(rows)
}

func (r *conversationRepository) Update(ctx context.Context, conv *models.Conversation) error {
	messagesJSON, err := json.Marshal(conv.Messages)
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}

	tags := conv.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `
		UPDATE conversations
		SET agent_name = $2, messages = $3, tags = $4
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query, conv.ID, conv.AgentName, messagesJSON, tags)
	if err != nil {
		return fmt.Errorf("failed to update conversation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("conversation %s: %w", conv.ID, apperrors.ErrNotFound)
	}

	return nil
}

func (r *conversationRepository) UpdateAgentField(ctx context.Context, oldName, newName, newSystemPrompt string) error {
	// Rewrites system-role message content in the JSONB array in a single
	// statement so the rename and the prompt rewrite cannot diverge per row.
	query := `
		UPDATE conversations
		SET agent_name = $2,
		    messages = COALESCE(
		        (SELECT jsonb_agg(
		            CASE WHEN m->>'role' = 'system'
		                 THEN jsonb_set(m, '{content}', to_jsonb($3::text))
		                 ELSE m
		            END)
		         FROM jsonb_array_elements(messages) AS m),
		        '[]'::jsonb)
		WHERE agent_name = $1`

	_, err := r.db.Exec(ctx, query, oldName, newName, newSystemPrompt)
	if err != nil {
		return fmt.Errorf("failed to update conversations for agent rename: %w", err)
	}

	return nil
}

func (r *conversationRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM conversations WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("conversation %s: %w", id, apperrors.ErrNotFound)
	}

	return nil
}

func (r *conversationRepository) DeleteByAgentName(ctx context.Context, agentName string) error {
	query := `DELETE FROM conversations WHERE agent_name = $1`

	// Zero rows is fine here: an agent may have no conversations.
	if _, err := r.db.Exec(ctx, query, agentName); err != nil {
		return fmt.Errorf("failed to delete conversations: %w", err)
	}

	return nil
}

func scanConversationRows(rows pgx.Rows) ([]*models.Conversation, error) {
	var conversations []*models.Conversation

	for rows.Next() {
		conv, err := scanConversationRow(rows)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}

	return conversations, nil
}

func scanConversationRow(row pgx.Row) (*models.Conversation, error) {
	var conv models.Conversation
	var messagesJSON []byte

	err := row.Scan(&conv.ID, &conv.AgentName, &messagesJSON, &conv.Tags)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan conversation: %w", err)
	}

	if len(messagesJSON) > 0 {
		if err := json.Unmarshal(messagesJSON, &conv.Messages); err != nil {
			return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
		}
	}

	return &conv, nil
}

// Ensure conversationRepository implements ConversationRepository at compile time.
var _ ConversationRepository = (*conversationRepository)(nil)
