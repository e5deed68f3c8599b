package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/justai-labs/justai-engine/pkg/apperrors"
	"github.com/justai-labs/justai-engine/pkg/database"
	"github.com/justai-labs/justai-engine/pkg/models"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// AgentRepository provides data access for agent records.
type AgentRepository interface {
	Create(ctx context.Context, agent *models.Agent) error
	GetByName(ctx context.Context, name string) (*models.Agent, error)
	GetAll(ctx context.Context) ([]*models.Agent, error)
	// Update replaces the agent stored under oldName with agent; the name may
	// change as part of the update.
	Update(ctx context.Context, oldName string, agent *models.Agent) error
	Delete(ctx context.Context, name string) error
}

// agentRepository implements AgentRepository using PostgreSQL.
type agentRepository struct {
	db *database.DB
}

// NewAgentRepository creates a new agent repository.
func NewAgentRepository(db *database.DB) AgentRepository {
	return &agentRepository{db: db}
}

func (r *agentRepository) Create(ctx context.Context, agent *models.Agent) error {
	promptsJSON, err := json.Marshal(agent.DatasetGenerationPrompts)
	if err != nil {
		return fmt.Errorf("failed to marshal dataset_generation_prompts: %w", err)
	}

	query := `
		INSERT INTO agents (name, system_prompt, dataset_generation_prompts)
		VALUES ($1, $2, $3)`

	_, err = r.db.Exec(ctx, query, agent.Name, agent.SystemPrompt, promptsJSON)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("agent %q: %w", agent.Name, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to create agent: %w", err)
	}

	return nil
}

func (r *agentRepository) GetByName(ctx context.Context, name string) (*models.Agent, error) {
	query := `
		SELECT name, system_prompt, dataset_generation_prompts
		FROM agents
		WHERE name = $1`

	agent, err := scanAgentRow(r.db.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("agent %q: %w", name, apperrors.ErrNotFound)
		}
		return nil, err
	}

	return agent, nil
}

func (r *agentRepository) GetAll(ctx context.Context) ([]*models.Agent, error) {
	query := `
		SELECT name, system_prompt, dataset_generation_prompts
		FROM agents
		ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query agents: %w", err)
	}
	defer rows.Close()

	var agents []*models.Agent
	for rows.Next() {
		agent, err := scanAgentRow(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating agents: %w", err)
	}

	return agents, nil
}

func (r *agentRepository) Update(ctx context.Context, oldName string, agent *models.Agent) error {
	promptsJSON, err := json.Marshal(agent.DatasetGenerationPrompts)
	if err != nil {
		return fmt.Errorf("failed to marshal dataset_generation_prompts: %w", err)
	}

	query := `
		UPDATE agents
		SET name = $2, system_prompt = $3, dataset_generation_prompts = $4
		WHERE name = $1`

	result, err := r.db.Exec(ctx, query, oldName, agent.Name, agent.SystemPrompt, promptsJSON)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("agent %q: %w", agent.Name, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update agent: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("agent %q: %w", oldName, apperrors.ErrNotFound)
	}

	return nil
}

func (r *agentRepository) Delete(ctx context.Context, name string) error {
	query := `DELETE FROM agents WHERE name = $1`

	result, err := r.db.Exec(ctx, query, name)
	if err != nil {
		return fmt.Errorf("failed to delete agent: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("agent %q: %w", name, apperrors.ErrNotFound)
	}

	return nil
}

func scanAgentRow(row pgx.Row) (*models.Agent, error) {
	var agent models.Agent
	var promptsJSON []byte

	if err := row.Scan(&agent.Name, &agent.SystemPrompt, &promptsJSON); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan agent: %w", err)
	}

	agent.DatasetGenerationPrompts = make(map[string]string)
	if len(promptsJSON) > 0 {
		if err := json.Unmarshal(promptsJSON, &agent.DatasetGenerationPrompts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal dataset_generation_prompts: %w", err)
		}
	}

	return &agent, nil
}

// Ensure agentRepository implements AgentRepository at compile time.
var _ AgentRepository = (*agentRepository)(nil)
