package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/justai-labs/justai-engine/pkg/llm"
	"github.com/justai-labs/justai-engine/pkg/models"
)

// SyntheticTag marks conversations produced by the generator rather than
// captured from a live chat.
const SyntheticTag = "synthetic"

// DatasetGeneratorService synthesizes training conversations for an agent
// from one of its saved dataset generation prompts.
type DatasetGeneratorService interface {
	Generate(ctx context.Context, agentName, promptLabel, userName string) (*models.Conversation, error)
}

// datasetGeneratorService implements DatasetGeneratorService.
type datasetGeneratorService struct {
	agents        AgentService
	conversations ConversationService
	client        llm.Client
	temperature   float64
	logger        *zap.Logger
}

// NewDatasetGeneratorService creates a new generator with dependencies.
func NewDatasetGeneratorService(
	agents AgentService,
	conversations ConversationService,
	client llm.Client,
	temperature float64,
	logger *zap.Logger,
) DatasetGeneratorService {
	return &datasetGeneratorService{
		agents:        agents,
		conversations: conversations,
		client:        client,
		temperature:   temperature,
		logger:        logger,
	}
}

// Generate asks the LLM to synthesize a conversation for the agent using the
// prompt stored under promptLabel, parses the transcript, prepends the
// agent's system message and stores the result tagged with the requesting
// user.
func (s *datasetGeneratorService) Generate(ctx context.Context, agentName, promptLabel, userName string) (*models.Conversation, error) {
	agent, err := s.agents.GetOne(ctx, agentName)
	if err != nil {
		return nil, err
	}

	prompt, ok := agent.DatasetGenerationPrompts[promptLabel]
	if !ok {
		return nil, fmt.Errorf("agent %q has no dataset generation prompt labeled %q", agentName, promptLabel)
	}

	raw, err := s.client.Generate(ctx, agent.SystemPrompt, prompt, s.temperature)
	if err != nil {
		return nil, fmt.Errorf("failed to generate conversation: %w", err)
	}

	turns := ParseTranscript(raw)
	if len(turns) == 0 {
		return nil, fmt.Errorf("generated transcript contains no turns")
	}

	messages := make([]models.Message, 0, len(turns)+1)
	messages = append(messages, models.Message{Role: models.RoleSystem, Content: agent.SystemPrompt})
	messages = append(messages, turns...)

	conv, err := s.conversations.Create(ctx, agentName, messages, []string{userName, SyntheticTag})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Generated synthetic conversation",
		zap.String("agent", agentName),
		zap.String("prompt_label", promptLabel),
		zap.String("model", s.client.GetModel()),
		zap.Int("turns", len(turns)))

	return conv, nil
}

// ParseTranscript splits LLM output into user/assistant turns. Lines starting
// with "user:" or "assistant:" (case-insensitive) open a new turn; other
// lines continue the current one. Output with no role markers becomes a
// single assistant turn.
func ParseTranscript(raw string) []models.Message {
	var messages []models.Message
	var current *models.Message

	flush := func() {
		if current != nil {
			current.Content = strings.TrimSpace(current.Content)
			if current.Content != "" {
				messages = append(messages, *current)
			}
			current = nil
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		switch {
		case strings.HasPrefix(lower, "user:"):
			flush()
			current = &models.Message{Role: models.RoleUser, Content: trimmed[len("user:"):]}
		case strings.HasPrefix(lower, "assistant:"):
			flush()
			current = &models.Message{Role: models.RoleAssistant, Content: trimmed[len("assistant:"):]}
		default:
			if current != nil {
				current.Content += "\n" + line
			} else if trimmed != "" {
				current = &models.Message{Role: models.RoleAssistant, Content: line}
			}
		}
	}
	flush()

	return messages
}

// Ensure datasetGeneratorService implements DatasetGeneratorService at compile time.
var _ DatasetGeneratorService = (*datasetGeneratorService)(nil)
