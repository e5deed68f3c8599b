package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/justai-labs/justai-engine/pkg/models"
	"github.com/justai-labs/justai-engine/pkg/services"
)

// mockAgentService implements services.AgentService for handler tests.
type mockAgentService struct {
	agents []*models.Agent
	agent  *models.Agent
	err    error

	createdName   string
	createdPrompt string
	deletedName   string
}

func (m *mockAgentService) Create(ctx context.Context, name, systemPrompt string) error {
	m.createdName = name
	m.createdPrompt = systemPrompt
	return m.err
}

func (m *mockAgentService) Delete(ctx context.Context, name string) error {
	m.deletedName = name
	return m.err
}

func (m *mockAgentService) Edit(ctx context.Context, oldName, newName, newSystemPrompt string) error {
	return m.err
}

func (m *mockAgentService) Recover(ctx context.Context, name, systemPrompt string) error {
	return m.err
}

func (m *mockAgentService) GetAll(ctx context.Context) ([]*models.Agent, error) {
	return m.agents, m.err
}

func (m *mockAgentService) GetOne(ctx context.Context, name string) (*models.Agent, error) {
	return m.agent, m.err
}

func (m *mockAgentService) AddDatasetGenerationPrompt(ctx context.Context, agentName, label, prompt string) error {
	return m.err
}

func (m *mockAgentService) DeleteDatasetGenerationPrompt(ctx context.Context, agentName, label string) error {
	return m.err
}

var _ services.AgentService = (*mockAgentService)(nil)

// mockConversationService implements services.ConversationService for
// handler tests.
type mockConversationService struct {
	conversations []*models.Conversation
	conversation  *models.Conversation
	err           error
}

func (m *mockConversationService) Create(ctx context.Context, agentName string, messages []models.Message, tags []string) (*models.Conversation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.conversation, nil
}

func (m *mockConversationService) GetAll(ctx context.Context) ([]*models.Conversation, error) {
	return m.conversations, m.err
}

func (m *mockConversationService) GetByAgentName(ctx context.Context, agentName string) ([]*models.Conversation, error) {
	return m.conversations, m.err
}

func (m *mockConversationService) DeleteByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.conversation, nil
}

func (m *mockConversationService) ModifyMessages(ctx context.Context, id uuid.UUID, newMessages []models.Message, newTags []string) error {
	return m.err
}

func (m *mockConversationService) Overwrite(ctx context.Context, conv *models.Conversation, label string) error {
	return m.err
}

func (m *mockConversationService) Recover(ctx context.Context, id uuid.UUID) error {
	return m.err
}

func (m *mockConversationService) SearchByTag(conversations []*models.Conversation, tag string) []*models.Conversation {
	var matched []*models.Conversation
	for _, conv := range conversations {
		if conv.HasTag(tag) {
			matched = append(matched, conv)
		}
	}
	return matched
}

func (m *mockConversationService) ExtractLabels(conversations []*models.Conversation) map[string]*models.Conversation {
	return nil
}

var _ services.ConversationService = (*mockConversationService)(nil)

// mockGeneratorService implements services.DatasetGeneratorService for
// handler tests.
type mockGeneratorService struct {
	conversation *models.Conversation
	err          error
}

func (m *mockGeneratorService) Generate(ctx context.Context, agentName, promptLabel, userName string) (*models.Conversation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.conversation, nil
}

var _ services.DatasetGeneratorService = (*mockGeneratorService)(nil)

// mockUserService implements services.UserService for handler tests.
type mockUserService struct {
	users []*models.User
	user  *models.User
	err   error
}

func (m *mockUserService) Create(ctx context.Context, userName string) error { return m.err }

func (m *mockUserService) GetAll(ctx context.Context) ([]*models.User, error) {
	return m.users, m.err
}

func (m *mockUserService) Get(ctx context.Context, userName string) (*models.User, error) {
	return m.user, m.err
}

func (m *mockUserService) Delete(ctx context.Context, userName string) error { return m.err }

func (m *mockUserService) Edit(ctx context.Context, currentUserName, newUserName string) error {
	return m.err
}

var _ services.UserService = (*mockUserService)(nil)

// mockFeedbackService implements services.FeedbackService for handler tests.
type mockFeedbackService struct {
	entries []*models.Feedback
	entry   *models.Feedback
	err     error
}

func (m *mockFeedbackService) Create(ctx context.Context, label, userName, content string, tags []models.FeedbackTag, rating int, createdAt time.Time) (*models.Feedback, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entry, nil
}

func (m *mockFeedbackService) GetAll(ctx context.Context) ([]*models.Feedback, error) {
	return m.entries, m.err
}

func (m *mockFeedbackService) Get(ctx context.Context, id uuid.UUID) (*models.Feedback, error) {
	return m.entry, m.err
}

func (m *mockFeedbackService) Delete(ctx context.Context, id uuid.UUID) error { return m.err }

func (m *mockFeedbackService) Edit(ctx context.Context, id uuid.UUID, newLabel, newContent string, newTags []models.FeedbackTag, newRating int) error {
	return m.err
}

var _ services.FeedbackService = (*mockFeedbackService)(nil)
