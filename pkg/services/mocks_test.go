package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/justai-labs/justai-engine/pkg/apperrors"
	"github.com/justai-labs/justai-engine/pkg/models"
	"github.com/justai-labs/justai-engine/pkg/repositories"
)

// In-memory fakes with the same error semantics as the Postgres
// repositories, plus injectable failures for exercising rollback paths.

func mustNewUUID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.NewRandom()
	if err != nil {
		t.Fatalf("uuid generation failed: %v", err)
	}
	return id
}

type fakeAgentRepo struct {
	agents map[string]*models.Agent

	createErr error
	updateErr error
	deleteErr error
}

func newFakeAgentRepo() *fakeAgentRepo {
	return &fakeAgentRepo{agents: make(map[string]*models.Agent)}
}

func (f *fakeAgentRepo) Create(ctx context.Context, agent *models.Agent) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.agents[agent.Name]; ok {
		return fmt.Errorf("agent %q: %w", agent.Name, apperrors.ErrDuplicate)
	}
	f.agents[agent.Name] = agent.Clone()
	return nil
}

func (f *fakeAgentRepo) GetByName(ctx context.Context, name string) (*models.Agent, error) {
	agent, ok := f.agents[name]
	if !ok {
		return nil, fmt.Errorf("agent %q: %w", name, apperrors.ErrNotFound)
	}
	return agent.Clone(), nil
}

func (f *fakeAgentRepo) GetAll(ctx context.Context) ([]*models.Agent, error) {
	var out []*models.Agent
	for _, a := range f.agents {
		out = append(out, a.Clone())
	}
	return out, nil
}

func (f *fakeAgentRepo) Update(ctx context.Context, oldName string, agent *models.Agent) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.agents[oldName]; !ok {
		return fmt.Errorf("agent %q: %w", oldName, apperrors.ErrNotFound)
	}
	delete(f.agents, oldName)
	f.agents[agent.Name] = agent.Clone()
	return nil
}

func (f *fakeAgentRepo) Delete(ctx context.Context, name string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.agents[name]; !ok {
		return fmt.Errorf("agent %q: %w", name, apperrors.ErrNotFound)
	}
	delete(f.agents, name)
	return nil
}

var _ repositories.AgentRepository = (*fakeAgentRepo)(nil)

type fakeConversationRepo struct {
	conversations []*models.Conversation

	createErr           error
	updateErr           error
	updateAgentFieldErr error
	deleteErr           error
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{}
}

func (f *fakeConversationRepo) Create(ctx context.Context, conv *models.Conversation) error {
	if f.createErr != nil {
		return f.createErr
	}
	if conv.ID == uuid.Nil {
		conv.ID = uuid.New()
	}
	f.conversations = append(f.conversations, conv.Clone())
	return nil
}

func (f *fakeConversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	for _, c := range f.conversations {
		if c.ID == id {
			return c.Clone(), nil
		}
	}
	return nil, fmt.Errorf("conversation %s: %w", id, apperrors.ErrNotFound)
}

func (f *fakeConversationRepo) GetAll(ctx context.Context) ([]*models.Conversation, error) {
	out := make([]*models.Conversation, 0, len(f.conversations))
	for _, c := range f.conversations {
		out = append(out, c.Clone())
	}
	return out, nil
}

func (f *fakeConversationRepo) GetByAgentName(ctx context.Context, agentName string) ([]*models.Conversation, error) {
	var out []*models.Conversation
	for _, c := range f.conversations {
		if c.AgentName == agentName {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

func (f *fakeConversationRepo) Update(ctx context.Context, conv *models.Conversation) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for i, c := range f.conversations {
		if c.ID == conv.ID {
			f.conversations[i] = conv.Clone()
			return nil
		}
	}
	return fmt.Errorf("conversation %s: %w", conv.ID, apperrors.ErrNotFound)
}

func (f *fakeConversationRepo) UpdateAgentField(ctx context.Context, oldName, newName, newSystemPrompt string) error {
	if f.updateAgentFieldErr != nil {
		return f.updateAgentFieldErr
	}
	for _, c := range f.conversations {
		if c.AgentName == oldName {
			c.AgentName = newName
			c.SetSystemMessageContent(newSystemPrompt)
		}
	}
	return nil
}

func (f *fakeConversationRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, c := range f.conversations {
		if c.ID == id {
			f.conversations = append(f.conversations[:i], f.conversations[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("conversation %s: %w", id, apperrors.ErrNotFound)
}

func (f *fakeConversationRepo) DeleteByAgentName(ctx context.Context, agentName string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	var kept []*models.Conversation
	for _, c := range f.conversations {
		if c.AgentName != agentName {
			kept = append(kept, c)
		}
	}
	f.conversations = kept
	return nil
}

var _ repositories.ConversationRepository = (*fakeConversationRepo)(nil)

type fakeBackupRepo struct {
	backups []*models.Conversation

	backupErr error
	getErr    error
	deleteErr error
}

func newFakeBackupRepo() *fakeBackupRepo {
	return &fakeBackupRepo{}
}

func (f *fakeBackupRepo) Backup(ctx context.Context, conversations []*models.Conversation) error {
	if f.backupErr != nil {
		return f.backupErr
	}
	for _, c := range conversations {
		f.backups = append(f.backups, c.Clone())
	}
	return nil
}

func (f *fakeBackupRepo) GetByAgentName(ctx context.Context, agentName string) ([]*models.Conversation, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	var out []*models.Conversation
	for _, c := range f.backups {
		if c.AgentName == agentName {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

func (f *fakeBackupRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for i := len(f.backups) - 1; i >= 0; i-- {
		if f.backups[i].ID == id {
			return f.backups[i].Clone(), nil
		}
	}
	return nil, fmt.Errorf("backup for conversation %s: %w", id, apperrors.ErrNotFound)
}

func (f *fakeBackupRepo) DeleteByAgentName(ctx context.Context, agentName string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	var kept []*models.Conversation
	for _, c := range f.backups {
		if c.AgentName != agentName {
			kept = append(kept, c)
		}
	}
	f.backups = kept
	return nil
}

func (f *fakeBackupRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	var kept []*models.Conversation
	for _, c := range f.backups {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	f.backups = kept
	return nil
}

var _ repositories.BackupRepository = (*fakeBackupRepo)(nil)

type fakeUserRepo struct {
	users map[string]*models.User

	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.users[user.UserName]; ok {
		return fmt.Errorf("user %q: %w", user.UserName, apperrors.ErrDuplicate)
	}
	f.users[user.UserName] = &models.User{UserName: user.UserName}
	return nil
}

func (f *fakeUserRepo) GetByName(ctx context.Context, userName string) (*models.User, error) {
	user, ok := f.users[userName]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", userName, apperrors.ErrNotFound)
	}
	return &models.User{UserName: user.UserName}, nil
}

func (f *fakeUserRepo) GetAll(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.users {
		out = append(out, &models.User{UserName: u.UserName})
	}
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, oldName string, user *models.User) error {
	if _, ok := f.users[oldName]; !ok {
		return fmt.Errorf("user %q: %w", oldName, apperrors.ErrNotFound)
	}
	delete(f.users, oldName)
	f.users[user.UserName] = &models.User{UserName: user.UserName}
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, userName string) error {
	if _, ok := f.users[userName]; !ok {
		return fmt.Errorf("user %q: %w", userName, apperrors.ErrNotFound)
	}
	delete(f.users, userName)
	return nil
}

var _ repositories.UserRepository = (*fakeUserRepo)(nil)

type fakeFeedbackRepo struct {
	entries map[uuid.UUID]*models.Feedback

	createErr error
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{entries: make(map[uuid.UUID]*models.Feedback)}
}

func copyFeedback(fb *models.Feedback) *models.Feedback {
	tags := make([]models.FeedbackTag, len(fb.Tags))
	copy(tags, fb.Tags)
	out := *fb
	out.Tags = tags
	return &out
}

func (f *fakeFeedbackRepo) Create(ctx context.Context, fb *models.Feedback) error {
	if f.createErr != nil {
		return f.createErr
	}
	if fb.ID == uuid.Nil {
		fb.ID = uuid.New()
	}
	f.entries[fb.ID] = copyFeedback(fb)
	return nil
}

func (f *fakeFeedbackRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Feedback, error) {
	fb, ok := f.entries[id]
	if !ok {
		return nil, fmt.Errorf("feedback %s: %w", id, apperrors.ErrNotFound)
	}
	return copyFeedback(fb), nil
}

func (f *fakeFeedbackRepo) GetAll(ctx context.Context) ([]*models.Feedback, error) {
	var out []*models.Feedback
	for _, fb := range f.entries {
		out = append(out, copyFeedback(fb))
	}
	return out, nil
}

func (f *fakeFeedbackRepo) Update(ctx context.Context, fb *models.Feedback) error {
	existing, ok := f.entries[fb.ID]
	if !ok {
		return fmt.Errorf("feedback %s: %w", fb.ID, apperrors.ErrNotFound)
	}
	updated := copyFeedback(fb)
	// user_name and created_at are immutable at the store layer too.
	updated.UserName = existing.UserName
	updated.CreatedAt = existing.CreatedAt
	f.entries[fb.ID] = updated
	return nil
}

func (f *fakeFeedbackRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.entries[id]; !ok {
		return fmt.Errorf("feedback %s: %w", id, apperrors.ErrNotFound)
	}
	delete(f.entries, id)
	return nil
}

var _ repositories.FeedbackRepository = (*fakeFeedbackRepo)(nil)
