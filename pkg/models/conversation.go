package models

import (
	"strings"

	"github.com/google/uuid"
)

// Message role constants. These match the OpenAI chat roles the datasets are
// exported against.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// LabelTagPrefix marks a conversation tag that carries a human-friendly
// display name, e.g. "label: onboarding chat".
const LabelTagPrefix = "label: "

// Message is a single turn in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is an ordered transcript linked to an agent by name. Tags hold
// the creator's user name and at most one "label: "-prefixed display name.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	AgentName string    `json:"agent_name"`
	Messages  []Message `json:"messages"`
	Tags      []string  `json:"tags"`
}

// NewConversation creates a conversation without a store-assigned id.
func NewConversation(agentName string, messages []Message, tags []string) *Conversation {
	return &Conversation{
		AgentName: agentName,
		Messages:  messages,
		Tags:      tags,
	}
}

// HasTag reports whether the conversation carries tag (exact, case-sensitive).
func (c *Conversation) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Label returns the display name from the first "label: "-prefixed tag, with
// the prefix stripped and surrounding whitespace trimmed. Returns "" if the
// conversation has no label tag.
func (c *Conversation) Label() (string, bool) {
	for _, t := range c.Tags {
		if strings.HasPrefix(t, LabelTagPrefix) {
			return strings.TrimSpace(strings.TrimPrefix(t, LabelTagPrefix)), true
		}
	}
	return "", false
}

// SetLabel replaces any existing label tags with a single tag for label.
func (c *Conversation) SetLabel(label string) {
	tags := make([]string, 0, len(c.Tags)+1)
	for _, t := range c.Tags {
		if !strings.HasPrefix(t, LabelTagPrefix) {
			tags = append(tags, t)
		}
	}
	c.Tags = append(tags, LabelTagPrefix+label)
}

// SystemMessageContent returns the content of the first system-role message.
func (c *Conversation) SystemMessageContent() (string, bool) {
	for _, m := range c.Messages {
		if m.Role == RoleSystem {
			return m.Content, true
		}
	}
	return "", false
}

// SetSystemMessageContent rewrites the content of every system-role message.
// Used when an agent's system prompt changes and its conversations must stay
// consistent with it.
func (c *Conversation) SetSystemMessageContent(content string) {
	for i := range c.Messages {
		if c.Messages[i].Role == RoleSystem {
			c.Messages[i].Content = content
		}
	}
}

// Clone returns a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	messages := make([]Message, len(c.Messages))
	copy(messages, c.Messages)
	tags := make([]string, len(c.Tags))
	copy(tags, c.Tags)
	return &Conversation{
		ID:        c.ID,
		AgentName: c.AgentName,
		Messages:  messages,
		Tags:      tags,
	}
}
