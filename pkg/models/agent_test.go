package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgent_EmptyPromptMap(t *testing.T) {
	agent := NewAgent("Doc", "You are a doctor")

	require.NotNil(t, agent.DatasetGenerationPrompts)
	assert.Empty(t, agent.DatasetGenerationPrompts)
	assert.Equal(t, "Doc", agent.Name)
	assert.Equal(t, "You are a doctor", agent.SystemPrompt)
}

func TestAgent_Clone_Independent(t *testing.T) {
	orig := NewAgent("Doc", "You are a doctor")
	orig.DatasetGenerationPrompts["symptoms"] = "Generate a symptom dialogue"

	clone := orig.Clone()
	clone.DatasetGenerationPrompts["symptoms"] = "changed"
	clone.DatasetGenerationPrompts["extra"] = "added"

	assert.Equal(t, "Generate a symptom dialogue", orig.DatasetGenerationPrompts["symptoms"])
	assert.Len(t, orig.DatasetGenerationPrompts, 1)
}

func TestIsValidFeedbackTag(t *testing.T) {
	for _, tag := range ValidFeedbackTags {
		assert.True(t, IsValidFeedbackTag(tag), "tag %q should be valid", tag)
	}
	assert.False(t, IsValidFeedbackTag("nonsense"))
	assert.False(t, IsValidFeedbackTag(""))
}
