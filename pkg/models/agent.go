package models

// Agent represents a named LLM persona. The name doubles as the primary key;
// conversations reference agents by name so renames must be propagated by the
// service layer.
type Agent struct {
	Name                     string            `json:"name"`
	SystemPrompt             string            `json:"system_prompt"`
	DatasetGenerationPrompts map[string]string `json:"dataset_generation_prompts"`
}

// NewAgent creates an agent with an empty prompt map.
func NewAgent(name, systemPrompt string) *Agent {
	return &Agent{
		Name:                     name,
		SystemPrompt:             systemPrompt,
		DatasetGenerationPrompts: make(map[string]string),
	}
}

// Clone returns a deep copy. Services mutate copies and persist them whole,
// so the stored original must never be aliased.
func (a *Agent) Clone() *Agent {
	prompts := make(map[string]string, len(a.DatasetGenerationPrompts))
	for label, prompt := range a.DatasetGenerationPrompts {
		prompts[label] = prompt
	}
	return &Agent{
		Name:                     a.Name,
		SystemPrompt:             a.SystemPrompt,
		DatasetGenerationPrompts: prompts,
	}
}
