package llm

import "context"

// MockClient is a configurable Client for tests.
type MockClient struct {
	Response string
	Err      error
	Model    string

	// Captured inputs for verification
	CapturedSystemMessage string
	CapturedPrompt        string
	CapturedTemperature   float64
	Calls                 int
}

// Generate returns the configured response or error.
func (m *MockClient) Generate(ctx context.Context, systemMessage, prompt string, temperature float64) (string, error) {
	m.Calls++
	m.CapturedSystemMessage = systemMessage
	m.CapturedPrompt = prompt
	m.CapturedTemperature = temperature
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// GetModel returns the configured model name.
func (m *MockClient) GetModel() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

// Ensure MockClient implements Client at compile time.
var _ Client = (*MockClient)(nil)
