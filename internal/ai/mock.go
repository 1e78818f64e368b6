package ai

import (
	"context"
	"sync"
)

// MockProvider is a test double. Responses are served from the Script in
// order, repeating the last entry once the script is exhausted; an empty
// script serves Response/Err. Safe for concurrent use.
type MockProvider struct {
	Response string
	Err      error
	Script   []ScriptStep

	mu    sync.Mutex
	calls int
}

// ScriptStep is one scripted outcome for a MockProvider call.
type ScriptStep struct {
	Response string
	Err      error
}

// NewMockProvider creates a MockProvider that always returns response.
func NewMockProvider(response string) *MockProvider {
	return &MockProvider{Response: response}
}

func (m *MockProvider) Complete(_ context.Context, _ CompletionRequest) (CompletionResponse, error) {
	m.mu.Lock()
	step := ScriptStep{Response: m.Response, Err: m.Err}
	if len(m.Script) > 0 {
		i := m.calls
		if i >= len(m.Script) {
			i = len(m.Script) - 1
		}
		step = m.Script[i]
	}
	m.calls++
	m.mu.Unlock()

	if step.Err != nil {
		return CompletionResponse{}, step.Err
	}
	return CompletionResponse{
		Content:      step.Response,
		Model:        "mock",
		InputTokens:  10,
		OutputTokens: len(step.Response),
	}, nil
}

// Calls returns how many times Complete was invoked.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockProvider) Models() []ModelInfo {
	return []ModelInfo{
		{ID: "mock", Name: "Mock Model", MaxTokens: 4096, Description: "Test mock"},
	}
}

func (m *MockProvider) HealthCheck(_ context.Context) error {
	return m.Err
}
