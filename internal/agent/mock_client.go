package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockClient replays canned responses for tests without a live backend.
// Responses are keyed by a substring of the prompt, so one mock can serve
// drafting, judging, and derivation calls in a single run.
type MockClient struct {
	lock      sync.Mutex
	responses map[string]string
	err       error
	prompts   []string
}

// NewMockClient builds a mock whose responses are selected by prompt
// substring.
func NewMockClient(responses map[string]string) *MockClient {
	return &MockClient{responses: responses}
}

// FailWith makes every subsequent Generate call return err.
func (m *MockClient) FailWith(err error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.err = err
}

// Respond adds or replaces the canned response for a prompt marker.
func (m *MockClient) Respond(marker, response string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.responses == nil {
		m.responses = make(map[string]string)
	}
	m.responses[marker] = response
}

// Generate records the prompt and returns the first canned response whose
// marker the prompt contains.
func (m *MockClient) Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	for marker, response := range m.responses {
		if strings.Contains(prompt, marker) {
			return response, nil
		}
	}
	return "", fmt.Errorf("mock: no scripted response matches prompt (len %d)", len(prompt))
}

// Prompts returns every prompt seen so far.
func (m *MockClient) Prompts() []string {
	m.lock.Lock()
	defer m.lock.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// CallsContaining counts recorded prompts that contain marker.
func (m *MockClient) CallsContaining(marker string) int {
	m.lock.Lock()
	defer m.lock.Unlock()
	n := 0
	for _, p := range m.prompts {
		if strings.Contains(p, marker) {
			n++
		}
	}
	return n
}
