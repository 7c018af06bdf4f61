package mock

import (
	"context"
	"sync"
)

// defaultMockReport contains every section the report template demands, so
// facade-level tests see a structurally complete analysis.
const defaultMockReport = `Executive Summary
Mock analysis generated for testing.

List of Top Competitors
- Example Competitor A
- Example Competitor B

Industry Analysis
Placeholder industry overview.

Market Positioning
Placeholder positioning notes.

Competitive Analysis
Placeholder comparison.

Strategic Recommendations
Placeholder recommendations.

Risk Assessment
Placeholder risks.`

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields and records the
// prompts it receives for assertion.
type MockGenerator struct {
	// GenerateCompletionFunc is called by GenerateCompletion if set.
	// If nil, returns the canned report.
	GenerateCompletionFunc func(ctx context.Context, prompt string) (string, error)

	mu        sync.Mutex
	callCount int
	prompts   []string
}

// NewMockGenerator creates a mock generator with default canned behavior.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// GenerateCompletion returns the canned report, or whatever
// GenerateCompletionFunc decides.
func (m *MockGenerator) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateCompletionFunc != nil {
		return m.GenerateCompletionFunc(ctx, prompt)
	}

	return defaultMockReport, nil
}

// CallCount returns the number of times GenerateCompletion was called.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastPrompt returns the most recent prompt, or "" before any call.
// Tests use it to assert context and query made it into the template.
func (m *MockGenerator) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// Reset clears recorded calls and custom functions.
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.prompts = nil
	m.GenerateCompletionFunc = nil
}
