package llm

import (
	"context"
	"fmt"
)

// MockAssistant answers locally without hitting any API. Used in local
// mode and in tests.
type MockAssistant struct{}

func NewMockAssistant() *MockAssistant {
	return &MockAssistant{}
}

func (m *MockAssistant) Reply(ctx context.Context, userMessage string) (string, error) {
	return fmt.Sprintf("سمعتك تقول: %q. يرجى استشارة الطبيب قبل تناول أي دواء.", userMessage), nil
}
