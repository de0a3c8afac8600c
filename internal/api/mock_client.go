package api

import (
	"context"
	"sync"

	"github.com/diogo/lgclient/internal/models"
)

// MockClient is a mock implementation of Requester for testing
type MockClient struct {
	// Result is returned from every MakeRequest call
	Result models.Result
	// Block, when non-nil, makes MakeRequest wait until it is closed or the
	// context is done
	Block chan struct{}
	// Panic, when non-nil, is raised from MakeRequest
	Panic any

	mu              sync.Mutex
	calls           int
	lastAssistantID string
	lastMessages    []models.Message
}

// Ensure MockClient implements Requester
var _ Requester = (*MockClient)(nil)

// MakeRequest records the call and returns the configured Result
func (m *MockClient) MakeRequest(ctx context.Context, assistantID string, messages []models.Message) models.Result {
	m.mu.Lock()
	m.calls++
	m.lastAssistantID = assistantID
	m.lastMessages = append([]models.Message(nil), messages...)
	block := m.Block
	p := m.Panic
	m.mu.Unlock()

	if p != nil {
		panic(p)
	}

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return models.Failed(ctx.Err())
		}
	}

	return m.Result
}

// Calls returns how many times MakeRequest was called
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastAssistantID returns the assistant ID of the most recent call
func (m *MockClient) LastAssistantID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastAssistantID
}

// LastMessages returns the messages of the most recent call
func (m *MockClient) LastMessages() []models.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Message(nil), m.lastMessages...)
}
