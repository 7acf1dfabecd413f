package solver

import (
	"beat-planning-service/internal/ports"
	"context"
	"encoding/json"
	"sync"
)

// MockSolver returns canned responses and records what it was asked.
type MockSolver struct {
	mu sync.Mutex

	Response json.RawMessage
	Err      error

	Solves   []ports.SolveRequest
	Checkins []ports.CheckinRequest
	Tokens   []string
}

func NewMockSolver(response string) *MockSolver {
	return &MockSolver{Response: json.RawMessage(response)}
}

func (m *MockSolver) SolveBeatPlanning(ctx context.Context, req ports.SolveRequest) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Solves = append(m.Solves, req)
	return m.answer()
}

func (m *MockSolver) Checkin(ctx context.Context, token string, req ports.CheckinRequest) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Checkins = append(m.Checkins, req)
	m.Tokens = append(m.Tokens, token)
	return m.answer()
}

func (m *MockSolver) AdminMetrics(ctx context.Context, token string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Tokens = append(m.Tokens, token)
	return m.answer()
}

func (m *MockSolver) answer() (json.RawMessage, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return append(json.RawMessage(nil), m.Response...), nil
}
