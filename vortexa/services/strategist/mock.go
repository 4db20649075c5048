package strategist

import "context"

// MockClient implements Client for tests.
type MockClient struct {
	GenerateFunc func(ctx context.Context, req Request) (*Reply, error)
}

func (m *MockClient) GenerateStrategy(ctx context.Context, req Request) (*Reply, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &Reply{Text: "mock strategy"}, nil
}
