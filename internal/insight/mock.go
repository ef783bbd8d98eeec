package insight

import (
	"context"

	"fjacquet/revenue-dash/internal/kpi"
	"fjacquet/revenue-dash/internal/models"
)

// MockClient returns a fixed summary, for testing.
type MockClient struct {
	Text  string
	Err   error
	Calls  int
	Closed bool
}

// Summarize returns m.Text or m.Err.
func (m *MockClient) Summarize(_ context.Context, _ kpi.Summary, _ []models.CanonicalRecord) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Text, nil
}

// Close records that the client was released.
func (m *MockClient) Close() error {
	m.Closed = true
	return nil
}
