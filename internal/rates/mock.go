package rates

import (
	"context"

	"kuzeybank-backend/internal/domain"
)

// MockProvider serves a fixed quote map. Used by tests and local setups
// without upstream access.
type MockProvider struct {
	Rates map[string]domain.Rate
	Err   error
}

func NewMockProvider(rates map[string]domain.Rate) *MockProvider {
	return &MockProvider{Rates: rates}
}

func (m *MockProvider) GetAllRates(ctx context.Context) (map[string]domain.Rate, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Rates, nil
}
