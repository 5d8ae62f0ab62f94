package fx

import "context"

// MockProvider serves a fixed rate for local development and tests.
type MockProvider struct {
	Rate float64
}

func (m MockProvider) CurrentRate(ctx context.Context) (Quote, error) {
	rate := m.Rate
	if rate <= 0 {
		rate = 1000
	}
	return Quote{Rate: rate, Source: "mock"}, nil
}
