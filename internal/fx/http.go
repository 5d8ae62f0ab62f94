package fx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// HTTPProvider pulls the rate from an external quote service.
type HTTPProvider struct {
	BaseURL string
	Client  *http.Client
}

type responseBody struct {
	Rate   float64 `json:"rate"`
	Source string  `json:"source"`
}

func (p HTTPProvider) CurrentRate(ctx context.Context) (Quote, error) {
	if p.Client == nil {
		p.Client = &http.Client{Timeout: 15 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/rates/usd-ars", nil)
	if err != nil {
		return Quote{}, err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Quote{}, errors.New("fx service error")
	}

	var r responseBody
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return Quote{}, err
	}
	if r.Rate <= 0 {
		return Quote{}, errors.New("fx service returned non-positive rate")
	}

	quote := Quote{Rate: r.Rate, Source: r.Source}
	if quote.Source == "" {
		quote.Source = p.BaseURL
	}
	return quote, nil
}
