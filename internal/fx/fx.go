package fx

import "context"

// Quote is one USD→ARS conversion rate snapshot.
type Quote struct {
	Rate   float64 `json:"rate"`
	Source string  `json:"source"`
}

// Provider supplies the current exchange rate. The engine never calls it:
// the rate enters the system only through the rate table's exchangeRate key,
// refreshed explicitly by an administrator.
type Provider interface {
	CurrentRate(ctx context.Context) (Quote, error)
}
