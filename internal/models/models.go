package models

import "time"

// Ticket statuses as stored. Only the billable subset enters financial aggregation.
const (
	StatusOpen       = "open"
	StatusInProgress = "in-progress"
	StatusPending    = "pending"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
	StatusCaseClosed = "case-closed"
	StatusInvoiced   = "invoiced"
)

type Ticket struct {
	ID             string         `json:"id"`
	Status         string         `json:"status"`
	Subject        string         `json:"subject"`
	Classification string         `json:"classification,omitempty"`
	Requester      string         `json:"requester"`
	CreatedAt      time.Time      `json:"created_at"`
	ClosedAt       *time.Time     `json:"closed_at,omitempty"`
	Assets         []AssetRef     `json:"assets,omitempty"`
	Logistics      Logistics      `json:"logistics"`
	Accessories    map[string]any `json:"accessories,omitempty"`
}

// BillingDate is the date the period filter runs on: completion date when the
// ticket was closed, creation date otherwise.
func (t Ticket) BillingDate() time.Time {
	if t.ClosedAt != nil {
		return *t.ClosedAt
	}
	return t.CreatedAt
}

// AssetRef is one entry of a ticket's associated-assets list. Legacy records
// store a bare serial string, newer ones an object with per-ticket overrides;
// Inline distinguishes the two after decoding.
type AssetRef struct {
	Serial       string `json:"serial"`
	MovementHint string `json:"movementHint,omitempty"`
	DeviceHint   string `json:"deviceHint,omitempty"`
	Inline       bool   `json:"-"`
}

type Logistics struct {
	Method         string  `json:"method,omitempty"`
	Cost           float64 `json:"cost,omitempty"`
	DeliveryPerson string  `json:"delivery_person,omitempty"`
	Address        string  `json:"address,omitempty"`
	Type           string  `json:"type,omitempty"`
}

// Asset is one catalog record. Field aliases from the uncoordinated entry
// points (tipoMovimiento, tipoDispositivo, hardwareType) are folded into the
// canonical fields at decode time, see UnmarshalJSON.
type Asset struct {
	Serial       string `json:"serial"`
	Type         string `json:"type,omitempty"`
	MovementType string `json:"movementType,omitempty"`
	DeviceType   string `json:"deviceType,omitempty"`
	HardwareType string `json:"hardwareType,omitempty"`
	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`
}

type Period struct {
	Month time.Month `json:"month"`
	Year  int        `json:"year"`
}

func (p Period) Contains(t time.Time) bool {
	return t.Month() == p.Month && t.Year() == p.Year
}

// Figures is one set of per-ticket monetary results in a single currency.
type Figures struct {
	ServiceRevenue   float64 `json:"service_revenue"`
	LogisticsRevenue float64 `json:"logistics_revenue"`
	LogisticsCost    float64 `json:"logistics_cost"`
	OperationalCost  float64 `json:"operational_cost"`
	TotalRevenue     float64 `json:"total_revenue"`
	TotalCost        float64 `json:"total_cost"`
	Profit           float64 `json:"profit"`
	MarginPercent    float64 `json:"margin_percent"`
}

// LineItem is the rated result for one ticket: Base in USD, Billed after the
// exchange-rate multiplier. Both carry the same figure set so every caller
// renders from the same numbers.
type LineItem struct {
	TicketID      string  `json:"ticket_id"`
	Movement      string  `json:"movement"`
	Device        string  `json:"device"`
	Warranty      bool    `json:"warranty"`
	LogisticsKind string  `json:"logistics_kind"`
	Worker        string  `json:"worker,omitempty"`
	DriverExtra   float64 `json:"driver_extra,omitempty"`
	Base          Figures `json:"base"`
	Billed        Figures `json:"billed"`
	Currency      string  `json:"currency"`
	FXRate        float64 `json:"fx_rate"`
}

// WorkerPayout accumulates one delivery person's internal-logistics payouts.
type WorkerPayout struct {
	Count      int     `json:"count"`
	Total      float64 `json:"total"`
	Deliveries int     `json:"deliveries"`
	Recoveries int     `json:"recoveries"`
}

type CategoryTotal struct {
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// Summary is the aggregate over one billing period.
type Summary struct {
	Period      Period                   `json:"period"`
	TicketCount int                      `json:"ticket_count"`
	Totals      Figures                  `json:"totals"`
	DriverCost  float64                  `json:"driver_cost"`
	PostalCost  float64                  `json:"postal_cost"`
	Payouts     map[string]WorkerPayout  `json:"payouts"`
	Categories  map[string]CategoryTotal `json:"categories"`
	Currency    string                   `json:"currency"`
	FXRate      float64                  `json:"fx_rate"`
}
