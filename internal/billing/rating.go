package billing

import (
	"strings"

	"github.com/assetdesk/backend/internal/models"
)

// Logistics method families.
const (
	LogisticsInternal = "internal"
	LogisticsPostal   = "postal"
	LogisticsNone     = "none"
)

// Rate computes the line item for one resolved ticket. Deterministic, no
// I/O: the same ticket, attributes, and table always produce the same
// numbers. All figures are computed in USD and the currency multiplier is
// applied once at the end, never mid-calculation, so revenue, cost, and
// margin stay consistent after conversion.
func Rate(t models.Ticket, attrs ServiceAttributes, rt RateTable) models.LineItem {
	item := models.LineItem{
		TicketID: t.ID,
		Movement: attrs.Movement,
		Device:   attrs.Device,
		Warranty: isWarranty(t),
	}

	item.Base.ServiceRevenue = serviceRevenue(item.Warranty, attrs, rt)

	item.LogisticsKind = LogisticsFamily(t.Logistics.Method)
	switch item.LogisticsKind {
	case LogisticsInternal:
		item.Base.LogisticsRevenue = rt.Pick(KeyInternalRevenue, legacyInternalRevenue, defaultInternalRevenue)
		commission := rt.Pick(KeyDriverCommission, legacyDriverCommission, defaultDriverCommission)
		item.Worker = MatchWorker(t.Logistics.DeliveryPerson)
		item.DriverExtra = driverExtra(item.Worker, attrs, rt)
		item.Base.LogisticsCost = commission + item.DriverExtra
	case LogisticsPostal:
		base := t.Logistics.Cost
		if base <= 0 {
			base = rt.Pick(KeyPostalBase, legacyPostalBase, defaultPostalBase)
		}
		// The markup is pure margin, not a pass-through cost.
		item.Base.LogisticsRevenue = base + rt.Pick(KeyPostalMarkup, legacyPostalMarkup, defaultPostalMarkup)
		item.Base.LogisticsCost = base
	}

	item.Base.OperationalCost = operationalCost(t.Accessories)

	item.Base.TotalRevenue = item.Base.ServiceRevenue + item.Base.LogisticsRevenue
	item.Base.TotalCost = item.Base.LogisticsCost + item.Base.OperationalCost
	item.Base.Profit = item.Base.TotalRevenue - item.Base.TotalCost
	item.Base.MarginPercent = marginPercent(item.Base.Profit, item.Base.TotalRevenue)

	mult, currency := rt.Multiplier()
	item.Billed = scaleFigures(item.Base, mult)
	item.Currency = currency
	item.FXRate = mult
	return item
}

// serviceRevenue resolves the service bucket: warranty overrides device-based
// bucketing, then laptop/smartphone/key split by movement, else a flat
// default for anything unmatched.
func serviceRevenue(warranty bool, attrs ServiceAttributes, rt RateTable) float64 {
	if warranty {
		return rt.Pick(KeyServiceWarranty, legacyWarrantyService, defaultWarrantyService)
	}
	if attrs.Movement != MovementDelivery && attrs.Movement != MovementRecovery {
		return defaultServiceRevenue
	}
	switch attrs.Device {
	case DeviceLaptop:
		return rt.Pick(serviceKey(attrs.Device, attrs.Movement), legacyLaptopService, defaultLaptopService)
	case DeviceSmartphone:
		return rt.Pick(serviceKey(attrs.Device, attrs.Movement), legacySmartphoneService, defaultSmartphoneService)
	case DeviceKey:
		return rt.Pick(serviceKey(attrs.Device, attrs.Movement), legacyKeyService, defaultKeyService)
	default:
		return defaultServiceRevenue
	}
}

// LogisticsFamily maps the free-text logistics method to its family.
func LogisticsFamily(method string) string {
	m := strings.ToLower(strings.TrimSpace(method))
	switch {
	case m == "":
		return LogisticsNone
	case m == "repartidor propio", m == "envío interno", strings.Contains(m, "propio"):
		return LogisticsInternal
	case m == "andreani", m == "correo argentino", strings.Contains(m, "correo"):
		return LogisticsPostal
	default:
		return LogisticsNone
	}
}

// driverExtra looks up the per-worker bonus. It applies only when the worker
// is on the roster and both movement and device resolved to a keyed
// category; an absent or malformed entry means no bonus.
func driverExtra(worker string, attrs ServiceAttributes, rt RateTable) float64 {
	if worker == "" {
		return 0
	}
	if attrs.Movement != MovementDelivery && attrs.Movement != MovementRecovery {
		return 0
	}
	if attrs.Device != DeviceLaptop && attrs.Device != DeviceSmartphone && attrs.Device != DeviceKey {
		return 0
	}
	v, ok := rt.Value(driverExtraKey(worker, attrs.Movement, attrs.Device))
	if !ok {
		return 0
	}
	return v
}

// operationalCost counts accessory flags that are boolean true. Flags
// holding strings (size selectors and the like) do not count.
func operationalCost(accessories map[string]any) float64 {
	count := 0
	for _, v := range accessories {
		if b, ok := v.(bool); ok && b {
			count++
		}
	}
	return float64(count) * accessoryUnitCost
}

func isWarranty(t models.Ticket) bool {
	subject := strings.ToLower(t.Subject)
	if strings.Contains(subject, "garantía") || strings.Contains(subject, "garantia") || strings.Contains(subject, "warranty") {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(t.Classification), "Garantía")
}

func marginPercent(profit, revenue float64) float64 {
	if revenue == 0 {
		return 0
	}
	return profit / revenue * 100
}

// scaleFigures applies the currency multiplier uniformly to every monetary
// figure. Profit is re-derived from the scaled totals so the margin
// invariant holds exactly; the margin percentage is scale-invariant.
func scaleFigures(f models.Figures, mult float64) models.Figures {
	out := models.Figures{
		ServiceRevenue:   f.ServiceRevenue * mult,
		LogisticsRevenue: f.LogisticsRevenue * mult,
		LogisticsCost:    f.LogisticsCost * mult,
		OperationalCost:  f.OperationalCost * mult,
		TotalRevenue:     f.TotalRevenue * mult,
		TotalCost:        f.TotalCost * mult,
	}
	out.Profit = out.TotalRevenue - out.TotalCost
	out.MarginPercent = marginPercent(out.Profit, out.TotalRevenue)
	return out
}
