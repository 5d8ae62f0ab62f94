package billing

import (
	"strings"

	"github.com/assetdesk/backend/internal/models"
)

// BillableStatuses are the ticket statuses eligible for financial
// aggregation.
var BillableStatuses = map[string]bool{
	models.StatusResolved:   true,
	models.StatusCaseClosed: true,
	models.StatusInvoiced:   true,
}

// Billable reports whether a ticket belongs to the period's aggregate.
func Billable(t models.Ticket, p models.Period) bool {
	return BillableStatuses[t.Status] && p.Contains(t.BillingDate())
}

// Aggregate filters the collection to the period's billable tickets, rates
// each through the shared resolver and rating engine, and accumulates period
// totals, per-worker payouts, and per-device subtotals. Sums run in USD and
// the currency multiplier is applied once at the end to every aggregate;
// that is equivalent to per-ticket conversion only while the multiplier is
// constant across the evaluation.
func Aggregate(tickets []models.Ticket, catalog []models.Asset, rt RateTable, p models.Period) models.Summary {
	summary := models.Summary{
		Period:     p,
		Payouts:    map[string]models.WorkerPayout{},
		Categories: map[string]models.CategoryTotal{},
	}

	var totals models.Figures
	for _, t := range tickets {
		if !Billable(t, p) {
			continue
		}

		attrs := Resolve(t, catalog)
		item := Rate(t, attrs, rt)
		summary.TicketCount++

		totals.ServiceRevenue += item.Base.ServiceRevenue
		totals.LogisticsRevenue += item.Base.LogisticsRevenue
		totals.LogisticsCost += item.Base.LogisticsCost
		totals.OperationalCost += item.Base.OperationalCost

		switch item.LogisticsKind {
		case LogisticsInternal:
			summary.DriverCost += item.Base.LogisticsCost
		case LogisticsPostal:
			summary.PostalCost += item.Base.LogisticsCost
		}

		if person := strings.TrimSpace(t.Logistics.DeliveryPerson); person != "" && item.LogisticsKind == LogisticsInternal {
			payout := summary.Payouts[person]
			payout.Count++
			payout.Total += item.Base.LogisticsCost
			switch attrs.Movement {
			case MovementDelivery:
				payout.Deliveries++
			case MovementRecovery:
				payout.Recoveries++
			}
			summary.Payouts[person] = payout
		}

		category := summary.Categories[attrs.Device]
		category.Count++
		category.Revenue += item.Base.ServiceRevenue
		summary.Categories[attrs.Device] = category
	}

	totals.TotalRevenue = totals.ServiceRevenue + totals.LogisticsRevenue
	totals.TotalCost = totals.LogisticsCost + totals.OperationalCost

	mult, currency := rt.Multiplier()
	summary.Totals = scaleFigures(totals, mult)
	summary.DriverCost *= mult
	summary.PostalCost *= mult
	for person, payout := range summary.Payouts {
		payout.Total *= mult
		summary.Payouts[person] = payout
	}
	for device, category := range summary.Categories {
		category.Revenue *= mult
		summary.Categories[device] = category
	}
	summary.Currency = currency
	summary.FXRate = mult
	return summary
}
