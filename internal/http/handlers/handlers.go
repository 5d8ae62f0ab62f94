package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/assetdesk/backend/internal/billing"
	"github.com/assetdesk/backend/internal/db"
	"github.com/assetdesk/backend/internal/fx"
	"github.com/assetdesk/backend/internal/models"
)

type Handler struct {
	Store     *db.Store
	FX        fx.Provider
	Validator *validator.Validate
	Logger    zerolog.Logger
	AdminKey  string
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) TicketsList(c *gin.Context) {
	status := strings.TrimSpace(c.Query("status"))
	requester := strings.TrimSpace(c.Query("requester"))
	q := strings.TrimSpace(c.Query("q"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	items, err := h.Store.ListTickets(c.Request.Context(), status, requester, q, limit, offset)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list tickets", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) TicketDetails(c *gin.Context) {
	ticket, err := h.Store.GetTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Ticket not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get ticket", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

// @Summary Per-ticket billing detail
// @Description Resolves the ticket's service attributes and rates it against the current rate table
// @Tags billing
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/tickets/{id}/billing [get]
func (h *Handler) TicketBilling(c *gin.Context) {
	ctx := c.Request.Context()

	ticket, err := h.Store.GetTicket(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Ticket not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get ticket", err.Error())
		return
	}

	catalog, rates, ok := h.loadBillingInputs(c)
	if !ok {
		return
	}

	attrs := billing.Resolve(ticket, catalog)
	item := billing.Rate(ticket, attrs, rates)
	c.JSON(http.StatusOK, gin.H{
		"attributes": attrs,
		"line_item":  item,
		"billable":   billing.BillableStatuses[ticket.Status],
	})
}

// @Summary Billing summary for a period
// @Tags billing
// @Produce json
// @Param month query int true "Month (1-12)"
// @Param year query int true "Year"
// @Success 200 {object} models.Summary
// @Failure 400 {object} map[string]any
// @Router /api/billing/summary [get]
func (h *Handler) BillingSummary(c *gin.Context) {
	period, ok := parsePeriod(c)
	if !ok {
		return
	}
	summary, ok := h.aggregate(c, period)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Per-worker payouts for a period
// @Tags billing
// @Produce json
// @Param month query int true "Month (1-12)"
// @Param year query int true "Year"
// @Param worker query string false "Filter by delivery person"
// @Success 200 {object} map[string]any
// @Router /api/billing/payouts [get]
func (h *Handler) BillingPayouts(c *gin.Context) {
	period, ok := parsePeriod(c)
	if !ok {
		return
	}
	summary, ok := h.aggregate(c, period)
	if !ok {
		return
	}

	payouts := summary.Payouts
	if worker := strings.TrimSpace(c.Query("worker")); worker != "" {
		filtered := map[string]models.WorkerPayout{}
		for person, payout := range payouts {
			if strings.Contains(strings.ToLower(person), strings.ToLower(worker)) {
				filtered[person] = payout
			}
		}
		payouts = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"period":   summary.Period,
		"payouts":  payouts,
		"currency": summary.Currency,
		"fx_rate":  summary.FXRate,
	})
}

func (h *Handler) AssetsList(c *gin.Context) {
	items, err := h.Store.ListAssets(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list assets", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) RatesList(c *gin.Context) {
	rates, err := h.Store.GetRateTable(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load rates", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"rates": rates})
}

type RatesUpdateRequest struct {
	Rates map[string]string `json:"rates" validate:"required,min=1"`
}

// @Summary Update rate table entries
// @Tags rates
// @Accept json
// @Produce json
// @Param payload body RatesUpdateRequest true "Rates to upsert"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/rates [put]
func (h *Handler) RatesUpdate(c *gin.Context) {
	var req RatesUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	for key := range req.Rates {
		if strings.TrimSpace(key) == "" {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Rate keys must not be empty", nil)
			return
		}
	}

	if err := h.Store.UpsertRates(c.Request.Context(), req.Rates); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to update rates", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "updated": len(req.Rates)})
}

func (h *Handler) RateDelete(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "key is required", nil)
		return
	}
	deleted, err := h.Store.DeleteRate(c.Request.Context(), key)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to delete rate", err.Error())
		return
	}
	if !deleted {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Rate key not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Refresh exchange rate from the FX provider
// @Tags rates
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/rates/fx/refresh [post]
func (h *Handler) FXRefresh(c *gin.Context) {
	ctx := c.Request.Context()

	quote, err := h.FX.CurrentRate(ctx)
	if err != nil {
		writeError(c, http.StatusBadGateway, "FX_ERROR", "FX provider unavailable", err.Error())
		return
	}

	value := strconv.FormatFloat(quote.Rate, 'f', -1, 64)
	if err := h.Store.UpsertRates(ctx, map[string]string{billing.KeyExchangeRate: value}); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to store exchange rate", err.Error())
		return
	}

	h.Logger.Info().Float64("rate", quote.Rate).Str("source", quote.Source).Msg("exchange rate refreshed")
	c.JSON(http.StatusOK, gin.H{"status": "ok", "rate": quote.Rate, "source": quote.Source})
}

// aggregate loads the period's tickets, the asset catalog, and the current
// rate table, then runs the shared engine. Every aggregate endpoint goes
// through here so they can never disagree on classification or rates.
func (h *Handler) aggregate(c *gin.Context, period models.Period) (models.Summary, bool) {
	ctx := c.Request.Context()

	tickets, err := h.Store.ListTicketsForPeriod(ctx, period)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load tickets", err.Error())
		return models.Summary{}, false
	}
	catalog, rates, ok := h.loadBillingInputs(c)
	if !ok {
		return models.Summary{}, false
	}
	return billing.Aggregate(tickets, catalog, rates, period), true
}

func (h *Handler) loadBillingInputs(c *gin.Context) ([]models.Asset, billing.RateTable, bool) {
	ctx := c.Request.Context()

	catalog, err := h.Store.ListAssets(ctx)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load assets", err.Error())
		return nil, nil, false
	}
	rates, err := h.Store.GetRateTable(ctx)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load rates", err.Error())
		return nil, nil, false
	}
	return catalog, rates, true
}

func parsePeriod(c *gin.Context) (models.Period, bool) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "month must be 1-12", nil)
		return models.Period{}, false
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "year is required", nil)
		return models.Period{}, false
	}
	return models.Period{Month: time.Month(month), Year: year}, true
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
