package billing

import (
	"fmt"
	"strconv"
	"strings"
)

// Rate-table keys. The specific family is scoped by movement; the legacy
// generic family predates it and still appears in older tables. Both are
// consulted, specific first.
const (
	KeyExchangeRate     = "exchangeRate"
	KeyServiceWarranty  = "service_Warranty"
	KeyInternalRevenue  = "logistics_Internal_Revenue"
	KeyDriverCommission = "cost_Driver_Commission"
	KeyPostalBase       = "cost_Postal_Base"
	KeyPostalMarkup     = "logistics_Postal_Markup"

	legacyLaptopService     = "laptopService"
	legacySmartphoneService = "smartphoneService"
	legacyKeyService        = "keyService"
	legacyWarrantyService   = "warrantyService"
	legacyInternalRevenue   = "internalDeliveryRevenue"
	legacyDriverCommission  = "driverCommission"
	legacyPostalBase        = "postalBaseCost"
	legacyPostalMarkup      = "postalServiceMarkup"
)

// Hard defaults, used only when the table carries neither key of a pair.
const (
	defaultLaptopService     = 25
	defaultSmartphoneService = 5
	defaultKeyService        = 5
	defaultWarrantyService   = 60
	defaultInternalRevenue   = 20
	defaultPostalBase        = 12
	defaultPostalMarkup      = 5
	defaultDriverCommission  = 15
	defaultServiceRevenue    = 5

	accessoryUnitCost = 1.5
)

const (
	CurrencyUSD = "USD"
	CurrencyARS = "ARS"
)

// Workers is the fixed roster of delivery people eligible for per-driver
// bonuses. The token is what appears in driverExtra_* keys; matching against
// logistics.deliveryPerson is case-insensitive substring.
var Workers = []string{"Lucas", "Facundo", "Martin", "Sofia"}

// RateTable is the active tariff configuration, key to raw value. Values are
// numeric or numeric-parseable strings; anything else counts as absent.
type RateTable map[string]string

// Value returns the parsed rate for key. Missing, empty, and non-numeric
// entries all report absent, so a partially configured table falls through
// to the next precedence tier instead of failing.
func (rt RateTable) Value(key string) (float64, bool) {
	raw, ok := rt[key]
	if !ok {
		return 0, false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Pick resolves one monetary figure: specific override, else legacy generic
// override, else the built-in default. Every figure is resolved fresh from
// the current table on every evaluation.
func (rt RateTable) Pick(specific, legacy string, fallback float64) float64 {
	if v, ok := rt.Value(specific); ok {
		return v
	}
	if v, ok := rt.Value(legacy); ok {
		return v
	}
	return fallback
}

// Multiplier returns the currency multiplier and display currency. An
// exchangeRate entry > 0 switches display to ARS; otherwise figures stay in
// USD unmodified.
func (rt RateTable) Multiplier() (float64, string) {
	if v, ok := rt.Value(KeyExchangeRate); ok && v > 0 {
		return v, CurrencyARS
	}
	return 1, CurrencyUSD
}

// serviceKey builds the movement-scoped service revenue key, e.g.
// service_Laptop_Delivery.
func serviceKey(device, movement string) string {
	return fmt.Sprintf("service_%s_%s", deviceToken(device), movement)
}

// driverExtraKey builds the per-worker bonus key, e.g.
// driverExtra_Lucas_Delivery_Laptop.
func driverExtraKey(worker, movement, device string) string {
	return fmt.Sprintf("driverExtra_%s_%s_%s", worker, movement, deviceToken(device))
}

func deviceToken(device string) string {
	if device == DeviceKey {
		return "Key"
	}
	return device
}

// MatchWorker maps a free-text delivery person to the canonical roster token,
// or "" when nobody matches.
func MatchWorker(deliveryPerson string) string {
	person := strings.ToLower(strings.TrimSpace(deliveryPerson))
	if person == "" {
		return ""
	}
	for _, w := range Workers {
		if strings.Contains(person, strings.ToLower(w)) {
			return w
		}
	}
	return ""
}
