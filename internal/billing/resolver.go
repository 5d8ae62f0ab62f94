package billing

import (
	"strings"

	"github.com/assetdesk/backend/internal/models"
)

// Movement and device categories produced by the resolver.
const (
	MovementDelivery = "Delivery"
	MovementRecovery = "Recovery"
	MovementService  = "TechnicalService"

	DeviceLaptop     = "Laptop"
	DeviceSmartphone = "Smartphone"
	DeviceKey        = "SecurityKey"
	DeviceGeneric    = "Device"
)

// ServiceAttributes is the resolved classification for one ticket. It is
// recomputed on every evaluation and never persisted, so it cannot drift from
// the current ticket and catalog state.
type ServiceAttributes struct {
	Movement string        `json:"movement"`
	Device   string        `json:"device"`
	Asset    *models.Asset `json:"asset,omitempty"`
}

var (
	movementWords = []string{"entrega", "recupero", "devolucion", "alta", "baja", "movement", "retiro"}
	deliveryWords = []string{"entrega", "alta"}
	recoveryWords = []string{"recupero", "baja", "retiro", "devolucion"}

	laptopWords = []string{"laptop", "notebook", "macbook", "equipo", "pc"}
	phoneWords  = []string{"smartphone", "celular", "iphone", "samsung", "moto"}
	keyWords    = []string{"key", "yubikey", "llave"}
)

// Resolve classifies one ticket against the asset catalog. It never fails:
// when no signal is found it falls back to a generic technical service on an
// unclassified device. The precedence order of the signals is the business
// rule; reordering changes the outcome for ambiguous records.
func Resolve(t models.Ticket, catalog []models.Asset) ServiceAttributes {
	asset := resolveAsset(t, catalog)

	movement, typeIsMovement := resolveMovement(t, asset)
	device := resolveDevice(t, asset, typeIsMovement)

	return ServiceAttributes{Movement: movement, Device: device, Asset: asset}
}

// resolveAsset picks the first associated asset and merges it with the
// catalog record for the same serial. Ticket-level hints win over catalog
// fields; the catalog's type is preserved as hardwareType so the merge does
// not shadow it.
func resolveAsset(t models.Ticket, catalog []models.Asset) *models.Asset {
	if len(t.Assets) == 0 {
		return nil
	}
	ref := t.Assets[0]

	var found *models.Asset
	for i := range catalog {
		if catalog[i].Serial == ref.Serial {
			found = &catalog[i]
			break
		}
	}

	if found == nil {
		if !ref.Inline {
			// Bare serial with no catalog match: classification falls back
			// to ticket text only.
			return nil
		}
		return &models.Asset{Serial: ref.Serial, MovementType: ref.MovementHint, DeviceType: ref.DeviceHint}
	}

	merged := *found
	if ref.Inline {
		if merged.HardwareType == "" {
			merged.HardwareType = merged.Type
		}
		if ref.MovementHint != "" {
			merged.MovementType = ref.MovementHint
		}
		if ref.DeviceHint != "" {
			merged.DeviceType = ref.DeviceHint
		}
	}
	return &merged
}

// resolveMovement returns the movement type plus whether the asset's generic
// type field carried the movement signal, in which case the device pass must
// skip that field.
func resolveMovement(t models.Ticket, asset *models.Asset) (string, bool) {
	if asset != nil {
		if asset.MovementType != "" && containsAny(asset.MovementType, movementWords) {
			return classifyMovement(asset.MovementType), false
		}
		if containsAny(asset.Type, movementWords) {
			// Some catalogs overload the type field with the movement word.
			return classifyMovement(asset.Type), true
		}
	}
	return classifyMovement(t.Subject + " " + t.Classification + " " + t.Logistics.Type), false
}

func classifyMovement(text string) string {
	if containsAny(text, deliveryWords) {
		return MovementDelivery
	}
	if containsAny(text, recoveryWords) {
		return MovementRecovery
	}
	return MovementService
}

func resolveDevice(t models.Ticket, asset *models.Asset, typeIsMovement bool) string {
	if asset != nil {
		fields := []string{asset.DeviceType, asset.HardwareType}
		if !typeIsMovement {
			fields = append(fields, asset.Type)
		}
		fields = append(fields, asset.Name, asset.Description)
		for _, f := range fields {
			if f == "" {
				continue
			}
			if d := classifyDevice(f); d != DeviceGeneric {
				return d
			}
		}
	}
	return classifyDevice(t.Subject + " " + t.Classification)
}

func classifyDevice(text string) string {
	if containsAny(text, laptopWords) {
		return DeviceLaptop
	}
	if containsAny(text, phoneWords) {
		return DeviceSmartphone
	}
	if containsAny(text, keyWords) {
		return DeviceKey
	}
	return DeviceGeneric
}

func containsAny(text string, words []string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
