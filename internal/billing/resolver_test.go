package billing

import (
	"testing"

	"github.com/assetdesk/backend/internal/models"
)

func TestResolveFromTicketTextOnly(t *testing.T) {
	ticket := models.Ticket{ID: "t1", Subject: "Entrega de notebook a Juan"}

	attrs := Resolve(ticket, nil)
	if attrs.Movement != MovementDelivery {
		t.Fatalf("expected Delivery, got %s", attrs.Movement)
	}
	if attrs.Device != DeviceLaptop {
		t.Fatalf("expected Laptop, got %s", attrs.Device)
	}
	if attrs.Asset != nil {
		t.Fatalf("expected no resolved asset, got %+v", attrs.Asset)
	}
}

func TestResolveDefaultsWhenNoSignal(t *testing.T) {
	ticket := models.Ticket{ID: "t1", Subject: "Consulta general"}

	attrs := Resolve(ticket, nil)
	if attrs.Movement != MovementService {
		t.Fatalf("expected TechnicalService, got %s", attrs.Movement)
	}
	if attrs.Device != DeviceGeneric {
		t.Fatalf("expected generic device, got %s", attrs.Device)
	}
}

func TestResolveExplicitMovementFieldWins(t *testing.T) {
	catalog := []models.Asset{
		{Serial: "SN-1", MovementType: "Recupero de equipo", DeviceType: "Notebook"},
	}
	// Subject says entrega; the explicit asset field must win.
	ticket := models.Ticket{
		ID:      "t1",
		Subject: "Entrega pendiente",
		Assets:  []models.AssetRef{{Serial: "SN-1"}},
	}

	attrs := Resolve(ticket, catalog)
	if attrs.Movement != MovementRecovery {
		t.Fatalf("expected Recovery from explicit field, got %s", attrs.Movement)
	}
	if attrs.Device != DeviceLaptop {
		t.Fatalf("expected Laptop, got %s", attrs.Device)
	}
}

func TestResolveMovementInTypeFieldExcludedFromDevice(t *testing.T) {
	// Catalogs that overload type with the movement word must not feed that
	// value into device classification.
	catalog := []models.Asset{
		{Serial: "SN-2", Type: "Baja", Name: "iPhone 13"},
	}
	ticket := models.Ticket{ID: "t2", Assets: []models.AssetRef{{Serial: "SN-2"}}}

	attrs := Resolve(ticket, catalog)
	if attrs.Movement != MovementRecovery {
		t.Fatalf("expected Recovery from type field, got %s", attrs.Movement)
	}
	if attrs.Device != DeviceSmartphone {
		t.Fatalf("expected Smartphone from name, got %s", attrs.Device)
	}
}

func TestResolveTicketHintOverridesCatalog(t *testing.T) {
	catalog := []models.Asset{
		{Serial: "SN-3", Type: "Notebook", MovementType: "Entrega"},
	}
	ticket := models.Ticket{
		ID: "t3",
		Assets: []models.AssetRef{
			{Serial: "SN-3", MovementHint: "Retiro", Inline: true},
		},
	}

	attrs := Resolve(ticket, catalog)
	if attrs.Movement != MovementRecovery {
		t.Fatalf("expected ticket hint to win, got %s", attrs.Movement)
	}
	if attrs.Asset == nil || attrs.Asset.HardwareType != "Notebook" {
		t.Fatalf("expected catalog type preserved as hardwareType, got %+v", attrs.Asset)
	}
	if attrs.Device != DeviceLaptop {
		t.Fatalf("expected Laptop from hardwareType, got %s", attrs.Device)
	}
}

func TestResolveBareSerialWithoutCatalogMatch(t *testing.T) {
	ticket := models.Ticket{
		ID:      "t4",
		Subject: "Retiro de yubikey",
		Assets:  []models.AssetRef{{Serial: "UNKNOWN"}},
	}

	attrs := Resolve(ticket, []models.Asset{{Serial: "SN-9"}})
	if attrs.Asset != nil {
		t.Fatalf("expected no asset for unmatched bare serial")
	}
	if attrs.Movement != MovementRecovery || attrs.Device != DeviceKey {
		t.Fatalf("expected Recovery/SecurityKey from text, got %s/%s", attrs.Movement, attrs.Device)
	}
}

func TestResolveInlineRefWithoutCatalogMatch(t *testing.T) {
	ticket := models.Ticket{
		ID: "t5",
		Assets: []models.AssetRef{
			{Serial: "NEW-1", MovementHint: "Alta", DeviceHint: "Celular", Inline: true},
		},
	}

	attrs := Resolve(ticket, nil)
	if attrs.Movement != MovementDelivery {
		t.Fatalf("expected Delivery from inline hint, got %s", attrs.Movement)
	}
	if attrs.Device != DeviceSmartphone {
		t.Fatalf("expected Smartphone from inline hint, got %s", attrs.Device)
	}
}

func TestResolveDeviceFallsBackToTicketText(t *testing.T) {
	catalog := []models.Asset{{Serial: "SN-6", Type: "Activo"}}
	ticket := models.Ticket{
		ID:             "t6",
		Subject:        "Entrega",
		Classification: "Soporte notebook",
		Assets:         []models.AssetRef{{Serial: "SN-6"}},
	}

	attrs := Resolve(ticket, catalog)
	if attrs.Device != DeviceLaptop {
		t.Fatalf("expected Laptop from classification text, got %s", attrs.Device)
	}
}

func TestResolveLogisticsTypeCarriesMovement(t *testing.T) {
	ticket := models.Ticket{
		ID:        "t7",
		Subject:   "Equipo para Juan",
		Logistics: models.Logistics{Type: "alta"},
	}

	attrs := Resolve(ticket, nil)
	if attrs.Movement != MovementDelivery {
		t.Fatalf("expected Delivery from logistics type, got %s", attrs.Movement)
	}
}
