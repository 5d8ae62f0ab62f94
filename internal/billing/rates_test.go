package billing

import "testing"

func TestRateTableValue(t *testing.T) {
	rt := RateTable{
		"laptopService": "25",
		"spaced":        " 12.5 ",
		"empty":         "",
		"garbage":       "abc",
	}

	if v, ok := rt.Value("laptopService"); !ok || v != 25 {
		t.Fatalf("expected 25, got %v %v", v, ok)
	}
	if v, ok := rt.Value("spaced"); !ok || v != 12.5 {
		t.Fatalf("expected 12.5 after trim, got %v %v", v, ok)
	}
	for _, key := range []string{"empty", "garbage", "missing"} {
		if _, ok := rt.Value(key); ok {
			t.Fatalf("key %q must count as absent", key)
		}
	}
}

func TestRateTablePickPrecedence(t *testing.T) {
	rt := RateTable{
		"service_Laptop_Delivery": "30",
		"laptopService":           "25",
	}
	if v := rt.Pick("service_Laptop_Delivery", "laptopService", 99); v != 30 {
		t.Fatalf("expected specific 30, got %v", v)
	}
	if v := rt.Pick("service_Laptop_Recovery", "laptopService", 99); v != 25 {
		t.Fatalf("expected legacy 25, got %v", v)
	}
	if v := rt.Pick("service_Key_Recovery", "keyService", 5); v != 5 {
		t.Fatalf("expected hard default, got %v", v)
	}
}

func TestRateTableMultiplier(t *testing.T) {
	if mult, cur := (RateTable{}).Multiplier(); mult != 1 || cur != CurrencyUSD {
		t.Fatalf("expected 1/USD, got %v/%s", mult, cur)
	}
	if mult, cur := (RateTable{"exchangeRate": "1000"}).Multiplier(); mult != 1000 || cur != CurrencyARS {
		t.Fatalf("expected 1000/ARS, got %v/%s", mult, cur)
	}
	if mult, cur := (RateTable{"exchangeRate": "0"}).Multiplier(); mult != 1 || cur != CurrencyUSD {
		t.Fatalf("zero rate must keep USD, got %v/%s", mult, cur)
	}
	if mult, cur := (RateTable{"exchangeRate": "soon"}).Multiplier(); mult != 1 || cur != CurrencyUSD {
		t.Fatalf("malformed rate must keep USD, got %v/%s", mult, cur)
	}
}

func TestMatchWorker(t *testing.T) {
	if w := MatchWorker("Lucas Fernandez"); w != "Lucas" {
		t.Fatalf("expected Lucas, got %q", w)
	}
	if w := MatchWorker("FACUNDO"); w != "Facundo" {
		t.Fatalf("expected Facundo, got %q", w)
	}
	if w := MatchWorker("Externo SRL"); w != "" {
		t.Fatalf("expected no match, got %q", w)
	}
	if w := MatchWorker(""); w != "" {
		t.Fatalf("expected no match for empty, got %q", w)
	}
}

func TestKeyBuilders(t *testing.T) {
	if k := serviceKey(DeviceKey, MovementRecovery); k != "service_Key_Recovery" {
		t.Fatalf("unexpected service key %q", k)
	}
	if k := driverExtraKey("Lucas", MovementDelivery, DeviceLaptop); k != "driverExtra_Lucas_Delivery_Laptop" {
		t.Fatalf("unexpected driver extra key %q", k)
	}
}
