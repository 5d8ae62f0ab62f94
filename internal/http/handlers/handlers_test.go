package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

func testContext(t *testing.T, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestParsePeriod(t *testing.T) {
	c, _ := testContext(t, "/api/billing/summary?month=3&year=2026")
	period, ok := parsePeriod(c)
	if !ok {
		t.Fatalf("expected valid period")
	}
	if period.Month != time.March || period.Year != 2026 {
		t.Fatalf("unexpected period %+v", period)
	}
}

func TestParsePeriodRejectsBadInput(t *testing.T) {
	for _, target := range []string{
		"/api/billing/summary",
		"/api/billing/summary?month=0&year=2026",
		"/api/billing/summary?month=13&year=2026",
		"/api/billing/summary?month=3",
		"/api/billing/summary?month=3&year=1800",
	} {
		c, w := testContext(t, target)
		if _, ok := parsePeriod(c); ok {
			t.Fatalf("expected rejection for %s", target)
		}
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", target, w.Code)
		}
	}
}

func TestRatesUpdateValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{Validator: validator.New(), Logger: zerolog.Nop()}

	r := gin.New()
	r.PUT("/api/rates", h.RatesUpdate)

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"rates":`},
		{"empty rates", `{"rates":{}}`},
		{"missing rates", `{}`},
		{"blank key", `{"rates":{" ":"10"}}`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPut, "/api/rates", strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, w.Code)
		}
	}
}
