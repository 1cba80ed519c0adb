package meterapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newClient(baseURL string) *Client {
	return NewClient(baseURL, time.Second, zap.NewNop())
}

func TestLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/meter/MED-001A/latest" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("pin"); got != "1111" {
			t.Errorf("pin = %q, want 1111", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"meter_code": "MED-001A",
			"category": "DOMESTICA",
			"flow_lps": 1.5,
			"liters_total": 100,
			"price_per_liter": 2,
			"currency": "BOB",
			"timestamp": "T0"
		}`))
	}))
	defer srv.Close()

	payload, err := newClient(srv.URL).Latest(context.Background(), "MED-001A", "1111")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if payload.MeterCode != "MED-001A" || payload.Currency != "BOB" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.FlowLPS == nil || *payload.FlowLPS != 1.5 {
		t.Fatalf("flow not decoded: %+v", payload.FlowLPS)
	}
	if payload.PricePerLiter == nil || *payload.PricePerLiter != 2 {
		t.Fatalf("price not decoded: %+v", payload.PricePerLiter)
	}
}

func TestLatestOmittedNumerics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meter_code": "MED-002B", "timestamp": null}`))
	}))
	defer srv.Close()

	payload, err := newClient(srv.URL).Latest(context.Background(), "MED-002B", "2222")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if payload.FlowLPS != nil || payload.LitersTotal != nil || payload.PricePerLiter != nil {
		t.Fatalf("absent numerics must decode to nil: %+v", payload)
	}
}

func TestRecent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/meter/MED-001A/recent" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("limit = %q, want 10", got)
		}
		w.Write([]byte(`{"meter_code": "MED-001A", "recent": [
			{"timestamp": "T1", "flow_lps": 1.5, "liters_delta": 10, "liters_total": 110},
			{"timestamp": "T0", "flow_lps": 1.2, "liters_delta": 8, "liters_total": 100}
		]}`))
	}))
	defer srv.Close()

	payload, err := newClient(srv.URL).Recent(context.Background(), "MED-001A", "1111", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(payload.Recent) != 2 {
		t.Fatalf("rows = %d, want 2", len(payload.Recent))
	}
	if payload.Recent[0].Timestamp != "T1" || payload.Recent[0].LitersTotal != 110 {
		t.Fatalf("first row wrong: %+v", payload.Recent[0])
	}
}

func TestEscapesIdentifiers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.EscapedPath(), "MED%2F1") {
			t.Errorf("meter code not path-escaped: %q", r.URL.EscapedPath())
		}
		if got := r.URL.Query().Get("pin"); got != "11 11&x" {
			t.Errorf("pin not query-escaped: %q", got)
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if _, err := newClient(srv.URL).Latest(context.Background(), "MED/1", "11 11&x"); err != nil {
		t.Fatalf("Latest: %v", err)
	}
}

func TestNonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "Acceso denegado"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := newClient(srv.URL).Latest(context.Background(), "MED-001A", "9999"); err == nil {
		t.Fatal("expected error on 403")
	}
	if _, err := newClient(srv.URL).Recent(context.Background(), "MED-001A", "9999", 10); err == nil {
		t.Fatal("expected error on 403")
	}
}

func TestCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newClient(srv.URL).Latest(ctx, "MED-001A", "1111"); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
