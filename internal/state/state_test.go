package state

import (
	"fmt"
	"testing"

	"meterwatch/internal/models"
)

func fptr(v float64) *float64 {
	return &v
}

func TestCostRoundsHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		liters float64
		price  float64
		want   float64
	}{
		{10.1234, 2.5, 25.309},
		{100, 2, 200},
		{0, 2.5, 0},
		{1, 0.3333, 0.333},
	}
	for _, tc := range cases {
		if got := Cost(tc.liters, tc.price); got != tc.want {
			t.Errorf("Cost(%v, %v) = %v, want %v", tc.liters, tc.price, got, tc.want)
		}
	}
}

func TestSnapshotFromLatest(t *testing.T) {
	snap := SnapshotFromLatest(models.LatestPayload{
		MeterCode:     "MED-001A",
		Category:      "DOMESTICA",
		Barrio:        "Cobija",
		Calle:         "Demo",
		Numero:        "S/N",
		FlowLPS:       fptr(1.5),
		LitersTotal:   fptr(100),
		PricePerLiter: fptr(2),
		Currency:      "BOB",
		Timestamp:     "T0",
	})

	if snap.MeterCode != "MED-001A" || snap.Category != "DOMESTICA" {
		t.Fatalf("metadata not mapped: %+v", snap)
	}
	if snap.FlowLPS != 1.5 || snap.LitersTotal != 100 {
		t.Fatalf("readings not mapped: %+v", snap)
	}
	if !snap.PriceKnown || snap.PricePerLiter != 2 {
		t.Fatalf("price not mapped: %+v", snap)
	}
	if snap.CostTotal != 200 {
		t.Fatalf("cost total = %v, want 200", snap.CostTotal)
	}
}

func TestSnapshotFromLatestWithoutReadings(t *testing.T) {
	snap := SnapshotFromLatest(models.LatestPayload{MeterCode: "MED-002B"})

	if snap.FlowLPS != 0 || snap.LitersTotal != 0 || snap.CostTotal != 0 {
		t.Fatalf("absent numerics must default to zero: %+v", snap)
	}
	if snap.PriceKnown {
		t.Fatal("price must stay unknown when absent")
	}
}

func TestMergePushKeepsFieldsAbsentFromFrame(t *testing.T) {
	prev := &Snapshot{
		MeterCode:     "MED-001A",
		Category:      "DOMESTICA",
		FlowLPS:       1.5,
		LitersTotal:   100,
		PricePerLiter: 2,
		PriceKnown:    true,
		Currency:      "BOB",
		Timestamp:     "T0",
	}

	next := MergePush(prev, models.PushMessage{
		MeterCode:   "MED-001A",
		LitersTotal: fptr(110),
		Timestamp:   "T1",
	})

	if next.FlowLPS != 1.5 {
		t.Errorf("flow overwritten by absent field: %v", next.FlowLPS)
	}
	if next.LitersTotal != 110 || next.Timestamp != "T1" {
		t.Errorf("present fields not applied: %+v", next)
	}
	if next.CostTotal != 220 {
		t.Errorf("cost not recomputed: %v, want 220", next.CostTotal)
	}
	if next.Category != "DOMESTICA" || next.Currency != "BOB" {
		t.Errorf("metadata lost in merge: %+v", next)
	}
	if prev.LitersTotal != 100 {
		t.Error("merge mutated its input")
	}
}

func TestMergePushIntoEmptyState(t *testing.T) {
	next := MergePush(nil, models.PushMessage{MeterCode: "MED-001A", FlowLPS: fptr(0.8)})

	if next.FlowLPS != 0.8 || next.LitersTotal != 0 || next.CostTotal != 0 {
		t.Fatalf("unexpected merge result: %+v", next)
	}
}

func TestReadingFromPushDefaults(t *testing.T) {
	r := ReadingFromPush(models.PushMessage{Timestamp: "T1"}, 0, false, "")

	if r.FlowLPS != 0 || r.LitersDelta != 0 || r.LitersTotal != 0 {
		t.Fatalf("absent numerics must default to zero: %+v", r)
	}
	if r.Currency != FallbackCurrency {
		t.Fatalf("currency = %q, want fallback %q", r.Currency, FallbackCurrency)
	}
}

func TestReadingFromPushComputesCosts(t *testing.T) {
	r := ReadingFromPush(models.PushMessage{
		FlowLPS:     fptr(1.2),
		LitersDelta: fptr(10.1234),
		LitersTotal: fptr(110),
	}, 2.5, true, "BOB")

	if r.CostDelta != 25.309 {
		t.Errorf("cost delta = %v, want 25.309", r.CostDelta)
	}
	if r.CostTotal != 275 {
		t.Errorf("cost total = %v, want 275", r.CostTotal)
	}
}

func TestPrependReadingOrderAndCap(t *testing.T) {
	var recent []Reading
	for i := 0; i < MaxRecent; i++ {
		recent = append(recent, Reading{Timestamp: fmt.Sprintf("t%d", i)})
	}

	out := PrependReading(recent, Reading{Timestamp: "new"})

	if len(out) != MaxRecent {
		t.Fatalf("len = %d, want %d", len(out), MaxRecent)
	}
	if out[0].Timestamp != "new" {
		t.Fatalf("new row must be first, got %q", out[0].Timestamp)
	}
	for i := 1; i < MaxRecent; i++ {
		if want := fmt.Sprintf("t%d", i-1); out[i].Timestamp != want {
			t.Fatalf("out[%d] = %q, want %q", i, out[i].Timestamp, want)
		}
	}
	// the oldest row (t9) must be gone
	for _, r := range out {
		if r.Timestamp == fmt.Sprintf("t%d", MaxRecent-1) {
			t.Fatal("oldest row survived the cap")
		}
	}
}

func TestPrependReadingShortList(t *testing.T) {
	out := PrependReading([]Reading{{Timestamp: "t0"}}, Reading{Timestamp: "new"})
	if len(out) != 2 || out[0].Timestamp != "new" || out[1].Timestamp != "t0" {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestRecentFromPayloadTruncatesAndRecomputes(t *testing.T) {
	var entries []models.RecentEntry
	for i := 0; i < 12; i++ {
		entries = append(entries, models.RecentEntry{
			Timestamp:   fmt.Sprintf("t%d", i),
			LitersDelta: 10,
			LitersTotal: float64(100 + i),
		})
	}

	rows := RecentFromPayload(models.RecentPayload{Recent: entries}, 2, true, "BOB")

	if len(rows) != MaxRecent {
		t.Fatalf("len = %d, want %d", len(rows), MaxRecent)
	}
	if rows[0].Timestamp != "t0" {
		t.Fatalf("ordering changed: first row %q", rows[0].Timestamp)
	}
	if rows[0].CostDelta != 20 || rows[0].CostTotal != 200 {
		t.Fatalf("costs not recomputed: %+v", rows[0])
	}
}

func TestRecentFromPayloadKeepsUpstreamCosts(t *testing.T) {
	rows := RecentFromPayload(models.RecentPayload{Recent: []models.RecentEntry{{
		LitersDelta: 10,
		LitersTotal: 100,
		CostDelta:   fptr(5.5),
		CostTotal:   fptr(55),
	}}}, 2, true, "BOB")

	if rows[0].CostDelta != 5.5 || rows[0].CostTotal != 55 {
		t.Fatalf("upstream costs overwritten: %+v", rows[0])
	}
}

func TestStatusString(t *testing.T) {
	if StatusConnecting.String() != "connecting" || StatusConnected.String() != "connected" || StatusClosed.String() != "closed" {
		t.Fatal("status labels changed")
	}
}
