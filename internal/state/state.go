package state

import (
	"github.com/shopspring/decimal"

	"meterwatch/internal/models"
)

// MaxRecent caps the recent readings list.
const MaxRecent = 10

// FallbackCurrency is displayed when the upstream never told us one.
const FallbackCurrency = "BOB"

// Status describes the push channel only; it never affects the data cells.
type Status int

const (
	StatusConnecting Status = iota
	StatusConnected
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Snapshot is the latest known reading of a meter plus derived cost fields.
// A nil *Snapshot means no load has succeeded yet.
type Snapshot struct {
	MeterCode     string  `json:"meter_code"`
	Category      string  `json:"category"`
	Barrio        string  `json:"barrio"`
	Calle         string  `json:"calle"`
	Numero        string  `json:"numero"`
	Predio        string  `json:"predio"`
	FlowLPS       float64 `json:"flow_lps"`
	LitersTotal   float64 `json:"liters_total"`
	PricePerLiter float64 `json:"price_per_liter"`
	PriceKnown    bool    `json:"-"`
	CostTotal     float64 `json:"cost_total"`
	Currency      string  `json:"currency"`
	Timestamp     string  `json:"timestamp"`
}

// Reading is one row of the recent table.
type Reading struct {
	Timestamp   string  `json:"timestamp"`
	FlowLPS     float64 `json:"flow_lps"`
	LitersDelta float64 `json:"liters_delta"`
	LitersTotal float64 `json:"liters_total"`
	CostDelta   float64 `json:"cost_delta"`
	CostTotal   float64 `json:"cost_total"`
	Currency    string  `json:"currency"`
}

// Cost multiplies liters by price and rounds half away from zero to
// 3 decimal places, the display precision used everywhere.
func Cost(liters, price float64) float64 {
	c, _ := decimal.NewFromFloat(liters).Mul(decimal.NewFromFloat(price)).Round(3).Float64()
	return c
}

// SnapshotFromLatest builds the snapshot cell from the initial-load payload.
func SnapshotFromLatest(p models.LatestPayload) *Snapshot {
	s := &Snapshot{
		MeterCode: p.MeterCode,
		Category:  p.Category,
		Barrio:    p.Barrio,
		Calle:     p.Calle,
		Numero:    p.Numero,
		Predio:    p.Predio,
		Currency:  p.Currency,
		Timestamp: p.Timestamp,
	}
	if p.FlowLPS != nil {
		s.FlowLPS = *p.FlowLPS
	}
	if p.LitersTotal != nil {
		s.LitersTotal = *p.LitersTotal
	}
	if p.PricePerLiter != nil {
		s.PricePerLiter = *p.PricePerLiter
		s.PriceKnown = true
		s.CostTotal = Cost(s.LitersTotal, s.PricePerLiter)
	}
	return s
}

// RecentFromPayload replaces the recent cell wholesale from a query
// response, truncated to MaxRecent. Cost columns missing upstream are
// recomputed from the known price so the table stays consistent with
// push-built rows.
func RecentFromPayload(p models.RecentPayload, price float64, priceKnown bool, currency string) []Reading {
	if currency == "" {
		currency = FallbackCurrency
	}
	rows := make([]Reading, 0, MaxRecent)
	for _, e := range p.Recent {
		if len(rows) == MaxRecent {
			break
		}
		r := Reading{
			Timestamp:   e.Timestamp,
			FlowLPS:     e.FlowLPS,
			LitersDelta: e.LitersDelta,
			LitersTotal: e.LitersTotal,
			Currency:    currency,
		}
		switch {
		case e.CostDelta != nil:
			r.CostDelta = *e.CostDelta
		case priceKnown:
			r.CostDelta = Cost(e.LitersDelta, price)
		}
		switch {
		case e.CostTotal != nil:
			r.CostTotal = *e.CostTotal
		case priceKnown:
			r.CostTotal = Cost(e.LitersTotal, price)
		}
		rows = append(rows, r)
	}
	return rows
}

// MergePush folds a push frame into the snapshot. Fields absent from the
// frame keep their previous value (zero when nothing existed yet); the cost
// total is recomputed only when a price is already known.
func MergePush(prev *Snapshot, msg models.PushMessage) *Snapshot {
	var next Snapshot
	if prev != nil {
		next = *prev
	}
	next.MeterCode = msg.MeterCode
	if msg.FlowLPS != nil {
		next.FlowLPS = *msg.FlowLPS
	}
	if msg.LitersTotal != nil {
		next.LitersTotal = *msg.LitersTotal
	}
	if msg.Timestamp != "" {
		next.Timestamp = msg.Timestamp
	}
	if next.PriceKnown {
		next.CostTotal = Cost(next.LitersTotal, next.PricePerLiter)
	}
	return &next
}

// ReadingFromPush derives one table row from a push frame. Absent numerics
// default to zero; currency falls back when unknown.
func ReadingFromPush(msg models.PushMessage, price float64, priceKnown bool, currency string) Reading {
	if currency == "" {
		currency = FallbackCurrency
	}
	r := Reading{
		Timestamp: msg.Timestamp,
		Currency:  currency,
	}
	if msg.FlowLPS != nil {
		r.FlowLPS = *msg.FlowLPS
	}
	if msg.LitersDelta != nil {
		r.LitersDelta = *msg.LitersDelta
	}
	if msg.LitersTotal != nil {
		r.LitersTotal = *msg.LitersTotal
	}
	if priceKnown {
		r.CostDelta = Cost(r.LitersDelta, price)
		r.CostTotal = Cost(r.LitersTotal, price)
	}
	return r
}

// PrependReading puts row first and truncates to MaxRecent. The input slice
// is not modified.
func PrependReading(recent []Reading, row Reading) []Reading {
	n := len(recent)
	if n > MaxRecent-1 {
		n = MaxRecent - 1
	}
	out := make([]Reading, 0, n+1)
	out = append(out, row)
	out = append(out, recent[:n]...)
	return out
}
