package view

import (
	"strings"

	"meterwatch/internal/session"
	"meterwatch/internal/state"
)

// Page is the fully formatted dashboard model. Every numeric field is
// already a 3-decimal string; the template carries no logic.
type Page struct {
	MeterCode   string
	Category    string
	Address     string
	Flow        string
	LitersTotal string
	Price       string
	CostTotal   string
	Currency    string
	Status      string
	Timestamp   string
	LoadError   string
	HasData     bool
	Rows        []Row

	RefreshSeconds int
}

// Row is one formatted line of the recent readings table.
type Row struct {
	Timestamp   string
	Flow        string
	LitersDelta string
	LitersTotal string
	CostDelta   string
	CostTotal   string
	Currency    string
}

// BuildPage projects a session view into the page model. meterCode is the
// requested identifier, shown even before any load has succeeded.
func BuildPage(meterCode string, v session.View) Page {
	p := Page{
		MeterCode:      meterCode,
		Flow:           Amount(0),
		LitersTotal:    Amount(0),
		Price:          Amount(0),
		CostTotal:      Amount(0),
		Currency:       state.FallbackCurrency,
		Status:         v.Status.String(),
		Timestamp:      "no data yet",
		LoadError:      v.LoadError,
		RefreshSeconds: 5,
	}

	if snap := v.Snapshot; snap != nil {
		p.HasData = true
		if snap.MeterCode != "" {
			p.MeterCode = snap.MeterCode
		}
		p.Category = snap.Category
		p.Address = joinAddress(snap.Barrio, snap.Calle, snap.Numero, snap.Predio)
		p.Flow = Amount(snap.FlowLPS)
		p.LitersTotal = Amount(snap.LitersTotal)
		p.Price = Amount(snap.PricePerLiter)
		p.CostTotal = Amount(snap.CostTotal)
		if snap.Currency != "" {
			p.Currency = snap.Currency
		}
		if snap.Timestamp != "" {
			p.Timestamp = snap.Timestamp
		}
	}

	for _, r := range v.Recent {
		p.Rows = append(p.Rows, Row{
			Timestamp:   r.Timestamp,
			Flow:        Amount(r.FlowLPS),
			LitersDelta: Amount(r.LitersDelta),
			LitersTotal: Amount(r.LitersTotal),
			CostDelta:   Amount(r.CostDelta),
			CostTotal:   Amount(r.CostTotal),
			Currency:    r.Currency,
		})
	}
	return p
}

func joinAddress(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
