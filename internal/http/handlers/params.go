package handlers

import "net/http"

// Defaults are the literals used when a query parameter is absent.
type Defaults struct {
	Meter string
	PIN   string
}

// Resolve reads the meter and pin identifiers from the request query string,
// falling back to the configured defaults. This is the only configuration
// surface a dashboard request carries.
func Resolve(r *http.Request, d Defaults) (meterCode, pin string) {
	q := r.URL.Query()
	meterCode = q.Get("meter")
	if meterCode == "" {
		meterCode = d.Meter
	}
	pin = q.Get("pin")
	if pin == "" {
		pin = d.PIN
	}
	return meterCode, pin
}
