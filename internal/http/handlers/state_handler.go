package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"meterwatch/internal/session"
	"meterwatch/internal/state"
)

type stateResponse struct {
	MeterCode string          `json:"meter_code"`
	Status    string          `json:"status"`
	Error     string          `json:"error,omitempty"`
	Latest    *state.Snapshot `json:"latest"`
	Recent    []state.Reading `json:"recent"`
}

// NewStateHandler returns GET /api/meter/{meterCode}/state handler, the
// machine-readable mirror of the dashboard page.
func NewStateHandler(manager *session.Manager, defaults Defaults) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meterCode := mux.Vars(r)["meterCode"]
		if meterCode == "" {
			meterCode = defaults.Meter
		}
		pin := r.URL.Query().Get("pin")
		if pin == "" {
			pin = defaults.PIN
		}

		v := manager.Acquire(meterCode, pin).View()
		writeJSON(w, http.StatusOK, stateResponse{
			MeterCode: meterCode,
			Status:    v.Status.String(),
			Error:     v.LoadError,
			Latest:    v.Snapshot,
			Recent:    v.Recent,
		})
	}
}
