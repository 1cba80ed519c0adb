package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"meterwatch/internal/session"
	"meterwatch/internal/view"
)

// NewDashboardHandler returns GET / handler rendering the meter page.
func NewDashboardHandler(manager *session.Manager, defaults Defaults, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meterCode, pin := Resolve(r, defaults)
		sess := manager.Acquire(meterCode, pin)
		page := view.BuildPage(meterCode, sess.View())

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := view.Render(w, page); err != nil {
			logger.Warn("failed to render dashboard", zap.String("meter_code", meterCode), zap.Error(err))
		}
	}
}
