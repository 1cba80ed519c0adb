package httpserver

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes groups handlers.
type Routes struct {
	Dashboard  http.HandlerFunc
	MeterState http.HandlerFunc
	Health     http.HandlerFunc
}

// NewRouter registers endpoints. The API is served with permissive CORS,
// matching the upstream telemetry service.
func NewRouter(routes Routes) http.Handler {
	r := mux.NewRouter()
	r.Handle("/", routes.Dashboard).Methods(http.MethodGet)
	r.Handle("/api/meter/{meterCode}/state", routes.MeterState).Methods(http.MethodGet)
	r.Handle("/healthz", routes.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	return cors(r)
}
