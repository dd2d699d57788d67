// Package restapi is the HTTP surface of the relay process: per-source
// vehicle relay endpoints, the liveness check, the aggregated snapshot
// and the operator's source toggles.
package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"fleetmap.kanpurcity.org/internal/app"
)

type RestAPI struct {
	*app.Application
}

func NewRestAPI(application *app.Application) *RestAPI {
	return &RestAPI{Application: application}
}

// Routes returns the fully assembled handler: the router wrapped in
// request logging, CORS and panic recovery. Recovery is outermost so
// no failure can escape without the error envelope.
func (api *RestAPI) Routes() http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)

	handler := NewRequestLoggingMiddleware(api.Logger)(router)
	handler = api.WithCORS(handler)
	return api.WithRecovery(handler)
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/health", http.HandlerFunc(api.healthHandler))
	router.Handler(http.MethodGet, "/api/:source/vehicles", http.HandlerFunc(api.relayVehiclesHandler))
	router.Handler(http.MethodGet, "/sources", http.HandlerFunc(api.sourcesHandler))
	router.Handler(http.MethodPost, "/sources/:source/enable", http.HandlerFunc(api.enableSourceHandler))
	router.Handler(http.MethodPost, "/sources/:source/disable", http.HandlerFunc(api.disableSourceHandler))
	router.Handler(http.MethodGet, "/snapshot", http.HandlerFunc(api.snapshotHandler))
	router.Handler(http.MethodGet, "/map/config", http.HandlerFunc(api.mapConfigHandler))
	router.Handler(http.MethodGet, "/map/config/:layers", http.HandlerFunc(api.mapConfigHandler))

	if api.Stream != nil {
		router.Handler(http.MethodGet, "/stream", api.Stream)
	}
}
