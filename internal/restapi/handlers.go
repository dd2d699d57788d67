package restapi

import (
	"net/http"
	"time"

	"fleetmap.kanpurcity.org/internal/logging"
	"fleetmap.kanpurcity.org/internal/models"
	"fleetmap.kanpurcity.org/internal/utils"
)

// kanpurCenter is the default map viewport, centered on Kanpur city.
var kanpurCenter = models.Position{Lat: 26.4499, Lon: 80.3319}

const kanpurZoom = 12

type healthResponse struct {
	Status         string          `json:"status"`
	Timestamp      string          `json:"timestamp"`
	APIsConfigured map[string]bool `json:"apis_configured"`
}

type sourcesResponse struct {
	Sources   []fleetSourceEntry `json:"sources"`
	Timestamp string             `json:"timestamp"`
}

type fleetSourceEntry struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Status  string `json:"status"`
}

type toggleResponse struct {
	Source  string `json:"source"`
	Enabled bool   `json:"enabled"`
}

type mapConfigResponse struct {
	Center           models.Position `json:"center"`
	Zoom             int             `json:"zoom"`
	TileURL          string          `json:"tileUrl"`
	ArcGISServiceURL string          `json:"arcgisServiceUrl,omitempty"`
	Layers           []int           `json:"layers"`
}

func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	api.sendJSON(w, http.StatusOK, healthResponse{
		Status:         "Server is running",
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		APIsConfigured: api.Fleet.ConfiguredSources(),
	})
}

// relayVehiclesHandler fetches live vehicles from the named upstream
// on every request. No caching here: the browser talks to this
// endpoint instead of the upstream directly so that credentials and
// TLS quirks stay server side.
func (api *RestAPI) relayVehiclesHandler(w http.ResponseWriter, r *http.Request) {
	source := utils.ExtractParam(r, "source")

	adapter, ok := api.Fleet.Adapter(source)
	if !ok {
		api.unknownSourceResponse(w, source)
		return
	}

	ctx := logging.WithLogger(r.Context(), api.Logger)
	vehicles, err := adapter.FetchVehicles(ctx)
	if err != nil {
		logging.LogError(api.Logger, "relay fetch failed", err)
		api.relayErrorResponse(w, source, err)
		return
	}

	api.sendJSON(w, http.StatusOK, models.VehiclesResponse{
		Vehicles:  vehicles,
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (api *RestAPI) sourcesHandler(w http.ResponseWriter, r *http.Request) {
	states := api.Fleet.States()
	entries := make([]fleetSourceEntry, 0, len(states))
	for _, snap := range states {
		enabled, _ := api.Fleet.SourceEnabled(snap.Name)
		entries = append(entries, fleetSourceEntry{
			Name:    snap.Name,
			Enabled: enabled,
			Status:  string(snap.State.Status),
		})
	}

	api.sendJSON(w, http.StatusOK, sourcesResponse{
		Sources:   entries,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (api *RestAPI) enableSourceHandler(w http.ResponseWriter, r *http.Request) {
	source := utils.ExtractParam(r, "source")
	if err := api.Fleet.EnableSource(source); err != nil {
		api.unknownSourceResponse(w, source)
		return
	}
	api.sendJSON(w, http.StatusOK, toggleResponse{Source: source, Enabled: true})
}

func (api *RestAPI) disableSourceHandler(w http.ResponseWriter, r *http.Request) {
	source := utils.ExtractParam(r, "source")
	if err := api.Fleet.DisableSource(source); err != nil {
		api.unknownSourceResponse(w, source)
		return
	}
	api.sendJSON(w, http.StatusOK, toggleResponse{Source: source, Enabled: false})
}

func (api *RestAPI) snapshotHandler(w http.ResponseWriter, r *http.Request) {
	api.sendJSON(w, http.StatusOK, api.Fleet.Snapshot())
}

// mapConfigHandler serves the viewport and base-layer configuration
// the map client boots from. The optional :layers path segment is a
// comma-separated list of ArcGIS layer IDs; invalid entries are
// dropped and an empty result falls back to the defaults.
func (api *RestAPI) mapConfigHandler(w http.ResponseWriter, r *http.Request) {
	layers := utils.ParseLayerIDs(utils.ExtractParam(r, "layers"))

	api.sendJSON(w, http.StatusOK, mapConfigResponse{
		Center:           kanpurCenter,
		Zoom:             kanpurZoom,
		TileURL:          api.Config.Map.TileURL,
		ArcGISServiceURL: api.Config.Map.ArcGISServiceURL,
		Layers:           layers,
	})
}
