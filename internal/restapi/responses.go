package restapi

import (
	"encoding/json"
	"net/http"

	"fleetmap.kanpurcity.org/internal/logging"
	"fleetmap.kanpurcity.org/internal/models"
)

func (api *RestAPI) sendJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.LogError(api.Logger, "failed to encode response", err)
	}
}

// unknownSourceResponse is the envelope for a source name no adapter
// exists for.
func (api *RestAPI) unknownSourceResponse(w http.ResponseWriter, source string) {
	api.sendJSON(w, http.StatusNotFound, models.ErrorResponse{
		Error:   "unknown source",
		Message: "no such source: " + source,
		Source:  source,
	})
}
