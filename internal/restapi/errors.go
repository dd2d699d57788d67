package restapi

import (
	"errors"
	"fmt"
	"net/http"

	"fleetmap.kanpurcity.org/internal/fleet"
	"fleetmap.kanpurcity.org/internal/models"
)

// relayErrorResponse translates an adapter failure into the standard
// error envelope. Missing configuration is the relay's own fault
// (500); an unreachable or misbehaving upstream is a bad gateway
// (502). Nothing propagates further: every failure becomes this
// envelope.
func (api *RestAPI) relayErrorResponse(w http.ResponseWriter, source string, err error) {
	status := http.StatusInternalServerError

	var upstreamErr *fleet.UpstreamError
	var transportErr *fleet.TransportError
	if errors.As(err, &upstreamErr) || errors.As(err, &transportErr) {
		status = http.StatusBadGateway
	}

	api.sendJSON(w, status, models.ErrorResponse{
		Error:   fmt.Sprintf("Failed to fetch %s vehicles data", source),
		Message: err.Error(),
		Source:  source,
	})
}
