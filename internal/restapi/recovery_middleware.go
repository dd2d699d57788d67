package restapi

import (
	"fmt"
	"log/slog"
	"net/http"

	"fleetmap.kanpurcity.org/internal/logging"
	"fleetmap.kanpurcity.org/internal/models"
)

// WithRecovery converts a handler panic into the standard error
// envelope instead of an aborted connection.
func (api *RestAPI) WithRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.LogError(
					api.Logger,
					"recovered from handler panic",
					fmt.Errorf("%v", rec),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Connection", "close")
				api.sendJSON(w, http.StatusInternalServerError, models.ErrorResponse{
					Error:   "internal server error",
					Message: "the server encountered an unexpected condition",
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}
