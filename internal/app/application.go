package app

import (
	"log/slog"

	"fleetmap.kanpurcity.org/internal/config"
	"fleetmap.kanpurcity.org/internal/fleet"
	"fleetmap.kanpurcity.org/internal/stream"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware: the configuration value, the logger, the fleet
// manager that owns per-source polling, and the websocket hub.
type Application struct {
	Config config.Config
	Logger *slog.Logger
	Fleet  *fleet.Manager
	Stream *stream.Hub
}
