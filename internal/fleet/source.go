package fleet

import (
	"context"

	"fleetmap.kanpurcity.org/internal/models"
)

// Source names. These identify the two upstream fleet-tracking feeds
// throughout the system: in state snapshots, relay URLs and logs.
const (
	SourceTpapps   = "tpapps"
	SourceDikshank = "dikshank"
)

// Source abstracts one upstream fleet-tracking feed. Implementations
// fetch the upstream's native shape and return canonical vehicles;
// per-record problems are dropped silently, only whole-request
// failures surface as errors.
type Source interface {
	Name() string
	FetchVehicles(ctx context.Context) ([]models.Vehicle, error)
}
