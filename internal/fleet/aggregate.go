package fleet

import (
	"fmt"
	"strings"
	"time"
)

// SourceSnapshot pairs a source name with its observed state.
type SourceSnapshot struct {
	Name  string      `json:"name"`
	State SourceState `json:"state"`
}

// Summary is the read-side rollup the display header shows: totals and
// source health, computed from the per-source states without touching
// any vehicle record.
type Summary struct {
	TotalVehicles   int      `json:"totalVehicles"`
	ActiveSources   []string `json:"activeSources"`
	FailedSources   []string `json:"failedSources"`
	DisabledSources []string `json:"disabledSources"`
	Errors          []string `json:"errors"`
}

// Snapshot is the full aggregated view pushed to display clients.
type Snapshot struct {
	Sources   []SourceSnapshot `json:"sources"`
	Summary   Summary          `json:"summary"`
	Timestamp time.Time        `json:"timestamp"`
}

// Aggregate rolls the per-source states up into a Summary. Only
// sources in the success state contribute to the vehicle total; error
// and disabled sources contribute zero even when stale vehicles are
// retained. At most one error message appears per source, labeled with
// the source so a newer error replaces the older one for that source.
func Aggregate(snapshots []SourceSnapshot) Summary {
	summary := Summary{
		ActiveSources:   []string{},
		FailedSources:   []string{},
		DisabledSources: []string{},
		Errors:          []string{},
	}

	for _, snapshot := range snapshots {
		switch snapshot.State.Status {
		case SourceSuccess:
			summary.TotalVehicles += len(snapshot.State.Vehicles)
			summary.ActiveSources = append(summary.ActiveSources, snapshot.Name)
		case SourceError:
			summary.FailedSources = append(summary.FailedSources, snapshot.Name)
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("%s: %s", errorLabel(snapshot.Name), snapshot.State.LastError))
		case SourceDisabled:
			summary.DisabledSources = append(summary.DisabledSources, snapshot.Name)
		}
	}
	return summary
}

// errorLabel renders the human-readable "SourceName API" prefix the
// header uses to keep one visible message per source.
func errorLabel(name string) string {
	if name == "" {
		return "API"
	}
	return strings.ToUpper(name[:1]) + name[1:] + " API"
}
