package fleet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fleetmap.kanpurcity.org/internal/models"
)

func snapshotWith(name string, status SourceStatus, vehicleCount int, lastError string) SourceSnapshot {
	vehicles := make([]models.Vehicle, vehicleCount)
	for i := range vehicles {
		vehicles[i] = models.Vehicle{ID: "v", Position: models.Position{Lat: 26.4, Lon: 80.3}}
	}
	return SourceSnapshot{
		Name: name,
		State: SourceState{
			Vehicles:    vehicles,
			Status:      status,
			LastUpdated: time.Now(),
			LastError:   lastError,
		},
	}
}

func TestAggregateCountsSuccessfulSourcesOnly(t *testing.T) {
	summary := Aggregate([]SourceSnapshot{
		snapshotWith("tpapps", SourceSuccess, 12, ""),
		snapshotWith("dikshank", SourceSuccess, 5, ""),
	})

	assert.Equal(t, 17, summary.TotalVehicles)
	assert.Equal(t, []string{"tpapps", "dikshank"}, summary.ActiveSources)
	assert.Empty(t, summary.FailedSources)
	assert.Empty(t, summary.Errors)
}

func TestAggregateStaleErrorSourceContributesZero(t *testing.T) {
	// The error source still holds 8 stale vehicles; they must not be
	// counted.
	summary := Aggregate([]SourceSnapshot{
		snapshotWith("tpapps", SourceError, 8, "upstream request failed: HTTP status 503"),
		snapshotWith("dikshank", SourceSuccess, 5, ""),
	})

	assert.Equal(t, 5, summary.TotalVehicles)
	assert.Equal(t, []string{"dikshank"}, summary.ActiveSources)
	assert.Equal(t, []string{"tpapps"}, summary.FailedSources)
}

func TestAggregateErrorMessages(t *testing.T) {
	summary := Aggregate([]SourceSnapshot{
		snapshotWith("tpapps", SourceError, 0, "network error: connection refused"),
		snapshotWith("dikshank", SourceError, 0, "upstream request failed: HTTP status 500"),
	})

	// One labeled message per source, so a fresh aggregate naturally
	// replaces any earlier message for the same source.
	assert.Equal(t, []string{
		"Tpapps API: network error: connection refused",
		"Dikshank API: upstream request failed: HTTP status 500",
	}, summary.Errors)
}

func TestAggregateDisabledSources(t *testing.T) {
	summary := Aggregate([]SourceSnapshot{
		snapshotWith("tpapps", SourceDisabled, 0, ""),
		snapshotWith("dikshank", SourceUninitialized, 0, ""),
	})

	assert.Equal(t, 0, summary.TotalVehicles)
	assert.Equal(t, []string{"tpapps"}, summary.DisabledSources)
	assert.Empty(t, summary.ActiveSources)
	assert.Empty(t, summary.FailedSources)
}

func TestAggregateEmptyInput(t *testing.T) {
	summary := Aggregate(nil)
	assert.Equal(t, 0, summary.TotalVehicles)
	assert.NotNil(t, summary.ActiveSources)
	assert.NotNil(t, summary.Errors)
}
