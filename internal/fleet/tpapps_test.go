package fleet

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetmap.kanpurcity.org/internal/models"
)

func newTpappsServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestTpappsFetchVehicles(t *testing.T) {
	server := newTpappsServer(t, http.StatusOK, `{
		"vehicles": [
			{
				"imei": "868324025",
				"deviceId": "KNP-101",
				"lat": "26.4612",
				"lng": "80.3218",
				"equipmentIcon": "https://cdn.example.com/tipper.png",
				"equipmentTypeL": "Tipper",
				"speed": 18,
				"ignitionStatus": "On",
				"batteryPercent": 74,
				"address": "Mall Road, Kanpur",
				"validPacketTimeStamp": "1755147730",
				"heading": 92,
				"status": "RUNNING"
			}
		]
	}`)
	defer server.Close()

	source := NewTpappsSource(server.URL, 5*time.Second)
	vehicles, err := source.FetchVehicles(context.Background())
	require.NoError(t, err)
	require.Len(t, vehicles, 1)

	v := vehicles[0]
	assert.Equal(t, "tpapps-868324025", v.ID)
	assert.Equal(t, models.Position{Lat: 26.4612, Lon: 80.3218}, v.Position)
	assert.Equal(t, "https://cdn.example.com/tipper.png", v.IconURL)
	assert.Equal(t, "KNP-101", v.Title)
	assert.Equal(t, models.StatusRunning, v.Status)

	statusDetail, _ := v.Details.Get("Status")
	assert.Equal(t, "Running", statusDetail)
	equipment, _ := v.Details.Get("Equipment")
	assert.Equal(t, "Tipper", equipment)
	speed, _ := v.Details.Get("Speed")
	assert.Equal(t, "18 km/h", speed)
	battery, _ := v.Details.Get("Battery")
	assert.Equal(t, "74%", battery)
	direction, _ := v.Details.Get("Direction")
	assert.Equal(t, "92", direction)
	lastUpdate, _ := v.Details.Get("Last Update")
	assert.Equal(t, time.Unix(1755147730, 0).Format("1/2/2006, 3:04:05 PM"), lastUpdate)
}

func TestTpappsFiltering(t *testing.T) {
	server := newTpappsServer(t, http.StatusOK, `{
		"vehicles": [
			{"imei": "1", "lat": "26.4", "equipmentIcon": "i.png"},
			{"imei": "2", "lat": "26.4", "lng": "80.3"},
			{"imei": "3", "lat": "not-a-number", "lng": "80.3", "equipmentIcon": "i.png"},
			{"imei": "4", "lat": "26.4", "lng": "80.3", "equipmentIcon": "i.png"}
		]
	}`)
	defer server.Close()

	source := NewTpappsSource(server.URL, 5*time.Second)
	vehicles, err := source.FetchVehicles(context.Background())
	require.NoError(t, err)

	// Only the record with both coordinates and an icon survives.
	require.Len(t, vehicles, 1)
	assert.Equal(t, "tpapps-4", vehicles[0].ID)
}

func TestTpappsEnvelopeKeys(t *testing.T) {
	t.Run("falls back to data key", func(t *testing.T) {
		server := newTpappsServer(t, http.StatusOK, `{
			"data": [{"imei": "9", "lat": 26.4, "lng": 80.3, "equipmentIcon": "i.png"}]
		}`)
		defer server.Close()

		source := NewTpappsSource(server.URL, 5*time.Second)
		vehicles, err := source.FetchVehicles(context.Background())
		require.NoError(t, err)
		require.Len(t, vehicles, 1)
		assert.Equal(t, "tpapps-9", vehicles[0].ID)
	})

	t.Run("missing list key is an empty fleet", func(t *testing.T) {
		server := newTpappsServer(t, http.StatusOK, `{"message": "no payload"}`)
		defer server.Close()

		source := NewTpappsSource(server.URL, 5*time.Second)
		vehicles, err := source.FetchVehicles(context.Background())
		require.NoError(t, err)
		assert.Empty(t, vehicles)
	})
}

func TestTpappsDefaults(t *testing.T) {
	server := newTpappsServer(t, http.StatusOK, `{
		"vehicles": [{"imei": "5", "lat": 26.4, "lng": 80.3, "equipmentIcon": "i.png"}]
	}`)
	defer server.Close()

	source := NewTpappsSource(server.URL, 5*time.Second)
	vehicles, err := source.FetchVehicles(context.Background())
	require.NoError(t, err)
	require.Len(t, vehicles, 1)

	address, _ := vehicles[0].Details.Get("Address")
	assert.Equal(t, "N/A", address)
	direction, _ := vehicles[0].Details.Get("Direction")
	assert.Equal(t, "0", direction)
	lastUpdate, _ := vehicles[0].Details.Get("Last Update")
	assert.Equal(t, "N/A", lastUpdate)
	assert.Equal(t, models.StatusUnknown, vehicles[0].Status)
}

func TestTpappsUpstreamFailure(t *testing.T) {
	server := newTpappsServer(t, http.StatusServiceUnavailable, `oops`)
	defer server.Close()

	source := NewTpappsSource(server.URL, 5*time.Second)
	_, err := source.FetchVehicles(context.Background())
	require.Error(t, err)

	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusServiceUnavailable, upstreamErr.StatusCode)
	assert.Equal(t, SourceTpapps, upstreamErr.Source)
}

func TestTpappsMalformedBody(t *testing.T) {
	server := newTpappsServer(t, http.StatusOK, `{"vehicles": [`)
	defer server.Close()

	source := NewTpappsSource(server.URL, 5*time.Second)
	_, err := source.FetchVehicles(context.Background())
	require.Error(t, err)

	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Contains(t, upstreamErr.Reason, "malformed response body")
}

func TestTpappsMissingURL(t *testing.T) {
	source := NewTpappsSource("", 5*time.Second)
	_, err := source.FetchVehicles(context.Background())
	require.Error(t, err)

	var configErr *ConfigurationError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, "TPAPPS_API_URL", configErr.Missing)
}

func TestTpappsTransportFailure(t *testing.T) {
	server := newTpappsServer(t, http.StatusOK, `{}`)
	server.Close() // connection refused

	source := NewTpappsSource(server.URL, time.Second)
	_, err := source.FetchVehicles(context.Background())
	require.Error(t, err)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
}
