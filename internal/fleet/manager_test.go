package fleet

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerPollingIsolation(t *testing.T) {
	// tpapps is down, dikshank is healthy; each source's state must be
	// independent.
	tpappsServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer tpappsServer.Close()

	dikshankServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [
			{"vehicleId": "1", "Lattitude": "26.4", "Longitude": "80.3"},
			{"vehicleId": "2", "Lattitude": "26.5", "Longitude": "80.4"}
		]}`))
	}))
	defer dikshankServer.Close()

	manager := NewManager(Config{
		TpappsURL:    tpappsServer.URL,
		DikshankURL:  dikshankServer.URL,
		PollInterval: time.Hour,
	}, nil)
	manager.Start()
	defer manager.Shutdown()

	require.Eventually(t, func() bool {
		states := manager.States()
		return states[0].State.Status == SourceError && states[1].State.Status == SourceSuccess
	}, 3*time.Second, 10*time.Millisecond)

	snapshot := manager.Snapshot()
	assert.Equal(t, []string{"dikshank"}, snapshot.Summary.ActiveSources)
	assert.Equal(t, []string{"tpapps"}, snapshot.Summary.FailedSources)
	assert.Equal(t, 2, snapshot.Summary.TotalVehicles)
	require.Len(t, snapshot.Summary.Errors, 1)
	assert.Contains(t, snapshot.Summary.Errors[0], "Tpapps API:")
}

func TestManagerConfiguredSources(t *testing.T) {
	manager := NewManager(Config{TpappsURL: "https://tpapps.example.com/fleet"}, nil)
	configured := manager.ConfiguredSources()

	assert.True(t, configured[SourceTpapps])
	assert.False(t, configured[SourceDikshank])
}

func TestManagerSourceToggle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"vehicles": [{"imei": "1", "lat": 26.4, "lng": 80.3, "equipmentIcon": "i.png"}]}`))
	}))
	defer server.Close()

	manager := NewManager(Config{TpappsURL: server.URL, PollInterval: time.Hour}, nil)
	manager.Start()
	defer manager.Shutdown()

	require.Eventually(t, func() bool {
		return manager.States()[0].State.Status == SourceSuccess
	}, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, manager.DisableSource(SourceTpapps))
	state := manager.States()[0].State
	assert.Equal(t, SourceDisabled, state.Status)
	assert.Empty(t, state.Vehicles)

	enabled, err := manager.SourceEnabled(SourceTpapps)
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, manager.EnableSource(SourceTpapps))
	require.Eventually(t, func() bool {
		return manager.States()[0].State.Status == SourceSuccess
	}, 3*time.Second, 10*time.Millisecond)

	assert.Error(t, manager.DisableSource("nope"))
	assert.Error(t, manager.EnableSource("nope"))
}

func TestManagerDikshankViaRelay(t *testing.T) {
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/dikshank/vehicles", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"vehicles": [{"id": "9", "position": [26.4, 80.3], "iconUrl": "i.png", "title": "t", "status": "Running", "details": {}}],
			"source": "dikshank",
			"timestamp": "2025-08-14T11:02:10Z"
		}`))
	}))
	defer relay.Close()

	manager := NewManager(Config{
		DikshankRelayURL: relay.URL,
		PollInterval:     time.Hour,
	}, nil)
	manager.Start()
	defer manager.Shutdown()

	require.Eventually(t, func() bool {
		states := manager.States()
		return states[1].State.Status == SourceSuccess && len(states[1].State.Vehicles) == 1
	}, 3*time.Second, 10*time.Millisecond)
}

func TestManagerShutdownIsIdempotent(t *testing.T) {
	manager := NewManager(Config{}, nil)
	manager.Start()
	manager.Shutdown()
	manager.Shutdown() // must not panic or block
}

func TestManagerUpdateHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"vehicles": []}`))
	}))
	defer server.Close()

	manager := NewManager(Config{TpappsURL: server.URL, PollInterval: time.Hour}, nil)

	updates := make(chan struct{}, 16)
	manager.SetUpdateHook(func() {
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	manager.Start()
	defer manager.Shutdown()

	select {
	case <-updates:
	case <-time.After(3 * time.Second):
		t.Fatal("update hook was never invoked")
	}
}
