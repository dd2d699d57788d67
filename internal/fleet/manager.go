package fleet

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Manager owns one polling controller per source plus the direct
// adapters the relay endpoints use. Source order is fixed so
// snapshots and aggregates are deterministic.
type Manager struct {
	config   Config
	logger   *slog.Logger
	names    []string
	adapters map[string]Source
	pollers  map[string]*Controller

	shutdownOnce sync.Once
}

func NewManager(config Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	tpapps := NewTpappsSource(config.TpappsURL, timeout)
	dikshank := NewDikshankSource(config.DikshankURL, timeout)

	// The poller for dikshank goes through the relay when one is
	// configured; the relay endpoints themselves always use the
	// direct adapters.
	var dikshankPollSource Source = dikshank
	if config.DikshankRelayURL != "" {
		dikshankPollSource = NewRelaySource(SourceDikshank, config.DikshankRelayURL, timeout)
	}

	manager := &Manager{
		config: config,
		logger: logger,
		names:  []string{SourceTpapps, SourceDikshank},
		adapters: map[string]Source{
			SourceTpapps:   tpapps,
			SourceDikshank: dikshank,
		},
		pollers: map[string]*Controller{
			SourceTpapps:   NewController(tpapps, config.PollInterval, timeout, logger),
			SourceDikshank: NewController(dikshankPollSource, config.PollInterval, timeout, logger),
		},
	}
	return manager
}

// SetUpdateHook registers a callback invoked after any source changes
// state. Call before Start.
func (m *Manager) SetUpdateHook(fn func()) {
	for _, poller := range m.pollers {
		poller.SetUpdateHook(fn)
	}
}

// Start enables polling for every source.
func (m *Manager) Start() {
	for _, name := range m.names {
		m.pollers[name].Enable()
	}
}

// Shutdown stops all polling loops and waits for them to exit.
func (m *Manager) Shutdown() {
	m.shutdownOnce.Do(func() {
		for _, name := range m.names {
			m.pollers[name].Shutdown()
		}
	})
}

// SourceNames returns the source names in fixed display order.
func (m *Manager) SourceNames() []string {
	return append([]string(nil), m.names...)
}

// Adapter returns the direct upstream adapter for a source, used by
// the relay endpoints.
func (m *Manager) Adapter(name string) (Source, bool) {
	adapter, ok := m.adapters[name]
	return adapter, ok
}

// ConfiguredSources reports, per source, whether an upstream URL is
// configured. Used by the liveness endpoint; performs no network calls.
func (m *Manager) ConfiguredSources() map[string]bool {
	configured := make(map[string]bool, len(m.names))
	for _, name := range m.names {
		configured[name] = m.config.sourceConfigured(name)
	}
	return configured
}

// EnableSource re-enables polling for a source, triggering an
// immediate poll.
func (m *Manager) EnableSource(name string) error {
	poller, ok := m.pollers[name]
	if !ok {
		return fmt.Errorf("unknown source: %s", name)
	}
	poller.Enable()
	return nil
}

// DisableSource turns a source off: its pending polls are cancelled
// and its vehicle set is cleared.
func (m *Manager) DisableSource(name string) error {
	poller, ok := m.pollers[name]
	if !ok {
		return fmt.Errorf("unknown source: %s", name)
	}
	poller.Disable()
	return nil
}

// SourceEnabled reports whether a source's polling loop is running.
func (m *Manager) SourceEnabled(name string) (bool, error) {
	poller, ok := m.pollers[name]
	if !ok {
		return false, fmt.Errorf("unknown source: %s", name)
	}
	return poller.Enabled(), nil
}

// States returns a snapshot of every source's state, in fixed order.
func (m *Manager) States() []SourceSnapshot {
	snapshots := make([]SourceSnapshot, 0, len(m.names))
	for _, name := range m.names {
		snapshots = append(snapshots, SourceSnapshot{
			Name:  name,
			State: m.pollers[name].State(),
		})
	}
	return snapshots
}

// Snapshot combines the per-source states with the display summary.
func (m *Manager) Snapshot() Snapshot {
	states := m.States()
	return Snapshot{
		Sources:   states,
		Summary:   Aggregate(states),
		Timestamp: time.Now().UTC(),
	}
}
