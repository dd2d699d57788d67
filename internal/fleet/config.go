package fleet

import "time"

// Config holds the upstream wiring for the fleet manager. A source
// with an empty URL still gets a controller; its polls fail with a
// ConfigurationError so the missing URL is visible in the source state
// instead of the source silently not existing.
type Config struct {
	TpappsURL   string
	DikshankURL string

	// DikshankRelayURL, when set, makes the dikshank poller consume
	// the proxy relay endpoint at this base URL instead of calling
	// the upstream directly.
	DikshankRelayURL string

	PollInterval   time.Duration
	RequestTimeout time.Duration
}

func (config Config) sourceConfigured(name string) bool {
	switch name {
	case SourceTpapps:
		return config.TpappsURL != ""
	case SourceDikshank:
		return config.DikshankURL != ""
	default:
		return false
	}
}
