package fleet

import "fmt"

// ConfigurationError means a source has no upstream URL configured.
// Polling for that source cannot succeed until the configuration
// changes, so it is reported once rather than retried noisily.
type ConfigurationError struct {
	Source  string
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("upstream URL is not configured (%s)", e.Missing)
}

// UpstreamError means the upstream answered but the response was not
// usable: a non-2xx HTTP status or a body that failed to parse. It is
// retried on the next scheduled poll.
type UpstreamError struct {
	Source     string
	StatusCode int
	Reason     string
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Reason != "":
		return fmt.Sprintf("upstream request failed: HTTP status %d: %s", e.StatusCode, e.Reason)
	case e.StatusCode != 0:
		return fmt.Sprintf("upstream request failed: HTTP status %d", e.StatusCode)
	default:
		return fmt.Sprintf("upstream request failed: %s", e.Reason)
	}
}

// TransportError means the request never produced an HTTP response
// (DNS, connection, TLS or timeout failure). Same retry policy as
// UpstreamError.
type TransportError struct {
	Source string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
