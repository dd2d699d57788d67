package fleet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fleetmap.kanpurcity.org/internal/logging"
	"fleetmap.kanpurcity.org/internal/models"
)

// RelaySource consumes a source through the proxy relay's same-origin
// endpoint instead of the upstream directly. It is used when the
// poller runs apart from the relay process, e.g. the dikshank feed
// that browsers cannot reach because of its certificate problems.
type RelaySource struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

func NewRelaySource(name, baseURL string, timeout time.Duration) *RelaySource {
	return &RelaySource{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *RelaySource) Name() string {
	return s.name
}

func (s *RelaySource) FetchVehicles(ctx context.Context) ([]models.Vehicle, error) {
	if s.baseURL == "" {
		return nil, &ConfigurationError{Source: s.name, Missing: "relay base URL"}
	}

	url := fmt.Sprintf("%s/api/%s/vehicles", s.baseURL, s.name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{Source: s.name, Err: err}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Source: s.name, Err: err}
	}
	defer logging.SafeCloseWithLogging(resp.Body,
		logging.FromContext(ctx).With(slog.String("component", "relay_source")),
		"http_response_body")

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Source: s.name, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The relay wraps failures in its error envelope; surface its
		// message when one is present.
		var envelope models.ErrorResponse
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
			return nil, &UpstreamError{Source: s.name, StatusCode: resp.StatusCode, Reason: envelope.Message}
		}
		return nil, &UpstreamError{Source: s.name, StatusCode: resp.StatusCode}
	}

	var envelope models.VehiclesResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &UpstreamError{Source: s.name, Reason: fmt.Sprintf("malformed relay response: %v", err)}
	}
	return envelope.Vehicles, nil
}
