package fleet

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"fleetmap.kanpurcity.org/internal/logging"
	"fleetmap.kanpurcity.org/internal/models"
)

// DikshankSource fetches the dikshank fleet-tracking API. The upstream
// serves a broken certificate chain, so TLS verification is disabled
// for this one client. That is a documented trust exception for this
// specific vendor endpoint, not a general policy; no other HTTP client
// in the process relaxes verification.
type DikshankSource struct {
	url        string
	httpClient *http.Client
}

func NewDikshankSource(url string, timeout time.Duration) *DikshankSource {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402 -- see type comment
	}
	return &DikshankSource{
		url: url,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (s *DikshankSource) Name() string {
	return SourceDikshank
}

// dikshankEnvelope nests the vehicle list under "data". An absent key
// is an empty fleet, not an error.
type dikshankEnvelope struct {
	Data []dikshankRecord `json:"data"`
}

type dikshankRecord struct {
	VehicleID     looseString `json:"vehicleId"`
	VehicleNumber looseString `json:"vehicleNumber"`
	Lat           looseFloat  `json:"Lattitude"` // upstream misspells latitude
	Lon           looseFloat  `json:"Longitude"`
	Status        looseString `json:"vehicle_status"`
	VehicleType   looseString `json:"vehicleType"`
	LocationTime  looseString `json:"LocationTime"`
	Speed         looseString `json:"Speed"`
	Direction     looseString `json:"Direction"`
	Ignition      looseString `json:"ignition"`
}

func (s *DikshankSource) FetchVehicles(ctx context.Context) ([]models.Vehicle, error) {
	if s.url == "" {
		return nil, &ConfigurationError{Source: SourceDikshank, Missing: "DIKSHANK_API_URL"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &TransportError{Source: SourceDikshank, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Source: SourceDikshank, Err: err}
	}
	defer logging.SafeCloseWithLogging(resp.Body,
		logging.FromContext(ctx).With(slog.String("component", "dikshank_source")),
		"http_response_body")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Source: SourceDikshank, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Source: SourceDikshank, Err: err}
	}

	var envelope dikshankEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &UpstreamError{Source: SourceDikshank, Reason: fmt.Sprintf("malformed response body: %v", err)}
	}

	vehicles := make([]models.Vehicle, 0, len(envelope.Data))
	for _, r := range envelope.Data {
		if !r.Lat.ok || !r.Lon.ok || r.VehicleID == "" {
			continue
		}

		status := models.NormalizeStatus(r.Status.String())
		ignition := "On"
		if r.Ignition == "00" {
			ignition = "Off"
		}

		vehicles = append(vehicles, models.Vehicle{
			ID:       r.VehicleID.String(),
			Position: models.Position{Lat: r.Lat.value, Lon: r.Lon.value},
			IconURL:  IconForVehicle(r.VehicleType.String(), status),
			Title:    r.VehicleNumber.String(),
			Status:   status,
			Details: models.Details{
				{Label: "Vehicle Type", Value: r.VehicleType.String()},
				{Label: "Last Update", Value: r.LocationTime.String()},
				{Label: "Speed", Value: fmt.Sprintf("%s km/h", r.Speed)},
				{Label: "Direction", Value: r.Direction.String()},
				{Label: "Ignition", Value: ignition},
			},
		})
	}
	return vehicles, nil
}
