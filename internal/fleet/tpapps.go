package fleet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"fleetmap.kanpurcity.org/internal/logging"
	"fleetmap.kanpurcity.org/internal/models"
)

// TpappsSource fetches the tpapps fleet-tracking API directly.
type TpappsSource struct {
	url        string
	httpClient *http.Client
}

func NewTpappsSource(url string, timeout time.Duration) *TpappsSource {
	return &TpappsSource{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *TpappsSource) Name() string {
	return SourceTpapps
}

// tpappsEnvelope tolerates both list keys the upstream has been seen
// to use. Absence of both is an empty fleet, not an error.
type tpappsEnvelope struct {
	Vehicles []tpappsRecord `json:"vehicles"`
	Data     []tpappsRecord `json:"data"`
}

func (e tpappsEnvelope) records() []tpappsRecord {
	if e.Vehicles != nil {
		return e.Vehicles
	}
	return e.Data
}

type tpappsRecord struct {
	IMEI           looseString `json:"imei"`
	DeviceID       looseString `json:"deviceId"`
	Lat            looseFloat  `json:"lat"`
	Lng            looseFloat  `json:"lng"`
	EquipmentIcon  string      `json:"equipmentIcon"`
	EquipmentType  looseString `json:"equipmentTypeL"`
	Speed          looseString `json:"speed"`
	IgnitionStatus looseString `json:"ignitionStatus"`
	BatteryPercent looseString `json:"batteryPercent"`
	Address        looseString `json:"address"`
	PacketTime     looseString `json:"validPacketTimeStamp"`
	Heading        looseString `json:"heading"`
	Status         looseString `json:"status"`
}

func (s *TpappsSource) FetchVehicles(ctx context.Context) ([]models.Vehicle, error) {
	if s.url == "" {
		return nil, &ConfigurationError{Source: SourceTpapps, Missing: "TPAPPS_API_URL"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &TransportError{Source: SourceTpapps, Err: err}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Source: SourceTpapps, Err: err}
	}
	defer logging.SafeCloseWithLogging(resp.Body,
		logging.FromContext(ctx).With(slog.String("component", "tpapps_source")),
		"http_response_body")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Source: SourceTpapps, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Source: SourceTpapps, Err: err}
	}

	var envelope tpappsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &UpstreamError{Source: SourceTpapps, Reason: fmt.Sprintf("malformed response body: %v", err)}
	}

	records := envelope.records()
	vehicles := make([]models.Vehicle, 0, len(records))
	for _, r := range records {
		// Both coordinates and a marker icon are required for this feed.
		if !r.Lat.ok || !r.Lng.ok || r.EquipmentIcon == "" {
			continue
		}

		status := models.NormalizeStatus(r.Status.String())
		address := r.Address.String()
		if address == "" {
			address = "N/A"
		}
		heading := r.Heading.String()
		if heading == "" {
			heading = "0"
		}

		vehicles = append(vehicles, models.Vehicle{
			ID:       fmt.Sprintf("tpapps-%s", r.IMEI),
			Position: models.Position{Lat: r.Lat.value, Lon: r.Lng.value},
			IconURL:  r.EquipmentIcon,
			Title:    r.DeviceID.String(),
			Status:   status,
			Details: models.Details{
				{Label: "Status", Value: string(status)},
				{Label: "Equipment", Value: r.EquipmentType.String()},
				{Label: "Speed", Value: fmt.Sprintf("%s km/h", r.Speed)},
				{Label: "Ignition", Value: r.IgnitionStatus.String()},
				{Label: "Battery", Value: fmt.Sprintf("%s%%", r.BatteryPercent)},
				{Label: "Address", Value: address},
				{Label: "Last Update", Value: formatEpochSeconds(r.PacketTime.String())},
				{Label: "Direction", Value: heading},
			},
		})
	}
	return vehicles, nil
}
