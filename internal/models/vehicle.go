package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// Vehicle is the canonical vehicle record produced by every source
// adapter. The display layer consumes this shape without knowing which
// upstream produced it.
type Vehicle struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	IconURL  string   `json:"iconUrl"`
	Title    string   `json:"title"`
	Status   Status   `json:"status"`
	Details  Details  `json:"details"`
}

// Valid reports whether the record satisfies the canonical invariant:
// a non-empty ID and a finite numeric position.
func (v Vehicle) Valid() bool {
	return v.ID != "" && v.Position.Finite()
}

// Position is a latitude/longitude pair. It marshals as a two-element
// JSON array [lat, lon], the form the Leaflet frontend consumes.
type Position struct {
	Lat float64
	Lon float64
}

// Finite reports whether both coordinates are finite numbers.
func (p Position) Finite() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lon) && !math.IsInf(p.Lon, 0)
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lat, p.Lon})
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("position: expected [lat, lon], got %d elements", len(pair))
	}
	p.Lat = pair[0]
	p.Lon = pair[1]
	return nil
}
