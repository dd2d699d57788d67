package models

// VehiclesResponse is the relay's success envelope for one source.
type VehiclesResponse struct {
	Vehicles  []Vehicle `json:"vehicles"`
	Source    string    `json:"source"`
	Timestamp string    `json:"timestamp"`
}

// ErrorResponse is the relay's failure envelope. Every failure the
// relay can hit, including panics, is reshaped into this form.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Source  string `json:"source"`
}
