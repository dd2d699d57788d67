package models

import "strings"

// Status is the normalized vehicle status vocabulary shared by every
// source. Upstream feeds disagree on spelling and casing; NormalizeStatus
// folds them into this set.
type Status string

const (
	StatusRunning  Status = "Running"
	StatusIdle     Status = "Idle"
	StatusStop     Status = "Stop"
	StatusWaiting  Status = "Waiting"
	StatusInactive Status = "Inactive"
	StatusUnknown  Status = "Unknown"
)

// KnownStatuses lists the fixed normalized vocabulary, in display order.
func KnownStatuses() []Status {
	return []Status{StatusRunning, StatusIdle, StatusStop, StatusWaiting, StatusInactive}
}

// NormalizeStatus maps a free-form upstream status string to the fixed
// vocabulary. Empty input yields Unknown. Unrecognized non-empty input is
// passed through unchanged so a new upstream status shows up verbatim
// instead of silently disappearing.
func NormalizeStatus(raw string) Status {
	if raw == "" {
		return StatusUnknown
	}

	switch strings.ToLower(raw) {
	case "running":
		return StatusRunning
	case "idle":
		return StatusIdle
	case "stop":
		return StatusStop
	case "waiting":
		return StatusWaiting
	case "inactive", "in-active":
		return StatusInactive
	}

	return Status(raw)
}
