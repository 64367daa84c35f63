package domain

import "time"

// Endpoint is one monitored target as resolved from the servers file.
// Name is unique across the configured set and keys all per-endpoint state.
type Endpoint struct {
	Name        string        `json:"name"`
	URL         string        `json:"url"`
	Destination string        `json:"-"` // webhook URL, carries a secret token
	Timeout     time.Duration `json:"timeout"`
}

type AlertKind string

const (
	AlertDown AlertKind = "DOWN"
	AlertUp   AlertKind = "UP"
)

// Alert is built by the monitor on a transition and handed to a notifier.
// Downtime is only set for AlertUp.
type Alert struct {
	Kind     AlertKind `json:"kind"`
	Endpoint string    `json:"endpoint"`
	URL      string    `json:"url"`
	At       time.Time `json:"at"`
	Downtime string    `json:"downtime,omitempty"`
}
