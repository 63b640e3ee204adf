// Package domain holds types shared between the daemon and the API layer.
package domain

import (
	"fmt"
	"time"
)

const (
	HealthStatusOK          HealthStatus = "ok"
	HealthStatusTimeout     HealthStatus = "timeout"
	HealthStatusUnreachable HealthStatus = "unreachable"
	HealthStatusUnknown     HealthStatus = "unknown"
)

// HealthStatus is the reachability classification of one platform.
type HealthStatus string

// Duration serializes as a human-readable string in API responses.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d *Duration) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	s := fmt.Sprintf(`"%s"`, time.Duration(*d).String())
	return []byte(s), nil
}

// PlatformHealth is the latest health record for one platform.
type PlatformHealth struct {
	Name           string       `json:"name"`
	Status         HealthStatus `json:"status"`
	Latency        *Duration    `json:"latency"`
	LastChecked    *time.Time   `json:"last_checked"`
	LastSuccessful *time.Time   `json:"last_successful"`
}
