package daemon

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/decocms/mcps/internal/contracts"
	"github.com/decocms/mcps/internal/domain"
	"github.com/decocms/mcps/internal/errors"
)

var _ contracts.HealthMonitor = (*HealthTracker)(nil)

// HealthTracker records the latest reachability check for each platform.
type HealthTracker struct {
	mu       sync.RWMutex
	statuses map[string]domain.PlatformHealth
}

// NewHealthTracker creates a tracker seeded with the given platform names,
// all initially unknown.
func NewHealthTracker(platformNames []string) *HealthTracker {
	statuses := make(map[string]domain.PlatformHealth, len(platformNames))
	for _, name := range platformNames {
		statuses[name] = domain.PlatformHealth{Name: name, Status: domain.HealthStatusUnknown}
	}
	return &HealthTracker{
		statuses: statuses,
	}
}

// Status returns the health status for a single tracked platform.
func (h *HealthTracker) Status(name string) (domain.PlatformHealth, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if health, ok := h.statuses[name]; ok {
		return health, nil
	}

	return domain.PlatformHealth{}, fmt.Errorf("%w: %s", errors.ErrHealthNotTracked, name)
}

// List returns a copy of all known platform health records.
func (h *HealthTracker) List() []domain.PlatformHealth {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Collect(maps.Values(h.statuses))
}

// Update records a health check for a tracked platform.
// The current time is recorded as LastChecked, and LastSuccessful is updated only if status is HealthStatusOK.
// Latency can be nil if the check failed or was not measured.
func (h *HealthTracker) Update(name string, status domain.HealthStatus, latency *time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	health, ok := h.statuses[name]
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrHealthNotTracked, name)
	}

	now := time.Now().UTC()
	health.Status = status
	health.LastChecked = &now
	if status == domain.HealthStatusOK {
		health.LastSuccessful = &now
	}

	health.Latency = nil
	if latency != nil {
		d := domain.Duration(*latency)
		health.Latency = &d
	}

	h.statuses[name] = health
	return nil
}
