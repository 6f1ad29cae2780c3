package monitoring

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthReport is the body of the health endpoint.
type HealthReport struct {
	Status            string            `json:"status"` // "ok" or "degraded"
	Stores            map[string]string `json:"stores"`
	MemoryUsedPercent float64           `json:"memory_used_percent"`
	UptimeSeconds     uint64            `json:"uptime_seconds"`
	CheckedAt         time.Time         `json:"checked_at"`
}

// HealthChecker probes the stores and samples host stats.
type HealthChecker struct {
	stores  map[string]Pinger
	timeout time.Duration
}

// NewHealthChecker creates a HealthChecker over the named stores.
func NewHealthChecker(stores map[string]Pinger) *HealthChecker {
	return &HealthChecker{stores: stores, timeout: 2 * time.Second}
}

// Check pings every store and reports "degraded" if any of them fails.
func (h *HealthChecker) Check(ctx context.Context) HealthReport {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	report := HealthReport{
		Status:    "ok",
		Stores:    make(map[string]string, len(h.stores)),
		CheckedAt: time.Now().UTC(),
	}

	for name, store := range h.stores {
		if err := store.PingContext(ctx); err != nil {
			log.Warn().Err(err).Str("store", name).Msg("Health check: store unreachable")
			report.Stores[name] = "unavailable"
			report.Status = "degraded"
			continue
		}
		report.Stores[name] = "ok"
	}

	// Host stats are informational only.
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		report.MemoryUsedPercent = vm.UsedPercent
	} else {
		log.Debug().Err(err).Msg("Health check: memory stats unavailable")
	}
	if uptime, err := host.UptimeWithContext(ctx); err == nil {
		report.UptimeSeconds = uptime
	} else {
		log.Debug().Err(err).Msg("Health check: uptime unavailable")
	}

	return report
}
