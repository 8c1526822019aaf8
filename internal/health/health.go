package health

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Pinger is anything that can answer a liveness round trip.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthChecker struct {
	db    Pinger
	redis Pinger
}

type HealthStatus struct {
	Status   string           `json:"status"`
	Database ComponentHealth  `json:"database"`
	Redis    *ComponentHealth `json:"redis,omitempty"`
	Host     *HostStats       `json:"host,omitempty"`
}

type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
}

type HostStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskPercent   float64 `json:"disk_percent"`
	Goroutines    int     `json:"goroutines"`
}

// NewHealthChecker takes the database and an optional redis pinger.
func NewHealthChecker(db Pinger, redis Pinger) *HealthChecker {
	return &HealthChecker{db: db, redis: redis}
}

// CheckBasic reports healthy when the database answers. Redis is optional,
// so a failing cache degrades the report without failing readiness.
func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	dbHealth := check(ctx, h.db)

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	}

	result := HealthStatus{Status: status, Database: dbHealth}
	if h.redis != nil {
		r := check(ctx, h.redis)
		result.Redis = &r
	}
	return result
}

// CheckDetailed adds host resource usage to the basic report.
func (h *HealthChecker) CheckDetailed(ctx context.Context) HealthStatus {
	result := h.CheckBasic(ctx)
	result.Host = hostStats()
	return result
}

func check(ctx context.Context, p Pinger) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return ComponentHealth{Status: "unhealthy", ResponseTime: responseTime, Error: err.Error()}
	}
	return ComponentHealth{Status: "healthy", ResponseTime: responseTime}
}

func hostStats() *HostStats {
	stats := &HostStats{Goroutines: runtime.NumGoroutine()}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = vm.UsedPercent
	}
	if usage, err := disk.Usage("/"); err == nil {
		stats.DiskPercent = usage.UsedPercent
	}
	return stats
}
