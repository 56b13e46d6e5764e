package health

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"parking-client/internal/storage"
)

// Pinger is anything whose reachability can be probed
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	store    storage.Store
	backend  Pinger
	diskPath string
}

type HealthStatus struct {
	Status  string        `json:"status"`
	Storage StorageHealth `json:"storage"`
	Backend *BackendState `json:"backend,omitempty"`
}

type StorageHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
}

// BackendState reports whether the remote parking API answered
type BackendState struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

// HostStats is the host resource section of the detailed report
type HostStats struct {
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsed    string  `json:"memory_used"`
	MemoryTotal   string  `json:"memory_total"`
	DiskPercent   float64 `json:"disk_percent"`
	DiskUsed      string  `json:"disk_used"`
	DiskTotal     string  `json:"disk_total"`
}

type DetailedStatus struct {
	HealthStatus
	Host      HostStats `json:"host"`
	Timestamp time.Time `json:"timestamp"`
}

func NewHealthChecker(store storage.Store) *HealthChecker {
	return &HealthChecker{store: store, diskPath: "/"}
}

// WithBackend adds a probe of the remote API to the checks
func (h *HealthChecker) WithBackend(p Pinger) *HealthChecker {
	h.backend = p
	return h
}

// CheckBasic probes the session store. The remote backend is reported but
// never makes the client unhealthy; the screens degrade without it.
func (h *HealthChecker) CheckBasic() HealthStatus {
	storageHealth := h.checkStorage()

	status := "healthy"
	if storageHealth.Status != "healthy" {
		status = "unhealthy"
	}

	out := HealthStatus{
		Status:  status,
		Storage: storageHealth,
	}
	if h.backend != nil {
		b := h.checkBackend()
		out.Backend = &b
	}
	return out
}

// CheckDetailed adds host memory and disk usage to the basic report
func (h *HealthChecker) CheckDetailed() DetailedStatus {
	return DetailedStatus{
		HealthStatus: h.CheckBasic(),
		Host:         h.hostStats(),
		Timestamp:    time.Now(),
	}
}

func (h *HealthChecker) checkStorage() StorageHealth {
	if h.store == nil {
		return StorageHealth{Status: "unhealthy", Error: "no session store"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.store.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return StorageHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
			Error:        err.Error(),
		}
	}

	return StorageHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}

func (h *HealthChecker) checkBackend() BackendState {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	start := time.Now()
	err := h.backend.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return BackendState{Status: "unreachable", ResponseTime: responseTime}
	}
	return BackendState{Status: "reachable", ResponseTime: responseTime}
}

func (h *HealthChecker) hostStats() HostStats {
	var stats HostStats

	if memStats, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = memStats.UsedPercent
		stats.MemoryUsed = formatBytes(memStats.Used)
		stats.MemoryTotal = formatBytes(memStats.Total)
	}

	if diskStats, err := disk.Usage(h.diskPath); err == nil {
		stats.DiskPercent = diskStats.UsedPercent
		stats.DiskUsed = formatBytes(diskStats.Used)
		stats.DiskTotal = formatBytes(diskStats.Total)
	}

	return stats
}

func formatBytes(bytes uint64) string {
	gb := float64(bytes) / (1024 * 1024 * 1024)
	if gb < 1 {
		mb := float64(bytes) / (1024 * 1024)
		return fmt.Sprintf("%.1f MB", mb)
	}
	return fmt.Sprintf("%.1f GB", gb)
}
