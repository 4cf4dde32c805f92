// Package monitoring implements the metrics collector: on-demand host and
// process resource sampling via gopsutil, snapshot persistence through the
// event store, threshold-based alert evaluation, and trend analysis over
// stored history.
package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	gopsnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/valter-silva-au/logiclens/internal/logging"
	"github.com/valter-silva-au/logiclens/internal/storage"
	"github.com/valter-silva-au/logiclens/pkg/models"
)

// cpuSampleInterval is how long Collect blocks to measure CPU usage.
const cpuSampleInterval = 100 * time.Millisecond

// Monitor samples, stores, and evaluates system metrics.
type Monitor interface {
	// Collect samples host and process metrics at call time. Pure read of
	// OS state; nothing is persisted.
	Collect(ctx context.Context) (models.MetricSnapshot, error)

	// Store appends a snapshot to the metrics category. Separate from
	// Collect so callers may attach Custom fields first.
	Store(snapshot models.MetricSnapshot) error

	// History returns the most recent count stored snapshots, newest-first.
	History(count int) ([]models.MetricSnapshot, error)

	// EvaluateAlerts returns one alert per metric whose percent value is at
	// or above its threshold. A value exactly at the threshold alerts.
	EvaluateAlerts(snapshot models.MetricSnapshot, thresholds models.AlertThresholds) []models.Alert

	// ReportAlerts logs alerts as WARNING events, suppressing repeats of the
	// same metric within the cooldown window.
	ReportAlerts(alerts []models.Alert)

	// SystemInfo returns static host information, cached after the first read.
	SystemInfo(ctx context.Context) (models.SystemInfo, error)

	// Trends analyzes a dotted metric path (e.g. "system.cpu_percent") over
	// the most recent window of stored snapshots.
	Trends(metric string, window int) (models.TrendReport, error)
}

type monitor struct {
	store    storage.EventStore
	logs     logging.Collector
	diskPath string
	cooldown time.Duration

	mu        sync.Mutex
	lastAlert map[string]time.Time

	infoOnce sync.Once
	info     models.SystemInfo
	infoErr  error
}

// NewMonitor creates a Monitor. diskPath is the mount point used for disk
// usage (default "/"); cooldown throttles repeated alert logging per metric.
func NewMonitor(store storage.EventStore, logs logging.Collector, diskPath string, cooldown time.Duration) Monitor {
	if diskPath == "" {
		diskPath = "/"
	}
	return &monitor{
		store:     store,
		logs:      logs,
		diskPath:  diskPath,
		cooldown:  cooldown,
		lastAlert: make(map[string]time.Time),
	}
}

func (m *monitor) Collect(ctx context.Context) (models.MetricSnapshot, error) {
	snapshot := models.MetricSnapshot{Timestamp: time.Now().UTC()}

	cpuPercents, err := cpu.PercentWithContext(ctx, cpuSampleInterval, false)
	if err != nil {
		return snapshot, fmt.Errorf("sampling cpu: %w", err)
	}
	if len(cpuPercents) > 0 {
		snapshot.System.CPUPercent = cpuPercents[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return snapshot, fmt.Errorf("sampling memory: %w", err)
	}
	snapshot.System.MemoryPercent = vm.UsedPercent
	snapshot.System.MemoryUsed = vm.Used
	snapshot.System.MemoryAvailable = vm.Available

	du, err := disk.UsageWithContext(ctx, m.diskPath)
	if err != nil {
		return snapshot, fmt.Errorf("sampling disk %q: %w", m.diskPath, err)
	}
	snapshot.System.DiskPercent = du.UsedPercent
	snapshot.System.DiskUsed = du.Used
	snapshot.System.DiskFree = du.Free

	// Aggregate counters across all interfaces.
	counters, err := gopsnet.IOCountersWithContext(ctx, false)
	if err != nil {
		return snapshot, fmt.Errorf("sampling network: %w", err)
	}
	if len(counters) > 0 {
		snapshot.System.NetworkBytesSent = counters[0].BytesSent
		snapshot.System.NetworkBytesRecv = counters[0].BytesRecv
	}

	app, err := m.collectProcess(ctx)
	if err != nil {
		return snapshot, err
	}
	snapshot.Application = app

	return snapshot, nil
}

// collectProcess samples the current process.
func (m *monitor) collectProcess(ctx context.Context) (models.ApplicationMetrics, error) {
	var app models.ApplicationMetrics

	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return app, fmt.Errorf("opening current process: %w", err)
	}

	if pct, err := proc.CPUPercentWithContext(ctx); err == nil {
		app.ProcessCPUPercent = pct
	}
	if pct, err := proc.MemoryPercentWithContext(ctx); err == nil {
		app.ProcessMemoryPercent = pct
	}
	if info, err := proc.MemoryInfoWithContext(ctx); err == nil && info != nil {
		app.ProcessMemoryRSS = info.RSS
	}
	if threads, err := proc.NumThreadsWithContext(ctx); err == nil {
		app.ProcessThreads = threads
	}
	if conns, err := proc.ConnectionsWithContext(ctx); err == nil {
		app.ProcessConnections = len(conns)
	}
	return app, nil
}

func (m *monitor) Store(snapshot models.MetricSnapshot) error {
	if err := m.store.Append(storage.CategoryMetrics, snapshot); err != nil {
		return fmt.Errorf("storing metric snapshot: %w", err)
	}
	return nil
}

func (m *monitor) History(count int) ([]models.MetricSnapshot, error) {
	raws, err := m.store.Read(storage.CategoryMetrics, nil, count)
	if err != nil {
		return nil, fmt.Errorf("reading metric history: %w", err)
	}

	snapshots := make([]models.MetricSnapshot, 0, len(raws))
	for _, raw := range raws {
		var snapshot models.MetricSnapshot
		if err := json.Unmarshal(raw, &snapshot); err != nil {
			continue
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

func (m *monitor) EvaluateAlerts(snapshot models.MetricSnapshot, thresholds models.AlertThresholds) []models.Alert {
	now := time.Now().UTC()
	var alerts []models.Alert

	check := func(metric string, value, threshold float64) {
		if value < threshold {
			return
		}
		alerts = append(alerts, models.Alert{
			Metric:      metric,
			Value:       value,
			Threshold:   threshold,
			Message:     fmt.Sprintf("HIGH %s USAGE: %.1f%% meets or exceeds threshold of %.1f%%", strings.ToUpper(metric), value, threshold),
			TriggeredAt: now,
		})
	}

	check("cpu", snapshot.System.CPUPercent, thresholds.CPUPercent)
	check("memory", snapshot.System.MemoryPercent, thresholds.MemoryPercent)
	check("disk", snapshot.System.DiskPercent, thresholds.DiskPercent)
	return alerts
}

func (m *monitor) ReportAlerts(alerts []models.Alert) {
	if m.logs == nil {
		return
	}

	now := time.Now()
	for _, alert := range alerts {
		m.mu.Lock()
		last, seen := m.lastAlert[alert.Metric]
		suppressed := seen && m.cooldown > 0 && now.Sub(last) < m.cooldown
		if !suppressed {
			m.lastAlert[alert.Metric] = now
		}
		m.mu.Unlock()
		if suppressed {
			continue
		}

		_, _ = m.logs.LogEvent("monitoring", alert.Message, models.LevelWarning, map[string]any{
			"metric":    alert.Metric,
			"value":     alert.Value,
			"threshold": alert.Threshold,
		})
	}
}

func (m *monitor) SystemInfo(ctx context.Context) (models.SystemInfo, error) {
	m.infoOnce.Do(func() {
		info, err := host.InfoWithContext(ctx)
		if err != nil {
			m.infoErr = fmt.Errorf("reading host info: %w", err)
			return
		}
		counts, err := cpu.CountsWithContext(ctx, true)
		if err != nil {
			m.infoErr = fmt.Errorf("counting cpus: %w", err)
			return
		}
		vm, err := mem.VirtualMemoryWithContext(ctx)
		if err != nil {
			m.infoErr = fmt.Errorf("reading total memory: %w", err)
			return
		}

		m.info = models.SystemInfo{
			Hostname:    info.Hostname,
			Platform:    fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion),
			GoVersion:   runtime.Version(),
			CPUCount:    counts,
			MemoryTotal: vm.Total,
		}
	})
	return m.info, m.infoErr
}
