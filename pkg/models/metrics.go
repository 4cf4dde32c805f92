package models

import "time"

// SystemMetrics captures host-level resource usage at one point in time.
type SystemMetrics struct {
	CPUPercent       float64 `json:"cpu_percent"`
	MemoryPercent    float64 `json:"memory_percent"`
	MemoryUsed       uint64  `json:"memory_used"`
	MemoryAvailable  uint64  `json:"memory_available"`
	DiskPercent      float64 `json:"disk_percent"`
	DiskUsed         uint64  `json:"disk_used"`
	DiskFree         uint64  `json:"disk_free"`
	NetworkBytesSent uint64  `json:"network_bytes_sent"`
	NetworkBytesRecv uint64  `json:"network_bytes_recv"`
}

// ApplicationMetrics captures resource usage of the current process.
type ApplicationMetrics struct {
	ProcessCPUPercent    float64 `json:"process_cpu_percent"`
	ProcessMemoryPercent float32 `json:"process_memory_percent"`
	ProcessMemoryRSS     uint64  `json:"process_memory_rss"`
	ProcessThreads       int32   `json:"process_threads"`
	ProcessConnections   int     `json:"process_connections"`
}

// MetricSnapshot is one point-in-time capture of system and process metrics.
// Snapshots are immutable once stored; Custom carries caller-attached fields.
type MetricSnapshot struct {
	Timestamp   time.Time          `json:"timestamp"`
	System      SystemMetrics      `json:"system"`
	Application ApplicationMetrics `json:"application"`
	Custom      map[string]any     `json:"custom,omitempty"`
}

// SystemInfo holds static host information collected once at startup.
type SystemInfo struct {
	Hostname    string `json:"hostname"`
	Platform    string `json:"platform"`
	GoVersion   string `json:"go_version"`
	CPUCount    int    `json:"cpu_count"`
	MemoryTotal uint64 `json:"memory_total"`
}

// Alert is a threshold-crossing notification derived from a metric snapshot.
// Alerts are not persisted by the core.
type Alert struct {
	Metric      string    `json:"metric"`
	Value       float64   `json:"value"`
	Threshold   float64   `json:"threshold"`
	Message     string    `json:"message"`
	TriggeredAt time.Time `json:"triggered_at"`
}

// AlertThresholds configures the inclusive percent thresholds above which
// alerts fire. A value at exactly the threshold alerts.
type AlertThresholds struct {
	CPUPercent    float64 `yaml:"cpu_percent" json:"cpu_percent"`
	MemoryPercent float64 `yaml:"memory_percent" json:"memory_percent"`
	DiskPercent   float64 `yaml:"disk_percent" json:"disk_percent"`
}

// DefaultAlertThresholds returns the default 90 percent thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		CPUPercent:    90,
		MemoryPercent: 90,
		DiskPercent:   90,
	}
}

// TrendReport summarizes how a single metric evolved over a window of
// stored snapshots. Trend is the second-half average minus the first-half
// average; positive values mean the metric is increasing.
type TrendReport struct {
	Metric       string  `json:"metric"`
	Count        int     `json:"count"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Avg          float64 `json:"avg"`
	Trend        float64 `json:"trend"`
	TrendPercent float64 `json:"trend_percent"`
}
