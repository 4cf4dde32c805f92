package monitoring

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/valter-silva-au/logiclens/internal/storage"
	"github.com/valter-silva-au/logiclens/pkg/models"
)

// Trends reads the most recent window of stored snapshots and summarizes the
// metric at the dotted path, e.g. "system.cpu_percent" or
// "application.process_memory_rss".
func (m *monitor) Trends(metric string, window int) (models.TrendReport, error) {
	if window <= 0 {
		window = 60
	}

	raws, err := m.store.Read(storage.CategoryMetrics, nil, window)
	if err != nil {
		return models.TrendReport{}, fmt.Errorf("reading metric history for trends: %w", err)
	}

	parts := strings.Split(metric, ".")
	var values []float64
	// raws is newest-first; walk backwards so values end up oldest-first,
	// which the first-half/second-half trend split depends on.
	for i := len(raws) - 1; i >= 0; i-- {
		var decoded map[string]any
		if err := json.Unmarshal(raws[i], &decoded); err != nil {
			continue
		}
		if v, ok := lookupPath(decoded, parts); ok {
			values = append(values, v)
		}
	}

	if len(values) == 0 {
		return models.TrendReport{}, fmt.Errorf("metric %q not found in stored history", metric)
	}

	report := models.TrendReport{
		Metric: metric,
		Count:  len(values),
		Min:    values[0],
		Max:    values[0],
	}
	var sum float64
	for _, v := range values {
		sum += v
		if v < report.Min {
			report.Min = v
		}
		if v > report.Max {
			report.Max = v
		}
	}
	report.Avg = sum / float64(len(values))

	if len(values) >= 2 {
		half := len(values) / 2
		report.Trend = mean(values[half:]) - mean(values[:half])
	}
	if report.Avg != 0 {
		report.TrendPercent = report.Trend / report.Avg * 100
	}
	return report, nil
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// lookupPath walks nested JSON objects and returns the numeric leaf value.
func lookupPath(m map[string]any, parts []string) (float64, bool) {
	var current any = m
	for _, part := range parts {
		obj, ok := current.(map[string]any)
		if !ok {
			return 0, false
		}
		current, ok = obj[part]
		if !ok {
			return 0, false
		}
	}
	v, ok := current.(float64)
	return v, ok
}
