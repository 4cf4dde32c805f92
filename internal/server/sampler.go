package server

import (
	"context"
	"time"
)

// RunSampler collects and evaluates a snapshot every cfg.MetricsInterval
// until ctx is cancelled. Snapshots are persisted only when PERSIST_METRICS
// is set; alerts are always logged (with cooldown) and forwarded to the
// webhook notifier when one is configured. No-op when the interval is zero.
func (s *Server) RunSampler(ctx context.Context) {
	interval := s.cfg.MetricsInterval
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.WithField("interval", interval).Info("metrics sampler started")

	// Sample immediately so the dashboard has data before the first tick.
	s.sampleOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("metrics sampler stopped")
			return
		case <-ticker.C:
			s.sampleOnce(ctx)
		}
	}
}

func (s *Server) sampleOnce(ctx context.Context) {
	snapshot, err := s.monitor.Collect(ctx)
	if err != nil {
		s.log.WithError(err).Warn("metrics collection failed")
		return
	}

	if s.cfg.PersistMetrics {
		if err := s.monitor.Store(snapshot); err != nil {
			s.log.WithError(err).Warn("metrics persistence failed")
		}
	}

	alerts := s.monitor.EvaluateAlerts(snapshot, s.cfg.AlertThresholds)
	if len(alerts) == 0 {
		return
	}
	s.monitor.ReportAlerts(alerts)
	if s.notifier != nil {
		if err := s.notifier.Notify(alerts); err != nil {
			s.log.WithError(err).Warn("alert webhook notification failed")
		}
	}
}
