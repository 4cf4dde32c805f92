// Package logging implements the structured log collector. Events flow
// through the event store's "logs" category; the collector also mirrors
// every event to the operational logger so failures in persistence never
// silence the application's own output.
package logging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/valter-silva-au/logiclens/internal/storage"
	"github.com/valter-silva-au/logiclens/pkg/models"
)

// Collector writes and queries structured log events.
type Collector interface {
	// LogEvent builds a LogEvent stamped with the current time, mirrors it to
	// the operational logger, and persists it. A persistence failure is
	// reported on the fallback channel and returned, but must be treated as
	// non-fatal by callers; logging never panics.
	LogEvent(component, message string, level models.LogLevel, details map[string]any) (models.LogEvent, error)

	// GetLogs returns stored events newest-first, filtered by exact component
	// and level match when non-empty. Repeated calls are idempotent.
	GetLogs(component, level string, limit int) ([]models.LogEvent, error)
}

type collector struct {
	app   string
	store storage.EventStore
	log   *logrus.Logger
}

// NewCollector creates a Collector that persists through store and mirrors
// to log. app is stamped into every event.
func NewCollector(app string, store storage.EventStore, log *logrus.Logger) Collector {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &collector{app: app, store: store, log: log}
}

func (c *collector) LogEvent(component, message string, level models.LogLevel, details map[string]any) (models.LogEvent, error) {
	if !models.ValidLogLevel(level) {
		level = models.LevelInfo
	}

	event := models.LogEvent{
		Timestamp: time.Now().UTC(),
		App:       c.app,
		Component: component,
		Message:   message,
		Level:     level,
		Details:   details,
	}

	c.mirror(event)

	if err := c.store.Append(storage.CategoryLogs, event); err != nil {
		// Fallback channel: the failure is visible on stderr but never
		// propagates past the collector as a fault.
		c.log.WithField("component", component).WithError(err).Error("failed to persist log event")
		return event, err
	}
	return event, nil
}

func (c *collector) GetLogs(component, level string, limit int) ([]models.LogEvent, error) {
	filter := storage.Filter{}
	if component != "" {
		filter["component"] = component
	}
	if level != "" {
		filter["level"] = string(models.NormalizeLogLevel(level))
	}

	raws, err := c.store.Read(storage.CategoryLogs, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("reading log events: %w", err)
	}

	events := make([]models.LogEvent, 0, len(raws))
	for _, raw := range raws {
		var event models.LogEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// mirror writes the event through the operational logger at the matching level.
func (c *collector) mirror(event models.LogEvent) {
	entry := c.log.WithField("component", event.Component)
	if len(event.Details) > 0 {
		entry = entry.WithField("details", event.Details)
	}

	switch event.Level {
	case models.LevelDebug:
		entry.Debug(event.Message)
	case models.LevelWarning:
		entry.Warn(event.Message)
	case models.LevelError:
		entry.Error(event.Message)
	case models.LevelCritical:
		// logrus Fatal exits the process; critical events must not.
		entry.Error(event.Message)
	default:
		entry.Info(event.Message)
	}
}
