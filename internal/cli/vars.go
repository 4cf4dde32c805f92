package cli

import (
	"github.com/valter-silva-au/logiclens/internal/core"
	"github.com/valter-silva-au/logiclens/internal/logging"
	"github.com/valter-silva-au/logiclens/internal/monitoring"
	"github.com/valter-silva-au/logiclens/internal/observability"
	"github.com/valter-silva-au/logiclens/internal/ollama"
	"github.com/valter-silva-au/logiclens/internal/tracker"

	"github.com/sirupsen/logrus"
)

// Service instances, set during app initialization in internal/app.go.
var (
	Config   *core.Config
	Log      *logrus.Logger
	Logs     logging.Collector
	Tracker  tracker.Tracker
	Monitor  monitoring.Monitor
	Ollama   *ollama.Client
	Notifier observability.Notifier
)
