// Package tracker implements the test result tracker: suite lifecycle,
// per-suite result aggregation, and JUnit XML import.
package tracker

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/valter-silva-au/logiclens/internal/logging"
	"github.com/valter-silva-au/logiclens/internal/storage"
	"github.com/valter-silva-au/logiclens/pkg/models"
)

var (
	// ErrSuiteNotFound is returned when the suite ID is unknown.
	ErrSuiteNotFound = errors.New("test suite not found")
	// ErrSuiteClosed is returned when a result is added to an ended suite.
	ErrSuiteClosed = errors.New("test suite already ended")
)

// ResultInput carries the caller-supplied fields for one test result.
type ResultInput struct {
	TestID   string
	TestName string
	Status   string
	Duration float64
	Message  string
	Metadata map[string]any
}

// Tracker manages test suite lifecycle and retrieval.
type Tracker interface {
	// StartSuite registers a new RUNNING suite and returns its generated ID.
	StartSuite(name string) (string, error)

	// AddResult appends a result to an open suite and updates its summary.
	// Returns ErrSuiteNotFound or ErrSuiteClosed as appropriate.
	AddResult(suiteID string, input ResultInput) (models.TestResult, error)

	// EndSuite finalizes a suite: FAILED if any result failed, EMPTY if no
	// results were recorded, PASSED otherwise. Ending an already-ended suite
	// is a no-op that returns the frozen suite.
	EndSuite(suiteID string) (models.TestSuite, error)

	// GetSuite returns a copy of the suite, or ErrSuiteNotFound.
	GetSuite(suiteID string) (models.TestSuite, error)

	// ListSuites returns suites newest-first by start time, optionally
	// filtered by status, bounded by limit when positive.
	ListSuites(status string, limit int) ([]models.TestSuite, error)

	// ImportJUnitXML parses a JUnit-style XML report into a finished suite
	// and returns the new suite ID.
	ImportJUnitXML(path, name string) (string, error)
}

type tracker struct {
	mu     sync.RWMutex
	suites map[string]*models.TestSuite

	store   storage.EventStore // nil disables persistence of finished suites
	logs    logging.Collector  // nil disables lifecycle logging
	persist bool
}

// NewTracker creates a Tracker. When persist is true, finished suites are
// appended to the event store's "tests" category. logs may be nil.
func NewTracker(store storage.EventStore, logs logging.Collector, persist bool) Tracker {
	return &tracker{
		suites:  make(map[string]*models.TestSuite),
		store:   store,
		logs:    logs,
		persist: persist,
	}
}

func (t *tracker) StartSuite(name string) (string, error) {
	if name == "" {
		name = "Test Suite"
	}
	suite := &models.TestSuite{
		ID:        uuid.NewString(),
		Name:      name,
		StartTime: time.Now().UTC(),
		Status:    models.SuiteRunning,
	}

	t.mu.Lock()
	t.suites[suite.ID] = suite
	t.mu.Unlock()

	t.logEvent(models.LevelInfo, fmt.Sprintf("Started test suite: %s", name),
		map[string]any{"suite_id": suite.ID})
	return suite.ID, nil
}

func (t *tracker) AddResult(suiteID string, input ResultInput) (models.TestResult, error) {
	status := models.NormalizeTestStatus(input.Status)
	result := models.TestResult{
		ID:        input.TestID,
		Name:      input.TestName,
		Status:    status,
		Duration:  input.Duration,
		Timestamp: time.Now().UTC(),
		Message:   input.Message,
		Metadata:  input.Metadata,
	}

	t.mu.Lock()
	suite, ok := t.suites[suiteID]
	if !ok {
		t.mu.Unlock()
		return models.TestResult{}, fmt.Errorf("adding result to suite %q: %w", suiteID, ErrSuiteNotFound)
	}
	if suite.Ended() {
		t.mu.Unlock()
		return models.TestResult{}, fmt.Errorf("adding result to suite %q: %w", suiteID, ErrSuiteClosed)
	}

	suite.Tests = append(suite.Tests, result)
	suite.Summary.Total++
	switch status {
	case models.TestPassed:
		suite.Summary.Passed++
	case models.TestFailed:
		suite.Summary.Failed++
	case models.TestSkipped:
		suite.Summary.Skipped++
	}
	suite.Summary.Duration += input.Duration
	t.mu.Unlock()

	level := models.LevelInfo
	switch status {
	case models.TestSkipped:
		level = models.LevelWarning
	case models.TestFailed:
		level = models.LevelError
	}
	msg := fmt.Sprintf("Test %s: %s", input.TestName, status)
	if input.Message != "" {
		msg += " - " + input.Message
	}
	t.logEvent(level, msg, map[string]any{
		"suite_id": suiteID,
		"test_id":  input.TestID,
		"duration": input.Duration,
	})

	return result, nil
}

func (t *tracker) EndSuite(suiteID string) (models.TestSuite, error) {
	t.mu.Lock()
	suite, ok := t.suites[suiteID]
	if !ok {
		t.mu.Unlock()
		return models.TestSuite{}, fmt.Errorf("ending suite %q: %w", suiteID, ErrSuiteNotFound)
	}
	if suite.Ended() {
		// Already finalized; return the frozen suite unchanged.
		snapshot := cloneSuite(suite)
		t.mu.Unlock()
		return snapshot, nil
	}

	now := time.Now().UTC()
	suite.EndTime = &now
	switch {
	case suite.Summary.Failed > 0:
		suite.Status = models.SuiteFailed
	case suite.Summary.Total == 0:
		suite.Status = models.SuiteEmpty
	default:
		suite.Status = models.SuitePassed
	}
	snapshot := cloneSuite(suite)
	t.mu.Unlock()

	level := models.LevelInfo
	if snapshot.Status == models.SuiteFailed {
		level = models.LevelError
	}
	t.logEvent(level, fmt.Sprintf("Completed test suite: %s - %s", snapshot.Name, snapshot.Status),
		map[string]any{"suite_id": suiteID, "summary": snapshot.Summary})

	if t.persist && t.store != nil {
		if err := t.store.Append(storage.CategoryTests, snapshot); err != nil {
			t.logEvent(models.LevelError,
				fmt.Sprintf("Failed to persist test suite %s: %v", suiteID, err), nil)
		}
	}
	return snapshot, nil
}

func (t *tracker) GetSuite(suiteID string) (models.TestSuite, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	suite, ok := t.suites[suiteID]
	if !ok {
		return models.TestSuite{}, fmt.Errorf("getting suite %q: %w", suiteID, ErrSuiteNotFound)
	}
	return cloneSuite(suite), nil
}

func (t *tracker) ListSuites(status string, limit int) ([]models.TestSuite, error) {
	t.mu.RLock()
	suites := make([]models.TestSuite, 0, len(t.suites))
	for _, suite := range t.suites {
		if status != "" && string(suite.Status) != status {
			continue
		}
		suites = append(suites, cloneSuite(suite))
	}
	t.mu.RUnlock()

	sort.Slice(suites, func(i, j int) bool {
		return suites[i].StartTime.After(suites[j].StartTime)
	})
	if limit > 0 && len(suites) > limit {
		suites = suites[:limit]
	}
	return suites, nil
}

// logEvent forwards suite lifecycle events to the log collector when present.
func (t *tracker) logEvent(level models.LogLevel, message string, details map[string]any) {
	if t.logs == nil {
		return
	}
	_, _ = t.logs.LogEvent("test_manager", message, level, details)
}

// cloneSuite returns a deep-enough copy so callers cannot mutate tracked state.
func cloneSuite(s *models.TestSuite) models.TestSuite {
	out := *s
	out.Tests = make([]models.TestResult, len(s.Tests))
	copy(out.Tests, s.Tests)
	return out
}
