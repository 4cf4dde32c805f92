package models

import (
	"strings"
	"time"
)

// TestStatus represents the outcome of a single test.
type TestStatus string

const (
	TestPassed  TestStatus = "PASSED"
	TestFailed  TestStatus = "FAILED"
	TestSkipped TestStatus = "SKIPPED"
	TestRunning TestStatus = "RUNNING"
	TestUnknown TestStatus = "UNKNOWN"
)

// NormalizeTestStatus uppercases status and maps unrecognized values to UNKNOWN.
func NormalizeTestStatus(status string) TestStatus {
	s := TestStatus(strings.ToUpper(strings.TrimSpace(status)))
	switch s {
	case TestPassed, TestFailed, TestSkipped, TestRunning:
		return s
	}
	return TestUnknown
}

// SuiteStatus represents the lifecycle state of a test suite.
type SuiteStatus string

const (
	SuiteRunning SuiteStatus = "RUNNING"
	SuitePassed  SuiteStatus = "PASSED"
	SuiteFailed  SuiteStatus = "FAILED"
	// SuiteEmpty marks a suite that was ended without any recorded tests.
	SuiteEmpty SuiteStatus = "EMPTY"
)

// TestResult is the outcome of one test within a suite. Results are immutable
// once appended and belong to exactly one suite.
type TestResult struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Status    TestStatus     `json:"status"`
	Duration  float64        `json:"duration"` // seconds
	Timestamp time.Time      `json:"timestamp"`
	Message   string         `json:"message,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// SuiteSummary holds the derived tallies for a suite. It is always consistent
// with the suite's Tests slice and never mutated independently.
type SuiteSummary struct {
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	Skipped  int     `json:"skipped"`
	Duration float64 `json:"duration"` // seconds
}

// TestSuite is a named, time-bounded collection of test results.
type TestSuite struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	StartTime time.Time    `json:"start_time"`
	EndTime   *time.Time   `json:"end_time,omitempty"`
	Status    SuiteStatus  `json:"status"`
	Tests     []TestResult `json:"tests"`
	Summary   SuiteSummary `json:"summary"`
}

// Ended reports whether the suite has been finalized.
func (s *TestSuite) Ended() bool {
	return s.EndTime != nil
}
