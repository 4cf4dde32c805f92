package tracker

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/valter-silva-au/logiclens/pkg/models"
)

// ParseError reports a malformed JUnit XML report.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing JUnit report %q: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// junitTestSuites models the optional <testsuites> root element.
type junitTestSuites struct {
	XMLName xml.Name         `xml:"testsuites"`
	Suites  []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	XMLName xml.Name        `xml:"testsuite"`
	Name    string          `xml:"name,attr"`
	Cases   []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	File      string        `xml:"file,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitMessage `xml:"failure"`
	Error     *junitMessage `xml:"error"`
	Skipped   *junitMessage `xml:"skipped"`
}

type junitMessage struct {
	Message string `xml:"message,attr"`
	Body    string `xml:",chardata"`
}

func (m *junitMessage) text() string {
	if m.Message != "" {
		return m.Message
	}
	return strings.TrimSpace(m.Body)
}

// ImportJUnitXML parses a JUnit-style XML report and replays it through the
// normal suite lifecycle so summaries stay derived. Both a <testsuites> root
// and a bare <testsuite> root are accepted.
func (t *tracker) ImportJUnitXML(path, name string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ParseError{Path: path, Err: err}
	}

	suites, err := parseJUnit(data)
	if err != nil {
		return "", &ParseError{Path: path, Err: err}
	}

	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	suiteID, err := t.StartSuite(name)
	if err != nil {
		return "", err
	}

	for _, ts := range suites {
		suiteName := ts.Name
		if suiteName == "" {
			suiteName = "suite"
		}
		for _, tc := range ts.Cases {
			testName := tc.Name
			if testName == "" {
				testName = "Unknown Test"
			}

			duration, _ := strconv.ParseFloat(tc.Time, 64)

			status := string(models.TestPassed)
			message := ""
			switch {
			case tc.Failure != nil:
				status = string(models.TestFailed)
				message = tc.Failure.text()
			case tc.Error != nil:
				status = string(models.TestFailed)
				message = tc.Error.text()
			case tc.Skipped != nil:
				status = string(models.TestSkipped)
				message = tc.Skipped.text()
			}

			metadata := map[string]any{}
			if tc.ClassName != "" {
				metadata["classname"] = tc.ClassName
			}
			if tc.File != "" {
				metadata["file"] = tc.File
			}

			if _, err := t.AddResult(suiteID, ResultInput{
				TestID:   suiteName + "_" + testName,
				TestName: testName,
				Status:   status,
				Duration: duration,
				Message:  message,
				Metadata: metadata,
			}); err != nil {
				return "", err
			}
		}
	}

	if _, err := t.EndSuite(suiteID); err != nil {
		return "", err
	}
	return suiteID, nil
}

// parseJUnit decodes either root element shape into a list of test suites.
func parseJUnit(data []byte) ([]junitTestSuite, error) {
	var multi junitTestSuites
	if err := xml.Unmarshal(data, &multi); err == nil {
		return multi.Suites, nil
	}

	var single junitTestSuite
	if err := xml.Unmarshal(data, &single); err != nil {
		return nil, err
	}
	return []junitTestSuite{single}, nil
}
