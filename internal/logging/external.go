package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/valter-silva-au/logiclens/pkg/models"
)

// ExternalFormat identifies the on-disk format of an external log file.
type ExternalFormat string

const (
	// FormatText parses lines of the form "[LEVEL] Component: Message".
	FormatText ExternalFormat = "text"
	// FormatJSONL parses one JSON-encoded LogEvent per line.
	FormatJSONL ExternalFormat = "jsonl"
)

// ParseError reports that an external log file could not be read at all.
// Individual malformed lines are skipped and counted, not fatal.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing external log %q: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReadExternal parses an external log file into LogEvents. Lines that do not
// match the format are skipped; the returned int counts them. An unknown
// format or unreadable file yields a *ParseError.
func ReadExternal(path string, format ExternalFormat) ([]models.LogEvent, int, error) {
	switch format {
	case FormatText, FormatJSONL:
	default:
		return nil, 0, &ParseError{Path: path, Err: fmt.Errorf("unsupported format %q", format)}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, &ParseError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	var (
		events  []models.LogEvent
		skipped int
	)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var (
			event models.LogEvent
			ok    bool
		)
		switch format {
		case FormatJSONL:
			ok = json.Unmarshal([]byte(line), &event) == nil && event.Message != ""
		case FormatText:
			event, ok = parseTextLine(line)
		}
		if !ok {
			skipped++
			continue
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, &ParseError{Path: path, Err: err}
	}
	return events, skipped, nil
}

// parseTextLine parses "[LEVEL] Component: Message" into a LogEvent stamped
// with the current time, since plain text lines carry no timestamp.
func parseTextLine(line string) (models.LogEvent, bool) {
	if !strings.HasPrefix(line, "[") {
		return models.LogEvent{}, false
	}
	end := strings.Index(line, "]")
	if end < 0 {
		return models.LogEvent{}, false
	}
	level := line[1:end]

	rest := strings.TrimSpace(line[end+1:])
	component, message, found := strings.Cut(rest, ":")
	if !found {
		return models.LogEvent{}, false
	}
	component = strings.TrimSpace(component)
	message = strings.TrimSpace(message)
	if component == "" || message == "" {
		return models.LogEvent{}, false
	}

	return models.LogEvent{
		Timestamp: time.Now().UTC(),
		Component: component,
		Message:   message,
		Level:     models.NormalizeLogLevel(level),
	}, true
}
