package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/logiclens/internal/logging"
	"github.com/valter-silva-au/logiclens/pkg/models"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Write and inspect application log events",
}

var (
	logWriteComponent string
	logWriteLevel     string
	logWriteDetails   []string
)

var logWriteCmd = &cobra.Command{
	Use:   "write <message>",
	Short: "Record a log event",
	Long: `Record a structured log event.

The event is mirrored to the operational logger and appended to the log
store. Unknown levels fall back to INFO. Extra key=value pairs can be
attached with --detail.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Logs == nil {
			return fmt.Errorf("log collector not initialized")
		}

		details, err := parseDetailPairs(logWriteDetails)
		if err != nil {
			return err
		}

		level := models.NormalizeLogLevel(logWriteLevel)
		event, err := Logs.LogEvent(logWriteComponent, args[0], level, details)
		if err != nil {
			// Persistence failures are non-fatal; the event still reached
			// the operational logger.
			fmt.Printf("logged (not persisted): [%s] %s: %s\n", event.Level, event.Component, event.Message)
			return nil
		}

		fmt.Printf("logged: [%s] %s: %s\n", event.Level, event.Component, event.Message)
		return nil
	},
}

var (
	logListComponent string
	logListLevel     string
	logListLimit     int
	logListJSON      bool
)

var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored log events, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Logs == nil {
			return fmt.Errorf("log collector not initialized")
		}

		events, err := Logs.GetLogs(logListComponent, logListLevel, logListLimit)
		if err != nil {
			return fmt.Errorf("listing log events: %w", err)
		}

		if logListJSON {
			data, err := json.MarshalIndent(events, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting log events as JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		if len(events) == 0 {
			fmt.Println("No log events.")
			return nil
		}
		for _, event := range events {
			fmt.Printf("%s  %-8s %-20s %s\n",
				event.Timestamp.Format("2006-01-02 15:04:05"),
				event.Level, event.Component, event.Message)
		}
		return nil
	},
}

var logImportFormat string

var logImportCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import an external log file into the store",
	Long: `Import an external log file.

Supported formats are "text" ([LEVEL] Component: Message, one per line) and
"jsonl" (one JSON event per line). Lines that fail to parse are skipped and
counted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Logs == nil {
			return fmt.Errorf("log collector not initialized")
		}

		var format logging.ExternalFormat
		switch logImportFormat {
		case "text":
			format = logging.FormatText
		case "jsonl":
			format = logging.FormatJSONL
		default:
			return fmt.Errorf("unsupported format %q (use text or jsonl)", logImportFormat)
		}

		events, skipped, err := logging.ReadExternal(args[0], format)
		if err != nil {
			return fmt.Errorf("reading external log file: %w", err)
		}

		imported := 0
		for _, event := range events {
			if _, err := Logs.LogEvent(event.Component, event.Message, event.Level, event.Details); err == nil {
				imported++
			}
		}

		fmt.Printf("imported %d event(s), skipped %d unparseable line(s)\n", imported, skipped)
		return nil
	},
}

// parseDetailPairs converts key=value flags into a details map.
func parseDetailPairs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	details := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid detail %q (expected key=value)", pair)
		}
		details[key] = value
	}
	return details, nil
}

func init() {
	logWriteCmd.Flags().StringVar(&logWriteComponent, "component", "cli", "Component that produced the event")
	logWriteCmd.Flags().StringVar(&logWriteLevel, "level", "INFO", "Log level (DEBUG, INFO, WARNING, ERROR, CRITICAL)")
	logWriteCmd.Flags().StringArrayVar(&logWriteDetails, "detail", nil, "Extra key=value detail (repeatable)")

	logListCmd.Flags().StringVar(&logListComponent, "component", "", "Filter by component")
	logListCmd.Flags().StringVar(&logListLevel, "level", "", "Filter by level")
	logListCmd.Flags().IntVar(&logListLimit, "limit", 100, "Maximum number of events")
	logListCmd.Flags().BoolVar(&logListJSON, "json", false, "Output as JSON")

	logImportCmd.Flags().StringVar(&logImportFormat, "format", "text", "Input format (text or jsonl)")

	logCmd.AddCommand(logWriteCmd, logListCmd, logImportCmd)
	rootCmd.AddCommand(logCmd)
}
