package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/logiclens/internal/tracker"
	"github.com/valter-silva-au/logiclens/pkg/models"
)

var suiteCmd = &cobra.Command{
	Use:   "suite",
	Short: "Track test suite runs (start, add, end, show, list, import)",
}

var suiteStartCmd = &cobra.Command{
	Use:   "start <name>",
	Short: "Start a new test suite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil {
			return fmt.Errorf("test tracker not initialized")
		}

		id, err := Tracker.StartSuite(args[0])
		if err != nil {
			return fmt.Errorf("starting suite: %w", err)
		}

		fmt.Println(id)
		return nil
	},
}

var (
	suiteAddStatus   string
	suiteAddName     string
	suiteAddDuration float64
	suiteAddMessage  string
)

var suiteAddCmd = &cobra.Command{
	Use:   "add <suite-id> <test-id>",
	Short: "Record a test result in an open suite",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil {
			return fmt.Errorf("test tracker not initialized")
		}

		result, err := Tracker.AddResult(args[0], tracker.ResultInput{
			TestID:   args[1],
			TestName: suiteAddName,
			Status:   suiteAddStatus,
			Duration: suiteAddDuration,
			Message:  suiteAddMessage,
		})
		if err != nil {
			return fmt.Errorf("adding result: %w", err)
		}

		fmt.Printf("recorded %s: %s (%.3fs)\n", result.ID, result.Status, result.Duration)
		return nil
	},
}

var suiteEndCmd = &cobra.Command{
	Use:   "end <suite-id>",
	Short: "Finalize a suite and print its summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil {
			return fmt.Errorf("test tracker not initialized")
		}

		suite, err := Tracker.EndSuite(args[0])
		if err != nil {
			return fmt.Errorf("ending suite: %w", err)
		}

		printSuite(suite)
		return nil
	},
}

var suiteShowJSON bool

var suiteShowCmd = &cobra.Command{
	Use:   "show <suite-id>",
	Short: "Show a suite with its results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil {
			return fmt.Errorf("test tracker not initialized")
		}

		suite, err := Tracker.GetSuite(args[0])
		if err != nil {
			return fmt.Errorf("getting suite: %w", err)
		}

		if suiteShowJSON {
			data, err := json.MarshalIndent(suite, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting suite as JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		printSuite(suite)
		for _, test := range suite.Tests {
			line := fmt.Sprintf("  %-8s %s (%.3fs)", test.Status, test.ID, test.Duration)
			if test.Message != "" {
				line += " - " + test.Message
			}
			fmt.Println(line)
		}
		return nil
	},
}

var (
	suiteListStatus string
	suiteListLimit  int
)

var suiteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List suites, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil {
			return fmt.Errorf("test tracker not initialized")
		}

		suites, err := Tracker.ListSuites(suiteListStatus, suiteListLimit)
		if err != nil {
			return fmt.Errorf("listing suites: %w", err)
		}

		if len(suites) == 0 {
			fmt.Println("No test suites.")
			return nil
		}
		for _, suite := range suites {
			fmt.Printf("%-36s  %-8s %-24s %d passed / %d failed / %d skipped\n",
				suite.ID, suite.Status, suite.Name,
				suite.Summary.Passed, suite.Summary.Failed, suite.Summary.Skipped)
		}
		return nil
	},
}

var suiteImportName string

var suiteImportCmd = &cobra.Command{
	Use:   "import <junit-xml-path>",
	Short: "Import a JUnit XML report as a finished suite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil {
			return fmt.Errorf("test tracker not initialized")
		}

		id, err := Tracker.ImportJUnitXML(args[0], suiteImportName)
		if err != nil {
			return fmt.Errorf("importing JUnit report: %w", err)
		}

		suite, err := Tracker.GetSuite(id)
		if err != nil {
			return fmt.Errorf("reading imported suite: %w", err)
		}

		printSuite(suite)
		return nil
	},
}

func printSuite(suite models.TestSuite) {
	fmt.Printf("%s  %s [%s]\n", suite.ID, suite.Name, suite.Status)
	fmt.Printf("  %d total, %d passed, %d failed, %d skipped (%.3fs)\n",
		suite.Summary.Total, suite.Summary.Passed, suite.Summary.Failed,
		suite.Summary.Skipped, suite.Summary.Duration)
}

func init() {
	suiteAddCmd.Flags().StringVar(&suiteAddStatus, "status", "passed", "Test status (passed, failed, skipped)")
	suiteAddCmd.Flags().StringVar(&suiteAddName, "name", "", "Human-readable test name (defaults to the test ID)")
	suiteAddCmd.Flags().Float64Var(&suiteAddDuration, "duration", 0, "Test duration in seconds")
	suiteAddCmd.Flags().StringVar(&suiteAddMessage, "message", "", "Failure or skip message")

	suiteShowCmd.Flags().BoolVar(&suiteShowJSON, "json", false, "Output as JSON")

	suiteListCmd.Flags().StringVar(&suiteListStatus, "status", "", "Filter by suite status")
	suiteListCmd.Flags().IntVar(&suiteListLimit, "limit", 0, "Maximum number of suites (0 for all)")

	suiteImportCmd.Flags().StringVar(&suiteImportName, "name", "", "Suite name override (defaults to the report's name)")

	suiteCmd.AddCommand(suiteStartCmd, suiteAddCmd, suiteEndCmd, suiteShowCmd, suiteListCmd, suiteImportCmd)
	rootCmd.AddCommand(suiteCmd)
}
