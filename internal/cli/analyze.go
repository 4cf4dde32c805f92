package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "AI-assisted analysis of logs, tests, and security data",
	Long: `Send collected data to the configured Ollama model for analysis.

Each subcommand reads its input from a file and prints the model's
response. Requires a reachable Ollama server (OLLAMA_HOST).`,
}

func runAnalysis(cmd *cobra.Command, path string, analyze func(context.Context, string) (string, error)) error {
	if Ollama == nil {
		return fmt.Errorf("ollama client not initialized")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading input file: %w", err)
	}

	response, err := analyze(cmd.Context(), string(data))
	if err != nil {
		return fmt.Errorf("running analysis: %w", err)
	}

	fmt.Println(response)
	return nil
}

var analyzeLogsCmd = &cobra.Command{
	Use:   "logs <path>",
	Short: "Analyze a log file for errors and anomalies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(cmd, args[0], Ollama.AnalyzeLogs)
	},
}

var analyzeTestsCmd = &cobra.Command{
	Use:   "tests <path>",
	Short: "Analyze test results for failure patterns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(cmd, args[0], Ollama.AnalyzeTests)
	},
}

var analyzeSecurityCmd = &cobra.Command{
	Use:   "security <path>",
	Short: "Analyze security events for threats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(cmd, args[0], Ollama.AnalyzeSecurity)
	},
}

var chatContext string

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Chat with the configured Ollama model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Ollama == nil {
			return fmt.Errorf("ollama client not initialized")
		}

		response, err := Ollama.Chat(cmd.Context(), args[0], chatContext)
		if err != nil {
			return fmt.Errorf("chatting with model: %w", err)
		}

		fmt.Println(response)
		return nil
	},
}

func init() {
	analyzeCmd.AddCommand(analyzeLogsCmd, analyzeTestsCmd, analyzeSecurityCmd)
	rootCmd.AddCommand(analyzeCmd)

	chatCmd.Flags().StringVar(&chatContext, "context", "", "Extra context to include with the message")
	rootCmd.AddCommand(chatCmd)
}
