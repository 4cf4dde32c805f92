package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after merging defaults, .logiclens.yaml, .env,
and environment variables. The API key is redacted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Config == nil {
			return fmt.Errorf("configuration not initialized")
		}

		shown := *Config
		if shown.APIKey != "" {
			shown.APIKey = "<redacted>"
		}

		switch configFormat {
		case "yaml":
			data, err := yaml.Marshal(&shown)
			if err != nil {
				return fmt.Errorf("formatting config as YAML: %w", err)
			}
			fmt.Print(string(data))
		case "json":
			data, err := json.MarshalIndent(&shown, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting config as JSON: %w", err)
			}
			fmt.Println(string(data))
		default:
			return fmt.Errorf("unsupported format %q (use yaml or json)", configFormat)
		}
		return nil
	},
}

func init() {
	configCmd.Flags().StringVar(&configFormat, "format", "yaml", "Output format (yaml or json)")
	rootCmd.AddCommand(configCmd)
}
