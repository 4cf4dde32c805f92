package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var alertsNotify bool

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Evaluate alert thresholds against a fresh snapshot",
	Long: `Take a metrics snapshot and report every metric at or above its
configured threshold.

With --notify, triggered alerts are also posted to the configured webhook.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Monitor == nil {
			return fmt.Errorf("monitor not initialized")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		snapshot, err := Monitor.Collect(ctx)
		if err != nil {
			return fmt.Errorf("collecting metrics: %w", err)
		}

		alerts := Monitor.EvaluateAlerts(snapshot, Config.AlertThresholds)
		if len(alerts) == 0 {
			fmt.Println("No active alerts.")
			return nil
		}

		fmt.Printf("%d active alert(s):\n\n", len(alerts))
		for _, alert := range alerts {
			fmt.Printf("  [%s] %s\n", alert.Metric, alert.Message)
			fmt.Printf("         value %.1f%%, threshold %.1f%%\n\n", alert.Value, alert.Threshold)
		}

		if alertsNotify {
			if Notifier == nil {
				return fmt.Errorf("no alert webhook configured (set ALERT_WEBHOOK_URL)")
			}
			if err := Notifier.Notify(alerts); err != nil {
				return fmt.Errorf("posting alerts to webhook: %w", err)
			}
			fmt.Println("alerts posted to webhook")
		}

		return nil
	},
}

func init() {
	alertsCmd.Flags().BoolVar(&alertsNotify, "notify", false, "Post triggered alerts to the configured webhook")
	rootCmd.AddCommand(alertsCmd)
}
