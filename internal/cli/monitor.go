package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/logiclens/pkg/models"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Sample and inspect system metrics",
}

var (
	monitorCollectStore bool
	monitorCollectJSON  bool
)

var monitorCollectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Take a metrics snapshot",
	Long: `Sample CPU, memory, disk, network, and process metrics at call time.

With --store the snapshot is also appended to the metrics store.`,
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

		if monitorCollectStore {
			if err := Monitor.Store(snapshot); err != nil {
				return fmt.Errorf("storing snapshot: %w", err)
			}
		}

		if monitorCollectJSON {
			data, err := json.MarshalIndent(snapshot, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting snapshot as JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		printSnapshot(snapshot)
		return nil
	},
}

var monitorHistoryCount int

var monitorHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show stored snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Monitor == nil {
			return fmt.Errorf("monitor not initialized")
		}

		snapshots, err := Monitor.History(monitorHistoryCount)
		if err != nil {
			return fmt.Errorf("reading metric history: %w", err)
		}

		if len(snapshots) == 0 {
			fmt.Println("No stored snapshots.")
			return nil
		}
		for _, snapshot := range snapshots {
			fmt.Printf("%s  cpu %5.1f%%  mem %5.1f%%  disk %5.1f%%\n",
				snapshot.Timestamp.Format("2006-01-02 15:04:05"),
				snapshot.System.CPUPercent,
				snapshot.System.MemoryPercent,
				snapshot.System.DiskPercent)
		}
		return nil
	},
}

var (
	monitorTrendsMetric string
	monitorTrendsWindow int
)

var monitorTrendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Analyze a metric's direction over recent snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Monitor == nil {
			return fmt.Errorf("monitor not initialized")
		}

		report, err := Monitor.Trends(monitorTrendsMetric, monitorTrendsWindow)
		if err != nil {
			return fmt.Errorf("computing trends: %w", err)
		}

		fmt.Printf("%s over %d sample(s)\n", report.Metric, report.Count)
		fmt.Printf("  min %.2f  max %.2f  avg %.2f\n", report.Min, report.Max, report.Avg)
		fmt.Printf("  trend %+.2f (%+.1f%%)\n", report.Trend, report.TrendPercent)
		return nil
	},
}

var monitorInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show static host information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Monitor == nil {
			return fmt.Errorf("monitor not initialized")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		info, err := Monitor.SystemInfo(ctx)
		if err != nil {
			return fmt.Errorf("reading system info: %w", err)
		}

		fmt.Printf("  %-16s %s\n", "hostname:", info.Hostname)
		fmt.Printf("  %-16s %s\n", "platform:", info.Platform)
		fmt.Printf("  %-16s %d\n", "cpu count:", info.CPUCount)
		fmt.Printf("  %-16s %d MB\n", "memory total:", info.MemoryTotal/(1024*1024))
		fmt.Printf("  %-16s %s\n", "go version:", info.GoVersion)
		return nil
	},
}

func printSnapshot(snapshot models.MetricSnapshot) {
	fmt.Printf("snapshot at %s\n", snapshot.Timestamp.Format(time.RFC3339))
	fmt.Printf("  %-20s %.1f%%\n", "cpu:", snapshot.System.CPUPercent)
	fmt.Printf("  %-20s %.1f%% (%d MB used)\n", "memory:",
		snapshot.System.MemoryPercent, snapshot.System.MemoryUsed/(1024*1024))
	fmt.Printf("  %-20s %.1f%% (%d GB free)\n", "disk:",
		snapshot.System.DiskPercent, snapshot.System.DiskFree/(1024*1024*1024))
	fmt.Printf("  %-20s %d sent / %d received\n", "network bytes:",
		snapshot.System.NetworkBytesSent, snapshot.System.NetworkBytesRecv)
	fmt.Printf("  %-20s %.1f%% cpu, %d MB rss, %d threads\n", "process:",
		snapshot.Application.ProcessCPUPercent,
		snapshot.Application.ProcessMemoryRSS/(1024*1024),
		snapshot.Application.ProcessThreads)
}

func init() {
	monitorCollectCmd.Flags().BoolVar(&monitorCollectStore, "store", false, "Persist the snapshot to the metrics store")
	monitorCollectCmd.Flags().BoolVar(&monitorCollectJSON, "json", false, "Output as JSON")

	monitorHistoryCmd.Flags().IntVar(&monitorHistoryCount, "count", 60, "Maximum number of snapshots")

	monitorTrendsCmd.Flags().StringVar(&monitorTrendsMetric, "metric", "system.cpu_percent", "Dotted metric path")
	monitorTrendsCmd.Flags().IntVar(&monitorTrendsWindow, "window", 60, "Number of recent snapshots to analyze")

	monitorCmd.AddCommand(monitorCollectCmd, monitorHistoryCmd, monitorTrendsCmd, monitorInfoCmd)
	rootCmd.AddCommand(monitorCmd)
}
