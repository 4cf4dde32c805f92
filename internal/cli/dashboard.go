package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/valter-silva-au/logiclens/pkg/models"
)

// Dashboard panel indices.
const (
	panelMetrics = iota
	panelLogs
	panelAlerts
	panelCount
)

type dashboardModel struct {
	activePanel int
	width       int
	height      int

	// Data.
	snapshot *models.MetricSnapshot
	logs     []models.LogEvent
	alerts   []models.Alert

	// State.
	loading bool
	err     error
}

// dashboardDataMsg carries loaded data back to the model.
type dashboardDataMsg struct {
	snapshot *models.MetricSnapshot
	logs     []models.LogEvent
	alerts   []models.Alert
	err      error
}

// tickMsg drives the periodic refresh.
type tickMsg time.Time

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	levelDebug    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	levelInfo     = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	levelWarning  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	levelError    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	levelCritical = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	alertStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const dashboardRefresh = 5 * time.Second

func newDashboardModel() dashboardModel {
	return dashboardModel{
		activePanel: panelMetrics,
		loading:     true,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(loadDashboardData, scheduleTick())
}

func scheduleTick() tea.Cmd {
	return tea.Tick(dashboardRefresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadDashboardData
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, tea.Batch(loadDashboardData, scheduleTick())

	case dashboardDataMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.snapshot = msg.snapshot
		m.logs = msg.logs
		m.alerts = msg.alerts
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" LogicLens Dashboard ")
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading && m.snapshot == nil {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	metricsPanel := m.renderMetricsPanel()
	logsPanel := m.renderLogsPanel()
	alertsPanel := m.renderAlertsPanel()

	// Available width for panels after accounting for margins.
	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		// Horizontal layout: three columns.
		colWidth := availableWidth / 3
		metricsPanel = m.applyPanelStyle(panelMetrics, metricsPanel, colWidth-4)
		logsPanel = m.applyPanelStyle(panelLogs, logsPanel, colWidth-4)
		alertsPanel = m.applyPanelStyle(panelAlerts, alertsPanel, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, metricsPanel, logsPanel, alertsPanel)
	} else {
		// Vertical layout: stacked.
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		metricsPanel = m.applyPanelStyle(panelMetrics, metricsPanel, panelWidth)
		logsPanel = m.applyPanelStyle(panelLogs, logsPanel, panelWidth)
		alertsPanel = m.applyPanelStyle(panelAlerts, alertsPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, metricsPanel, logsPanel, alertsPanel)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderMetricsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("System"))
	b.WriteString("\n")

	if m.snapshot == nil {
		b.WriteString("  No metrics available.")
		return b.String()
	}

	s := m.snapshot
	b.WriteString(fmt.Sprintf("  %-10s %5.1f%%\n", "CPU", s.System.CPUPercent))
	b.WriteString(fmt.Sprintf("  %-10s %5.1f%%  (%d MB used)\n", "Memory",
		s.System.MemoryPercent, s.System.MemoryUsed/(1024*1024)))
	b.WriteString(fmt.Sprintf("  %-10s %5.1f%%  (%d GB free)\n", "Disk",
		s.System.DiskPercent, s.System.DiskFree/(1024*1024*1024)))
	b.WriteString(fmt.Sprintf("\n  %-10s %.1f%% cpu, %d threads\n", "Process",
		s.Application.ProcessCPUPercent, s.Application.ProcessThreads))
	b.WriteString(fmt.Sprintf("\n  sampled %s", s.Timestamp.Format("15:04:05")))

	return b.String()
}

func (m dashboardModel) renderLogsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Recent Logs"))
	b.WriteString("\n")

	if len(m.logs) == 0 {
		b.WriteString("  No log events.")
		return b.String()
	}

	for _, event := range m.logs {
		level := styleForLevel(event.Level).Render(fmt.Sprintf("[%s]", event.Level))
		message := event.Message
		if len(message) > 48 {
			message = message[:45] + "..."
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			event.Timestamp.Format("15:04:05"), level, message))
	}

	return b.String()
}

func (m dashboardModel) renderAlertsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Alerts"))
	b.WriteString("\n")

	if len(m.alerts) == 0 {
		b.WriteString(okStyle.Render("  All metrics below thresholds."))
		return b.String()
	}

	for _, alert := range m.alerts {
		tag := alertStyle.Render(fmt.Sprintf("[%s]", strings.ToUpper(alert.Metric)))
		b.WriteString(fmt.Sprintf("  %s %.1f%% >= %.1f%%\n", tag, alert.Value, alert.Threshold))
	}

	b.WriteString(fmt.Sprintf("\n  Total: %d alert(s)", len(m.alerts)))

	return b.String()
}

func styleForLevel(level models.LogLevel) lipgloss.Style {
	switch level {
	case models.LevelDebug:
		return levelDebug
	case models.LevelInfo:
		return levelInfo
	case models.LevelWarning:
		return levelWarning
	case models.LevelError:
		return levelError
	case models.LevelCritical:
		return levelCritical
	default:
		return lipgloss.NewStyle()
	}
}

func loadDashboardData() tea.Msg {
	var result dashboardDataMsg

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if Monitor != nil {
		snapshot, err := Monitor.Collect(ctx)
		if err != nil {
			result.err = fmt.Errorf("collecting metrics: %w", err)
			return result
		}
		result.snapshot = &snapshot
		result.alerts = Monitor.EvaluateAlerts(snapshot, Config.AlertThresholds)
	}

	if Logs != nil {
		events, err := Logs.GetLogs("", "", 10)
		if err != nil {
			result.err = fmt.Errorf("loading log events: %w", err)
			return result
		}
		result.logs = events
	}

	return result
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI dashboard for metrics, logs, and alerts",
	Long: `Launch an interactive terminal dashboard showing live system metrics,
recent log events, and triggered alerts.

The view refreshes every few seconds. Navigate between panels with Tab,
refresh with r, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Monitor == nil {
			return fmt.Errorf("monitor not initialized")
		}
		p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
