// ABOUTME: Dashboard component displaying aggregate defect statistics
// ABOUTME: Shows status totals as metric blocks and priority breakdown bars

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sloobman/ControlSystem/internal/api"
	"github.com/sloobman/ControlSystem/internal/tui/styles"
	"github.com/sloobman/ControlSystem/internal/tui/widgets"
)

// Dashboard displays aggregate defect statistics
type Dashboard struct {
	stats  *api.DefectStats
	width  int
	height int
}

// New creates a new dashboard with statistics data
func New(stats *api.DefectStats, width, height int) *Dashboard {
	return &Dashboard{
		stats:  stats,
		width:  width,
		height: height,
	}
}

// Update refreshes the dashboard with new statistics
func (d *Dashboard) Update(stats *api.DefectStats) {
	d.stats = stats
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the dashboard
func (d *Dashboard) View() string {
	if d.stats == nil {
		return styles.Panel.Width(d.width).Render("Loading statistics...")
	}

	var sb strings.Builder

	sb.WriteString(styles.Title.Render("Site Overview"))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d defects total", d.stats.Total)))
	sb.WriteString("\n\n")

	blockWidth := d.blockWidth()
	sb.WriteString(widgets.MetricRow(
		widgets.MetricBlock("Open", d.stats.Open, widgets.StatusColor(api.StatusOpen), blockWidth),
		widgets.MetricBlock("In progress", d.stats.InProgress, widgets.StatusColor(api.StatusInProgress), blockWidth),
		widgets.MetricBlock("Resolved", d.stats.Resolved, widgets.StatusColor(api.StatusResolved), blockWidth),
		widgets.MetricBlock("Closed", d.stats.Closed, widgets.StatusColor(api.StatusClosed), blockWidth),
	))
	sb.WriteString("\n\n")

	sb.WriteString("By priority\n")
	sb.WriteString(d.priorityRow("critical", d.stats.ByPriority.Critical))
	sb.WriteString(d.priorityRow("high", d.stats.ByPriority.High))
	sb.WriteString(d.priorityRow("medium", d.stats.ByPriority.Medium))
	sb.WriteString(d.priorityRow("low", d.stats.ByPriority.Low))

	return lipgloss.NewStyle().
		Width(d.width).
		Height(d.height).
		Render(sb.String())
}

// priorityRow renders one labeled priority bar scaled against the total
func (d *Dashboard) priorityRow(label string, count int) string {
	percent := 0.0
	if d.stats.Total > 0 {
		percent = float64(count) / float64(d.stats.Total) * 100.0
	}
	return fmt.Sprintf("  %-9s %s %d\n", label, styles.ProgressBar(percent, 20), count)
}

// blockWidth divides the available width across the four status blocks
func (d *Dashboard) blockWidth() int {
	w := (d.width - 4) / 4
	if w < 10 {
		w = 10
	}
	return w
}
