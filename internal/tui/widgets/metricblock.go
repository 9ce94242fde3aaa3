// ABOUTME: Metric block widget showing a labeled count with accent color
// ABOUTME: Used by the dashboard to lay out status and priority totals

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// MetricBlock renders a bordered block with a big number over a label.
func MetricBlock(label string, value int, accent lipgloss.Color, width int) string {
	if width < 8 {
		width = 8
	}

	valueStyle := lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		Align(lipgloss.Center).
		Width(width - 2)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9CA3AF")).
		Align(lipgloss.Center).
		Width(width - 2)

	block := valueStyle.Render(fmt.Sprintf("%d", value)) + "\n" + labelStyle.Render(label)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Width(width).
		Render(block)
}

// MetricRow joins metric blocks horizontally.
func MetricRow(blocks ...string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}
