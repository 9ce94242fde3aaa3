// ABOUTME: Status and priority badge widgets for defects
// ABOUTME: Provides colored inline badges keyed to the defect lifecycle

package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sloobman/ControlSystem/internal/api"
)

// Badge colors
var (
	BadgeOpenBg       = lipgloss.Color("#3B82F6")
	BadgeInProgressBg = lipgloss.Color("#F59E0B")
	BadgeResolvedBg   = lipgloss.Color("#10B981")
	BadgeClosedBg     = lipgloss.Color("#6B7280")

	BadgeLowBg      = lipgloss.Color("#6B7280")
	BadgeMediumBg   = lipgloss.Color("#3B82F6")
	BadgeHighBg     = lipgloss.Color("#F59E0B")
	BadgeCriticalBg = lipgloss.Color("#EF4444")

	badgeLightFg = lipgloss.Color("#FFFFFF")
	badgeDarkFg  = lipgloss.Color("#000000")
)

func badge(text string, bg, fg lipgloss.Color) string {
	style := lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true)
	return style.Render(text)
}

// StatusBadge renders a colored badge for a defect status
func StatusBadge(s api.Status) string {
	label := strings.ToUpper(strings.ReplaceAll(string(s), "_", " "))
	switch s {
	case api.StatusOpen:
		return badge(label, BadgeOpenBg, badgeLightFg)
	case api.StatusInProgress:
		return badge(label, BadgeInProgressBg, badgeDarkFg)
	case api.StatusResolved:
		return badge(label, BadgeResolvedBg, badgeLightFg)
	case api.StatusClosed:
		return badge(label, BadgeClosedBg, badgeLightFg)
	default:
		return badge(label, BadgeClosedBg, badgeLightFg)
	}
}

// PriorityBadge renders a colored badge for a defect priority
func PriorityBadge(p api.Priority) string {
	label := strings.ToUpper(string(p))
	switch p {
	case api.PriorityLow:
		return badge(label, BadgeLowBg, badgeLightFg)
	case api.PriorityMedium:
		return badge(label, BadgeMediumBg, badgeLightFg)
	case api.PriorityHigh:
		return badge(label, BadgeHighBg, badgeDarkFg)
	case api.PriorityCritical:
		return badge(label, BadgeCriticalBg, badgeLightFg)
	default:
		return badge(label, BadgeLowBg, badgeLightFg)
	}
}

// StatusColor returns the accent color for a defect status
func StatusColor(s api.Status) lipgloss.Color {
	switch s {
	case api.StatusOpen:
		return BadgeOpenBg
	case api.StatusInProgress:
		return BadgeInProgressBg
	case api.StatusResolved:
		return BadgeResolvedBg
	default:
		return BadgeClosedBg
	}
}

// PriorityColor returns the accent color for a defect priority
func PriorityColor(p api.Priority) lipgloss.Color {
	switch p {
	case api.PriorityCritical:
		return BadgeCriticalBg
	case api.PriorityHigh:
		return BadgeHighBg
	case api.PriorityMedium:
		return BadgeMediumBg
	default:
		return BadgeLowBg
	}
}
