// ABOUTME: Defect detail screen with comments and inline actions
// ABOUTME: Emits messages for comment submission and status changes

package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sloobman/ControlSystem/internal/api"
	"github.com/sloobman/ControlSystem/internal/tui/icons"
	"github.com/sloobman/ControlSystem/internal/tui/styles"
	"github.com/sloobman/ControlSystem/internal/tui/widgets"
)

// CommentSubmittedMsg is sent when the user submits a comment
type CommentSubmittedMsg struct {
	ID      string
	Content string
}

// StatusChangeMsg is sent when the user picks a new status
type StatusChangeMsg struct {
	ID     string
	Status api.Status
}

// BackMsg is sent when the user leaves the detail screen
type BackMsg struct{}

// Detail shows a single defect with its comment thread
type Detail struct {
	defect *api.Defect
	width  int
	height int

	commenting bool
	input      textinput.Model
}

// New creates a detail screen for the given defect
func New(defect *api.Defect, width, height int) *Detail {
	ti := textinput.New()
	ti.Placeholder = "Write a comment..."
	ti.CharLimit = 500
	return &Detail{
		defect: defect,
		width:  width,
		height: height,
		input:  ti,
	}
}

// SetDefect replaces the displayed defect (after a refetch)
func (d *Detail) SetDefect(defect *api.Defect) {
	d.defect = defect
}

// SetSize updates dimensions
func (d *Detail) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Init implements tea.Model
func (d *Detail) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (d *Detail) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}

	if d.commenting {
		switch key.String() {
		case "esc":
			d.commenting = false
			d.input.Reset()
			return d, nil
		case "enter":
			content := strings.TrimSpace(d.input.Value())
			d.commenting = false
			d.input.Reset()
			if content == "" {
				return d, nil
			}
			id := d.defect.ID
			return d, func() tea.Msg { return CommentSubmittedMsg{ID: id, Content: content} }
		}
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return d, cmd
	}

	switch key.String() {
	case "c":
		d.commenting = true
		return d, d.input.Focus()
	case "b", "esc":
		return d, func() tea.Msg { return BackMsg{} }
	case "1":
		return d, d.changeStatus(api.StatusOpen)
	case "2":
		return d, d.changeStatus(api.StatusInProgress)
	case "3":
		return d, d.changeStatus(api.StatusResolved)
	case "4":
		return d, d.changeStatus(api.StatusClosed)
	}
	return d, nil
}

func (d *Detail) changeStatus(s api.Status) tea.Cmd {
	if d.defect == nil || d.defect.Status == s {
		return nil
	}
	id := d.defect.ID
	return func() tea.Msg { return StatusChangeMsg{ID: id, Status: s} }
}

// View implements tea.Model
func (d *Detail) View() string {
	if d.defect == nil {
		return styles.Subtitle.Render("Loading defect...")
	}

	var sb strings.Builder

	sb.WriteString(styles.Title.Render(d.defect.Title))
	sb.WriteString("\n")
	sb.WriteString(widgets.StatusBadge(d.defect.Status))
	sb.WriteString(" ")
	sb.WriteString(widgets.PriorityBadge(d.defect.Priority))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("%s %s\n", icons.Location.String(), d.defect.Location))
	if d.defect.AssignedTo != nil {
		sb.WriteString(fmt.Sprintf("%s %s (%s)\n", icons.Person.String(), d.defect.AssignedTo.Name, d.defect.AssignedTo.Role))
	} else {
		sb.WriteString(fmt.Sprintf("%s unassigned\n", icons.Person.String()))
	}
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("reported by %s on %s", d.defect.CreatedBy.Name, d.defect.CreatedAt)))
	sb.WriteString("\n\n")

	sb.WriteString(d.defect.Description)
	sb.WriteString("\n")

	if len(d.defect.Photos) > 0 {
		sb.WriteString("\n")
		for _, p := range d.defect.Photos {
			sb.WriteString(fmt.Sprintf("%s %s\n", icons.Photo.String(), p))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s Comments (%d)", icons.Comment.String(), len(d.defect.Comments))))
	sb.WriteString("\n")
	if len(d.defect.Comments) == 0 {
		sb.WriteString(styles.Subtitle.Render("No comments yet."))
		sb.WriteString("\n")
	}
	for _, c := range d.defect.Comments {
		author := styles.ValueStyle.Render(c.Author.Name)
		sb.WriteString(fmt.Sprintf("%s %s\n", author, styles.Subtitle.Render(c.CreatedAt)))
		sb.WriteString("  " + c.Content + "\n")
	}

	if d.commenting {
		sb.WriteString("\n")
		sb.WriteString(d.input.View())
	}

	return lipgloss.NewStyle().
		Width(d.width).
		MaxHeight(d.height).
		Render(sb.String())
}
