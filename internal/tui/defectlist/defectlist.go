// ABOUTME: Defect list screen backed by a bubbles table
// ABOUTME: Emits a selection message when the user picks a defect

package defectlist

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sloobman/ControlSystem/internal/api"
	"github.com/sloobman/ControlSystem/internal/tui/styles"
)

// SelectedMsg is sent when the user selects a defect from the list
type SelectedMsg struct {
	ID string
}

// List is the defect list screen
type List struct {
	table   table.Model
	defects []api.Defect
	width   int
	height  int
}

// New creates a defect list with the given rows
func New(defects []api.Defect, width, height int) *List {
	l := &List{width: width, height: height}
	l.table = table.New(
		table.WithColumns(l.columns()),
		table.WithFocused(true),
		table.WithHeight(l.tableHeight()),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(styles.Primary).
		Bold(true)
	l.table.SetStyles(s)

	l.SetDefects(defects)
	return l
}

// SetDefects replaces the table rows
func (l *List) SetDefects(defects []api.Defect) {
	l.defects = defects
	rows := make([]table.Row, 0, len(defects))
	for _, d := range defects {
		assignee := "-"
		if d.AssignedTo != nil {
			assignee = d.AssignedTo.Name
		}
		rows = append(rows, table.Row{
			string(d.Status),
			string(d.Priority),
			d.Location,
			d.Title,
			assignee,
		})
	}
	l.table.SetRows(rows)
}

// SetSize updates dimensions and recomputes column widths
func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.table.SetColumns(l.columns())
	l.table.SetHeight(l.tableHeight())
}

// Selected returns the defect under the cursor, or nil when the list is empty
func (l *List) Selected() *api.Defect {
	idx := l.table.Cursor()
	if idx < 0 || idx >= len(l.defects) {
		return nil
	}
	return &l.defects[idx]
}

// Init implements tea.Model
func (l *List) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (l *List) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if d := l.Selected(); d != nil {
			id := d.ID
			return l, func() tea.Msg { return SelectedMsg{ID: id} }
		}
		return l, nil
	}

	var cmd tea.Cmd
	l.table, cmd = l.table.Update(msg)
	return l, cmd
}

// View implements tea.Model
func (l *List) View() string {
	if len(l.defects) == 0 {
		return styles.Subtitle.Render("No defects registered yet. Press n to create one.")
	}
	return l.table.View()
}

func (l *List) columns() []table.Column {
	// Fixed columns take ~44 cells; the title gets the rest
	titleWidth := l.width - 44
	if titleWidth < 16 {
		titleWidth = 16
	}
	return []table.Column{
		{Title: "Status", Width: 11},
		{Title: "Priority", Width: 8},
		{Title: "Location", Width: 14},
		{Title: "Title", Width: titleWidth},
		{Title: "Assignee", Width: 11},
	}
}

func (l *List) tableHeight() int {
	h := l.height - 2
	if h < 3 {
		h = 3
	}
	return h
}
