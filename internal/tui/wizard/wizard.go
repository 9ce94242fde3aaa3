// ABOUTME: Create-defect wizard as a bubbletea model
// ABOUTME: Uses huh forms to collect the new defect's fields step by step

package wizard

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sloobman/ControlSystem/internal/api"
	"github.com/sloobman/ControlSystem/internal/tui/styles"
)

// WizardCompleteMsg is sent when the wizard finishes successfully
type WizardCompleteMsg struct {
	Input api.CreateDefectRequest
}

// WizardCancelledMsg is sent when the wizard is cancelled
type WizardCancelledMsg struct{}

// Wizard collects a new defect through a huh form
type Wizard struct {
	form  *huh.Form
	width int

	title       string
	description string
	location    string
	priority    api.Priority
	assigneeID  string
}

// New creates a wizard; users populate the assignee choices
func New(users []api.User) *Wizard {
	w := &Wizard{priority: api.PriorityMedium}

	assigneeOptions := []huh.Option[string]{huh.NewOption("Unassigned", "")}
	for _, u := range users {
		assigneeOptions = append(assigneeOptions, huh.NewOption(u.Name+" ("+string(u.Role)+")", u.ID))
	}

	w.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Description("Short summary of the defect").
				Validate(notEmpty("title")).
				Value(&w.title),
			huh.NewText().
				Title("Description").
				Description("What is wrong and where exactly").
				Validate(notEmpty("description")).
				Value(&w.description),
			huh.NewInput().
				Title("Location").
				Description("Block, floor, room...").
				Validate(notEmpty("location")).
				Value(&w.location),
		).Title("New defect"),
		huh.NewGroup(
			huh.NewSelect[api.Priority]().
				Title("Priority").
				Options(
					huh.NewOption("Low", api.PriorityLow),
					huh.NewOption("Medium", api.PriorityMedium),
					huh.NewOption("High", api.PriorityHigh),
					huh.NewOption("Critical", api.PriorityCritical),
				).
				Value(&w.priority),
			huh.NewSelect[string]().
				Title("Assign to").
				Options(assigneeOptions...).
				Value(&w.assigneeID),
		).Title("Classification"),
	).WithTheme(createTheme())

	return w
}

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return &emptyFieldError{field: field}
		}
		return nil
	}
}

type emptyFieldError struct{ field string }

func (e *emptyFieldError) Error() string { return e.field + " is required" }

// createTheme returns a huh theme matching the application palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(styles.Muted).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(styles.Danger).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(styles.Danger)
	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(styles.Primary).
		SetString("> ")

	return t
}

// SetWidth updates the rendering width
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return w, func() tea.Msg { return WizardCancelledMsg{} }
	}

	model, cmd := w.form.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		w.form = form
	}

	if w.form.State == huh.StateCompleted {
		input := api.CreateDefectRequest{
			Title:        w.title,
			Description:  w.description,
			Location:     w.location,
			Priority:     w.priority,
			AssignedToID: w.assigneeID,
		}
		return w, func() tea.Msg { return WizardCompleteMsg{Input: input} }
	}
	if w.form.State == huh.StateAborted {
		return w, func() tea.Msg { return WizardCancelledMsg{} }
	}

	return w, cmd
}

// View implements tea.Model
func (w *Wizard) View() string {
	return w.form.View()
}
