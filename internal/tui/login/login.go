// ABOUTME: Login and registration screen as a bubbletea model
// ABOUTME: Uses huh forms; emits submitted messages for the root app to act on

package login

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/sloobman/ControlSystem/internal/api"
)

// LoginSubmittedMsg is sent when the login form is completed
type LoginSubmittedMsg struct {
	Email    string
	Password string
}

// RegisterSubmittedMsg is sent when the register form is completed
type RegisterSubmittedMsg struct {
	Email    string
	Password string
	Name     string
	Role     api.Role
}

// CancelledMsg is sent when the user backs out of the screen
type CancelledMsg struct{}

// Mode selects which form is shown
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// Login is the authentication screen
type Login struct {
	mode Mode
	form *huh.Form

	email    string
	password string
	name     string
	role     api.Role
}

// New creates a login screen in login mode
func New() *Login {
	l := &Login{mode: ModeLogin, role: api.RoleEngineer}
	l.form = l.buildForm()
	return l
}

func (l *Login) buildForm() *huh.Form {
	if l.mode == ModeRegister {
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Value(&l.email),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&l.password),
				huh.NewInput().
					Title("Name").
					Value(&l.name),
				huh.NewSelect[api.Role]().
					Title("Role").
					Options(
						huh.NewOption("Engineer", api.RoleEngineer),
						huh.NewOption("Foreman", api.RoleForeman),
						huh.NewOption("Manager", api.RoleManager),
					).
					Value(&l.role),
			).Title("Create account"),
		).WithTheme(huh.ThemeBase())
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&l.email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&l.password),
		).Title("Sign in"),
	).WithTheme(huh.ThemeBase())
}

// Mode returns the current form mode
func (l *Login) Mode() Mode {
	return l.mode
}

// ToggleMode switches between login and register and resets the form
func (l *Login) ToggleMode() tea.Cmd {
	if l.mode == ModeLogin {
		l.mode = ModeRegister
	} else {
		l.mode = ModeLogin
	}
	l.form = l.buildForm()
	return l.form.Init()
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return l, func() tea.Msg { return CancelledMsg{} }
		case "ctrl+r":
			return l, l.ToggleMode()
		}
	}

	model, cmd := l.form.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		l.form = form
	}

	if l.form.State == huh.StateCompleted {
		if l.mode == ModeRegister {
			return l, func() tea.Msg {
				return RegisterSubmittedMsg{
					Email:    l.email,
					Password: l.password,
					Name:     l.name,
					Role:     l.role,
				}
			}
		}
		return l, func() tea.Msg {
			return LoginSubmittedMsg{Email: l.email, Password: l.password}
		}
	}

	return l, cmd
}

// View implements tea.Model
func (l *Login) View() string {
	return l.form.View()
}
