// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state and routes keyboard input to child components

package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sloobman/ControlSystem/internal/api"
	"github.com/sloobman/ControlSystem/internal/app"
	"github.com/sloobman/ControlSystem/internal/query"
	"github.com/sloobman/ControlSystem/internal/tui/dashboard"
	"github.com/sloobman/ControlSystem/internal/tui/debuglog"
	"github.com/sloobman/ControlSystem/internal/tui/defectlist"
	"github.com/sloobman/ControlSystem/internal/tui/detail"
	"github.com/sloobman/ControlSystem/internal/tui/icons"
	"github.com/sloobman/ControlSystem/internal/tui/login"
	"github.com/sloobman/ControlSystem/internal/tui/styles"
	"github.com/sloobman/ControlSystem/internal/tui/wizard"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenDashboard
	ScreenList
	ScreenDetail
	ScreenWizard
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before using single-column layout
	panelPadding     = 4  // Total horizontal padding from panel borders (2 each side)
)

// statsLoadedMsg is sent when aggregate statistics are loaded
type statsLoadedMsg struct {
	stats *api.DefectStats
	err   error
}

// defectsLoadedMsg is sent when the defect collection is loaded
type defectsLoadedMsg struct {
	defects []api.Defect
	err     error
}

// defectLoadedMsg is sent when a single defect is loaded
type defectLoadedMsg struct {
	defect *api.Defect
	err    error
}

// usersLoadedMsg is sent when the user directory is loaded (for the wizard)
type usersLoadedMsg struct {
	users []api.User
	err   error
}

// authDoneMsg is sent when a login or registration attempt settles
type authDoneMsg struct {
	user api.User
	err  error
}

// mutationDoneMsg is sent when a defect mutation settles
type mutationDoneMsg struct {
	defect *api.Defect
	err    error
}

// App is the root model for the TUI
type App struct {
	app    *app.App
	screen Screen
	width  int
	height int
	err    error

	lastUpdate time.Time

	// Child models
	loginScreen  *login.Login
	dash         *dashboard.Dashboard
	list         *defectlist.List
	detailScreen *detail.Detail
	wizardScreen *wizard.Wizard
}

// New creates a new TUI application
func New(a *app.App) *App {
	t := &App{app: a, screen: ScreenLogin}
	if a.Session.IsAuthenticated() {
		t.screen = ScreenDashboard
	} else {
		t.loginScreen = login.New()
	}
	return t
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenDashboard {
		return a.loadStats()
	}
	return a.loginScreen.Init()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.dash != nil {
			a.dash.SetSize(a.contentWidth(), a.contentHeight())
		}
		if a.list != nil {
			a.list.SetSize(a.contentWidth(), a.contentHeight())
		}
		if a.detailScreen != nil {
			a.detailScreen.SetSize(a.contentWidth(), a.contentHeight())
		}
		if a.wizardScreen != nil {
			a.wizardScreen.SetWidth(a.contentWidth())
		}
		return a, nil

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		// Any keystroke clears a transient error notification
		a.err = nil

		switch a.screen {
		case ScreenLogin:
			return a.updateLogin(msg)
		case ScreenDashboard:
			return a.updateDashboard(msg)
		case ScreenList:
			return a.updateList(msg)
		case ScreenDetail:
			return a.updateDetail(msg)
		case ScreenWizard:
			return a.updateWizard(msg)
		}

	case login.LoginSubmittedMsg:
		return a, a.doLogin(msg.Email, msg.Password)

	case login.RegisterSubmittedMsg:
		return a, a.doRegister(msg)

	case login.CancelledMsg:
		return a, tea.Quit

	case authDoneMsg:
		if msg.err != nil {
			return a.handleError(msg.err)
		}
		a.loginScreen = nil
		a.screen = ScreenDashboard
		return a, a.loadStats()

	case statsLoadedMsg:
		if msg.err != nil {
			return a.handleError(msg.err)
		}
		a.lastUpdate = time.Now()
		if a.dash == nil {
			a.dash = dashboard.New(msg.stats, a.contentWidth(), a.contentHeight())
		} else {
			a.dash.Update(msg.stats)
		}
		return a, nil

	case defectsLoadedMsg:
		if msg.err != nil {
			return a.handleError(msg.err)
		}
		a.lastUpdate = time.Now()
		if a.list == nil {
			a.list = defectlist.New(msg.defects, a.contentWidth(), a.contentHeight())
		} else {
			a.list.SetDefects(msg.defects)
		}
		a.screen = ScreenList
		return a, nil

	case defectlist.SelectedMsg:
		a.screen = ScreenDetail
		a.detailScreen = nil
		return a, a.loadDefect(msg.ID)

	case defectLoadedMsg:
		if msg.err != nil {
			return a.handleError(msg.err)
		}
		a.lastUpdate = time.Now()
		if a.detailScreen == nil {
			a.detailScreen = detail.New(msg.defect, a.contentWidth(), a.contentHeight())
		} else {
			a.detailScreen.SetDefect(msg.defect)
		}
		return a, nil

	case usersLoadedMsg:
		// Users feed the wizard's assignee choices; a failure falls back to
		// an unassigned-only wizard rather than blocking creation.
		if msg.err != nil {
			debuglog.Error("load users", msg.err)
		}
		a.wizardScreen = wizard.New(msg.users)
		a.wizardScreen.SetWidth(a.contentWidth())
		a.screen = ScreenWizard
		return a, a.wizardScreen.Init()

	case detail.CommentSubmittedMsg:
		return a, a.addComment(msg.ID, msg.Content)

	case detail.StatusChangeMsg:
		return a, a.changeStatus(msg.ID, msg.Status)

	case detail.BackMsg:
		a.screen = ScreenList
		return a, a.loadDefects()

	case wizard.WizardCompleteMsg:
		a.wizardScreen = nil
		return a, a.createDefect(msg.Input)

	case wizard.WizardCancelledMsg:
		a.screen = ScreenList
		a.wizardScreen = nil
		return a, nil

	case mutationDoneMsg:
		if msg.err != nil {
			model, cmd := a.handleError(msg.err)
			// A completed wizard is already gone; without this the user
			// would be stuck on an empty screen that eats every key.
			if a.screen == ScreenWizard && a.wizardScreen == nil {
				a.screen = ScreenList
				return model, a.loadDefects()
			}
			return model, cmd
		}
		a.lastUpdate = time.Now()
		if a.screen == ScreenDetail && a.detailScreen != nil && msg.defect != nil {
			a.detailScreen.SetDefect(msg.defect)
			return a, nil
		}
		// Creation and deletion land back on the list with fresh data
		a.screen = ScreenList
		return a, a.loadDefects()

	default:
		// Forward unknown messages to form-driven screens (needed for huh internals)
		if a.screen == ScreenWizard && a.wizardScreen != nil {
			return a.updateWizard(msg)
		}
		if a.screen == ScreenLogin && a.loginScreen != nil {
			return a.updateLogin(msg)
		}
	}

	return a, nil
}

func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.loginScreen == nil {
		return a, nil
	}
	model, cmd := a.loginScreen.Update(msg)
	a.loginScreen = model.(*login.Login)
	return a, cmd
}

func (a *App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "r":
		return a, a.refreshStats()
	case "l", "enter":
		return a, a.loadDefects()
	case "n":
		return a, a.loadUsers()
	case "x":
		return a.doLogout()
	}
	return a, nil
}

func (a *App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "r":
		return a, a.refreshDefects()
	case "n":
		return a, a.loadUsers()
	case "b", "esc":
		a.screen = ScreenDashboard
		return a, a.loadStats()
	}
	if a.list == nil {
		return a, nil
	}
	model, cmd := a.list.Update(msg)
	a.list = model.(*defectlist.List)
	return a, cmd
}

func (a *App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.detailScreen == nil {
		return a, nil
	}
	model, cmd := a.detailScreen.Update(msg)
	a.detailScreen = model.(*detail.Detail)
	return a, cmd
}

func (a *App) updateWizard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.wizardScreen == nil {
		return a, nil
	}
	model, cmd := a.wizardScreen.Update(msg)
	a.wizardScreen = model.(*wizard.Wizard)
	return a, cmd
}

// handleError records the error for the footer notification. An unauthorized
// response sends the user back to the login screen; everything else keeps
// the current screen, per the "no forced navigation on error" rule.
func (a *App) handleError(err error) (tea.Model, tea.Cmd) {
	debuglog.Error("request", err)
	a.err = err

	if apiErr, ok := api.AsAPIError(err); ok && apiErr.StatusCode == http.StatusUnauthorized {
		// A rejected login attempt keeps the form the user already filled in.
		if a.screen == ScreenLogin && a.loginScreen != nil {
			return a, nil
		}
		a.loginScreen = login.New()
		a.screen = ScreenLogin
		return a, a.loginScreen.Init()
	}
	return a, nil
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.viewPanel(a.viewLogin())
	case ScreenDashboard:
		content = a.viewPanel(a.viewDashboard())
	case ScreenList:
		content = a.viewPanel(a.viewList())
	case ScreenDetail:
		content = a.viewPanel(a.viewDetail())
	case ScreenWizard:
		content = a.viewPanel(a.viewWizard())
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewLogin() string {
	if a.loginScreen != nil {
		return a.loginScreen.View()
	}
	return ""
}

func (a *App) viewDashboard() string {
	if a.dash != nil {
		return a.dash.View()
	}
	return "Loading statistics..."
}

func (a *App) viewList() string {
	if a.list != nil {
		return a.list.View()
	}
	return "Loading defects..."
}

func (a *App) viewDetail() string {
	if a.detailScreen != nil {
		return a.detailScreen.View()
	}
	return "Loading defect..."
}

func (a *App) viewWizard() string {
	if a.wizardScreen != nil {
		return a.wizardScreen.View()
	}
	return ""
}

func (a *App) viewPanel(content string) string {
	return styles.ActivePanel.Width(a.contentWidth() + 2).Render(content)
}

// contentWidth calculates the width available inside the panel
func (a *App) contentWidth() int {
	w := a.width - panelPadding - 2
	if a.width < minTerminalWidth {
		w = minTerminalWidth - panelPadding - 2
	}
	return w
}

// contentHeight calculates the height available for panel content
func (a *App) contentHeight() int {
	// Header, footer, panel borders and padding
	return a.height - 8
}

// renderHeader creates the header bar with app branding and session context
func (a *App) renderHeader() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s", icons.App.String(), titleStyle.Render("ControlSystem"))

	rightText := ""
	if user := a.app.Session.Current(); user != nil && a.screen != ScreenLogin {
		rightText = contextStyle.Render(user.Name) + " "
	}

	leftRendered := lipgloss.NewStyle().Render(leftText)
	rightRendered := lipgloss.NewStyle().Align(lipgloss.Right).Render(rightText)

	fillWidth := width - 4 - lipgloss.Width(leftRendered) - lipgloss.Width(rightRendered)
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := "╭─" + leftRendered + strings.Repeat("─", fillWidth) + rightRendered + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	// A transient error replaces the shortcut bar until the next keystroke
	if a.err != nil {
		return styles.ErrorBar.Width(width).Render(truncateLine(a.err.Error(), width-2))
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch a.screen {
	case ScreenLogin:
		shortcuts = []string{"Tab Next", "Enter Submit", "ctrl+r Register", "Esc Quit"}
	case ScreenDashboard:
		shortcuts = []string{"l Defects", "n New", "r Refresh", "x Logout", "q Quit"}
	case ScreenList:
		shortcuts = []string{"↑↓ Navigate", "Enter Open", "n New", "r Refresh", "b Back", "q Quit"}
	case ScreenDetail:
		shortcuts = []string{"c Comment", "1-4 Status", "b Back"}
	case ScreenWizard:
		shortcuts = []string{"Tab Next", "Enter Confirm", "Esc Cancel"}
	}

	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	rightText := ""
	rightPlainText := ""
	if !a.lastUpdate.IsZero() && a.screen != ScreenLogin && a.screen != ScreenWizard {
		elapsed := formatTimeSince(a.lastUpdate)
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlainText = "Updated " + elapsed + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftPlainText) - lipgloss.Width(rightPlainText)
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// formatTimeSince formats a duration since the given time in human-readable form
func formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1h ago"
	}
	return fmt.Sprintf("%dh ago", hours)
}

func truncateLine(s string, n int) string {
	runes := []rune(s)
	if n < 1 || len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// loadStats creates a command to fetch aggregate statistics
func (a *App) loadStats() tea.Cmd {
	return func() tea.Msg {
		stats, err := a.app.Cache.Stats(context.Background())
		return statsLoadedMsg{stats: stats, err: err}
	}
}

// refreshStats forces a refetch by invalidating the stats entry first
func (a *App) refreshStats() tea.Cmd {
	a.app.Cache.Invalidate(query.StatsKey())
	return a.loadStats()
}

// loadDefects creates a command to fetch the defect collection
func (a *App) loadDefects() tea.Cmd {
	return func() tea.Msg {
		defects, err := a.app.Cache.Defects(context.Background())
		return defectsLoadedMsg{defects: defects, err: err}
	}
}

// refreshDefects forces a refetch of the collection
func (a *App) refreshDefects() tea.Cmd {
	a.app.Cache.Invalidate(query.DefectsKey())
	return a.loadDefects()
}

// loadDefect creates a command to fetch one defect
func (a *App) loadDefect(id string) tea.Cmd {
	return func() tea.Msg {
		defect, err := a.app.Cache.Defect(context.Background(), id)
		return defectLoadedMsg{defect: defect, err: err}
	}
}

// loadUsers creates a command to fetch assignee choices for the wizard
func (a *App) loadUsers() tea.Cmd {
	return func() tea.Msg {
		users, err := a.app.Cache.Users(context.Background())
		return usersLoadedMsg{users: users, err: err}
	}
}

// doLogin creates a command performing the login round trip
func (a *App) doLogin(email, password string) tea.Cmd {
	return func() tea.Msg {
		auth, err := a.app.Login(context.Background(), api.LoginRequest{Email: email, Password: password})
		if err != nil {
			return authDoneMsg{err: err}
		}
		return authDoneMsg{user: auth.User}
	}
}

// doRegister creates a command performing the registration round trip
func (a *App) doRegister(msg login.RegisterSubmittedMsg) tea.Cmd {
	return func() tea.Msg {
		auth, err := a.app.Register(context.Background(), api.RegisterRequest{
			Email:    msg.Email,
			Password: msg.Password,
			Name:     msg.Name,
			Role:     msg.Role,
		})
		if err != nil {
			return authDoneMsg{err: err}
		}
		return authDoneMsg{user: auth.User}
	}
}

// doLogout clears the session and returns to the login screen
func (a *App) doLogout() (tea.Model, tea.Cmd) {
	if err := a.app.Logout(); err != nil {
		debuglog.Error("logout", err)
	}
	a.dash = nil
	a.list = nil
	a.detailScreen = nil
	a.loginScreen = login.New()
	a.screen = ScreenLogin
	return a, a.loginScreen.Init()
}

// createDefect creates a command performing the create mutation
func (a *App) createDefect(input api.CreateDefectRequest) tea.Cmd {
	return func() tea.Msg {
		_, err := a.app.Cache.CreateDefect(context.Background(), input)
		return mutationDoneMsg{err: err}
	}
}

// addComment creates a command appending a comment to a defect
func (a *App) addComment(id, content string) tea.Cmd {
	return func() tea.Msg {
		defect, err := a.app.Cache.AddComment(context.Background(), id, content)
		return mutationDoneMsg{defect: defect, err: err}
	}
}

// changeStatus creates a command patching a defect's status
func (a *App) changeStatus(id string, status api.Status) tea.Cmd {
	return func() tea.Msg {
		defect, err := a.app.Cache.UpdateDefect(context.Background(), id, api.UpdateDefectRequest{Status: &status})
		return mutationDoneMsg{defect: defect, err: err}
	}
}

// Run starts the TUI
func Run(a *app.App) error {
	if a.Config.Debug {
		if err := debuglog.Init(a.Config.ConfigDir); err == nil {
			defer debuglog.Close()
		}
	}

	p := tea.NewProgram(
		New(a),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
