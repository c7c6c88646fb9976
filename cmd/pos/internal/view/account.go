package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/warung/internal/session"
	"github.com/MrJamesThe3rd/warung/internal/sync"
)

type accountState int

const (
	accountStateOverview accountState = iota
	accountStateSignIn
	accountStateBusy
)

// AccountModel handles signing in and out and triggering a manual sync. The
// terminal works fully offline; everything here is optional.
type AccountModel struct {
	CommonModel
	session *session.Session
	syncer  *sync.Engine

	state   accountState
	form    *huh.Form
	spinner spinner.Model
	busy    string
	status  string

	// Form bindings
	formEmail    string
	formPassword string
}

func NewAccountModel(sess *session.Session, syncer *sync.Engine) AccountModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return AccountModel{
		session: sess,
		syncer:  syncer,
		spinner: s,
	}
}

func (m AccountModel) Init() tea.Cmd {
	return nil
}

func (m AccountModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case signInMsg:
		m.state = accountStateOverview

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		if msg.result == session.ResultSignedUp {
			m.status = "Account created. Confirm it, then sign in again."
		} else {
			m.status = "Signed in"
		}

		return m, nil

	case signOutMsg:
		m.state = accountStateOverview
		m.status = "Signed out"

		return m, nil

	case syncDoneMsg:
		m.state = accountStateOverview
		m.status = fmt.Sprintf("Sync finished: %d pushed, %d failed", msg.summary.Pushed, msg.summary.Failed)

		return m, nil
	}

	switch m.state {
	case accountStateOverview:
		return m.updateOverview(msg)
	case accountStateSignIn:
		return m.updateSignIn(msg)
	case accountStateBusy:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m AccountModel) updateOverview(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "i":
		if !m.session.Authenticated() {
			return m.enterSignIn()
		}
	case "o":
		if m.session.Authenticated() {
			m.state = accountStateBusy
			m.busy = "Signing out..."

			return m, tea.Batch(m.spinner.Tick, m.signOutCmd())
		}
	case "s":
		if m.syncer == nil {
			m.status = "No remote store configured"
			return m, nil
		}

		if m.session.Authenticated() {
			m.state = accountStateBusy
			m.busy = "Syncing with the remote store..."

			return m, tea.Batch(m.spinner.Tick, m.syncCmd())
		}

		m.status = "Sign in first to sync"
	}

	return m, nil
}

func (m AccountModel) enterSignIn() (tea.Model, tea.Cmd) {
	m.formEmail = ""
	m.formPassword = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title("Email").
				Placeholder("kasir@warung.id").
				Value(&m.formEmail).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return fmt.Errorf("enter a valid email address")
					}
					return nil
				}),

			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.formPassword).
				Validate(func(s string) error {
					if len(s) < 6 {
						return fmt.Errorf("password must be at least 6 characters")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = accountStateSignIn

	return m, m.form.Init()
}

func (m AccountModel) updateSignIn(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = accountStateOverview
			m.form = nil

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = accountStateBusy
	m.busy = "Signing in..."
	m.form = nil

	return m, tea.Batch(m.spinner.Tick, m.signInCmd(m.formEmail, m.formPassword))
}

func (m AccountModel) View() string {
	switch m.state {
	case accountStateSignIn:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case accountStateBusy:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s %s", m.spinner.View(), m.busy),
		)
	}

	var body string

	if user, ok := m.session.Current(); ok {
		body = fmt.Sprintf("Signed in as %s\n\ns: sync now | o: sign out | Esc: back", user.Email)
	} else {
		body = "Not signed in. Sales stay on this terminal until you sign in.\n\ni: sign in | Esc: back"
	}

	content := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render("Account\n\n" + body)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type signInMsg struct {
	result session.Result
	err    error
}

func (m AccountModel) signInCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := RemoteCtx()
		defer cancel()

		result, err := m.session.SignIn(ctx, email, password)

		return signInMsg{result: result, err: err}
	}
}

type signOutMsg struct{}

func (m AccountModel) signOutCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := RemoteCtx()
		defer cancel()

		m.session.SignOut(ctx)

		return signOutMsg{}
	}
}

type syncDoneMsg struct {
	summary sync.Summary
}

func (m AccountModel) syncCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := RemoteCtx()
		defer cancel()

		return syncDoneMsg{summary: m.syncer.Round(ctx)}
	}
}
