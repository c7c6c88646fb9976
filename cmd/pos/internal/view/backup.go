package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/warung/internal/backup"
)

type backupState int

const (
	backupStateChoose backupState = iota
	backupStatePath
	backupStateResult
)

type BackupModel struct {
	CommonModel
	service *backup.Service

	state     backupState
	importing bool
	form      *huh.Form
	err       error
	summary   string

	// Form bindings
	action string
	path   string
}

func NewBackupModel(svc *backup.Service) BackupModel {
	m := BackupModel{
		service: svc,
		path:    "./warung-backup.json",
	}
	m.form = m.buildChooseForm()

	return m
}

func (m BackupModel) buildChooseForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("action").
				Title("Backup").
				Options(
					huh.NewOption("Export catalog and sales to a file", "export"),
					huh.NewOption("Import catalog and sales from a file", "import"),
				).
				Value(&m.action),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m BackupModel) buildPathForm() *huh.Form {
	title := "Export to"
	if m.importing {
		title = "Import from"
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title(title).
				Placeholder("./warung-backup.json").
				Value(&m.path).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("path cannot be empty")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m BackupModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m BackupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case backupStateChoose:
		return m.updateChoose(msg)
	case backupStatePath:
		return m.updatePath(msg)
	case backupStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m BackupModel) updateChoose(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.importing = m.action == "import"
	m.form = m.buildPathForm()
	m.state = backupStatePath

	return m, m.form.Init()
}

func (m BackupModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = backupStateChoose
			m.form = m.buildChooseForm()

			return m, m.form.Init()
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.run()
	m.state = backupStateResult

	return m, nil
}

func (m *BackupModel) run() {
	path := strings.TrimSpace(m.path)
	m.err = nil

	if !m.importing {
		m.err = m.service.ExportFile(path)
		m.summary = fmt.Sprintf("Exported to %s", path)

		return
	}

	sum, err := m.service.ImportFile(path)
	if err != nil {
		m.err = err
		return
	}

	var parts []string
	if sum.ReplacedProducts {
		parts = append(parts, fmt.Sprintf("%d products", sum.Products))
	}

	if sum.ReplacedTxns {
		parts = append(parts, fmt.Sprintf("%d sales", sum.Txns))
	}

	if len(parts) == 0 {
		m.summary = "Nothing to import: file carried no data"
	} else {
		m.summary = "Imported " + strings.Join(parts, " and ")
	}
}

func (m BackupModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc || keyMsg.Type == tea.KeyEnter {
			return m, Back
		}
	}

	return m, nil
}

func (m BackupModel) View() string {
	switch m.state {
	case backupStateChoose, backupStatePath:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case backupStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(
				lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
			)
		}

		header := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")).
			Render("Done!")

		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left, header, "", m.summary, "", "(Esc to go back)"),
		)
	}

	return ""
}
