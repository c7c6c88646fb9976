package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/warung/internal/ledger"
	"github.com/MrJamesThe3rd/warung/internal/receipt"
)

type historyState int

const (
	historyStateBrowse historyState = iota
	historyStateReceipt
)

type HistoryModel struct {
	CommonModel
	ledger   *ledger.Ledger
	renderer *receipt.Renderer

	state historyState
	table table.Model
	txns  []ledger.Transaction

	// Filter cycling
	dateFilterIdx int
	filter        ledger.Filter

	receiptText string
}

func NewHistoryModel(led *ledger.Ledger, renderer *receipt.Renderer) HistoryModel {
	columns := []table.Column{
		{Title: "Date", Width: 18},
		{Title: "ID", Width: 26},
		{Title: "Items", Width: 7},
		{Title: "Total", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := HistoryModel{
		ledger:   led,
		renderer: renderer,
		table:    t,
	}
	m.refreshTable()

	return m
}

func (m HistoryModel) Init() tea.Cmd {
	return nil
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if sizeMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.table.SetHeight(sizeMsg.Height - 10)
		return m, nil
	}

	if m.state == historyStateReceipt {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc", "enter":
				m.state = historyStateBrowse
				m.receiptText = ""
				m.table.Focus()
			}
		}

		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % 4
			m.applyFilter()
			m.refreshTable()

			return m, nil
		case "r":
			m.refreshTable()
			return m, nil
		case "enter":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.txns) {
				m.receiptText = m.renderer.Render(m.txns[idx])
				m.state = historyStateReceipt
				m.table.Blur()
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m HistoryModel) View() string {
	if m.state == historyStateReceipt {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Render(m.receiptText)

		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left, panel, "", "(Esc to go back)"),
		)
	}

	dateLabels := []string{"All Time", "Today", "This Week", "This Month"}

	var total int64
	for _, t := range m.txns {
		total += t.Total
	}

	header := fmt.Sprintf(
		"Filter: [d] Date: %s | %d sales, %s",
		activeStyle(dateLabels[m.dateFilterIdx]),
		len(m.txns),
		FormatMoney(total),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	help := "Enter: receipt | d: date filter | r: refresh | Esc: back"

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		lipgloss.NewStyle().Faint(true).Render(help),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *HistoryModel) applyFilter() {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch m.dateFilterIdx {
	case 1:
		m.filter.Start = &today
		m.filter.End = &today
	case 2:
		// week starts on Monday
		offset := (int(now.Weekday()) + 6) % 7
		s := today.AddDate(0, 0, -offset)
		m.filter.Start = &s
		m.filter.End = &today
	case 3:
		s := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		m.filter.Start = &s
		m.filter.End = &today
	default:
		m.filter.Start = nil
		m.filter.End = nil
	}
}

func (m *HistoryModel) refreshTable() {
	m.txns = m.ledger.List(m.filter)

	rows := make([]table.Row, 0, len(m.txns))
	for _, t := range m.txns {
		count := 0
		for _, item := range t.Items {
			count += item.Qty
		}

		rows = append(rows, table.Row{
			t.Date.Format("2006-01-02 15:04"),
			t.ID,
			fmt.Sprintf("%d", count),
			FormatMoney(t.Total),
		})
	}

	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}
