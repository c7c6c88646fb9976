package view

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/warung/internal/cart"
	"github.com/MrJamesThe3rd/warung/internal/catalog"
	"github.com/MrJamesThe3rd/warung/internal/checkout"
	"github.com/MrJamesThe3rd/warung/internal/receipt"
)

type registerState int

const (
	registerStateBrowse registerState = iota
	registerStateSearch
	registerStateReceipt
)

// RegisterModel is the sale screen: pick products on the left, watch the cart
// grow on the right, press p to pay.
type RegisterModel struct {
	CommonModel
	catalog  *catalog.Catalog
	cart     *cart.Cart
	engine   *checkout.Engine
	renderer *receipt.Renderer

	state    registerState
	table    table.Model
	search   textinput.Model
	products []catalog.Product

	receiptText string
	status      string
}

func NewRegisterModel(cat *catalog.Catalog, crt *cart.Cart, engine *checkout.Engine, renderer *receipt.Renderer) RegisterModel {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "SKU", Width: 10},
		{Title: "Price", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
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

	ti := textinput.New()
	ti.Placeholder = "name or SKU"
	ti.Width = 24

	m := RegisterModel{
		catalog:  cat,
		cart:     crt,
		engine:   engine,
		renderer: renderer,
		table:    t,
		search:   ti,
	}
	m.refreshProducts()

	return m
}

func (m RegisterModel) Init() tea.Cmd {
	return nil
}

func (m RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if sizeMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.table.SetHeight(sizeMsg.Height - 12)
		return m, nil
	}

	switch m.state {
	case registerStateBrowse:
		return m.updateBrowse(msg)
	case registerStateSearch:
		return m.updateSearch(msg)
	case registerStateReceipt:
		return m.updateReceipt(msg)
	}

	return m, nil
}

func (m RegisterModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "/":
			m.state = registerStateSearch
			m.table.Blur()
			m.search.Focus()

			return m, textinput.Blink
		case "enter", "a":
			if p, ok := m.selectedProduct(); ok {
				m.cart.AddItem(p.ID, 1)
				m.status = fmt.Sprintf("Added %s", p.Name)
			}

			return m, nil
		case "+":
			if p, ok := m.selectedProduct(); ok {
				m.cart.Increment(p.ID)
			}

			return m, nil
		case "-":
			if p, ok := m.selectedProduct(); ok {
				m.cart.Decrement(p.ID)
			}

			return m, nil
		case "C":
			m.cart.Clear()
			m.status = "Cart cleared"

			return m, nil
		case "p":
			return m.pay()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m RegisterModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.search.SetValue("")
			m.refreshProducts()
			m.state = registerStateBrowse
			m.search.Blur()
			m.table.Focus()

			return m, nil
		case "enter":
			m.state = registerStateBrowse
			m.search.Blur()
			m.table.Focus()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refreshProducts()

	return m, cmd
}

func (m RegisterModel) updateReceipt(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "enter":
			m.state = registerStateBrowse
			m.receiptText = ""
			m.table.Focus()

			return m, nil
		}
	}

	return m, nil
}

func (m RegisterModel) pay() (tea.Model, tea.Cmd) {
	txn, err := m.engine.Checkout()
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			m.status = "Cart is empty"
		} else {
			m.status = fmt.Sprintf("Error: %v", err)
		}

		return m, nil
	}

	m.receiptText = m.renderer.Render(txn)
	m.state = registerStateReceipt
	m.status = ""
	m.table.Blur()

	return m, nil
}

func (m RegisterModel) View() string {
	if m.state == registerStateReceipt {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Render(m.receiptText)

		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left, panel, "", "(Enter to start the next sale)"),
		)
	}

	searchLine := "Search: " + m.search.View()

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	left := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(searchLine),
		tableView,
	)

	content := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.cartPanel())

	help := "Enter: add | +/-: qty | C: clear | p: pay | /: search | Esc: back"
	content = lipgloss.JoinVertical(lipgloss.Left, content,
		lipgloss.NewStyle().Faint(true).Render(help))

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m RegisterModel) cartPanel() string {
	lines := m.cart.Lines()
	subtotal, count := m.cart.Totals()

	body := "Cart is empty"
	if len(lines) > 0 {
		body = ""

		for _, line := range lines {
			body += fmt.Sprintf("%-20s x%-3d %10s\n",
				truncate(line.Name, 20), line.Qty, FormatMoney(line.Price*int64(line.Qty)))
		}

		body += fmt.Sprintf("\n%-25s %10s", fmt.Sprintf("Total (%d items)", count), FormatMoney(subtotal))
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(44).
		Render("Cart\n\n" + body)
}

func (m RegisterModel) selectedProduct() (catalog.Product, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.products) {
		return catalog.Product{}, false
	}

	return m.products[idx], true
}

func (m *RegisterModel) refreshProducts() {
	m.products = m.catalog.List()
	if q := m.search.Value(); q != "" {
		m.products = m.catalog.Search(q)
	}

	rows := make([]table.Row, 0, len(m.products))
	for _, p := range m.products {
		rows = append(rows, table.Row{p.Name, p.SKU, FormatMoney(p.Price)})
	}

	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n-1]) + "…"
}
