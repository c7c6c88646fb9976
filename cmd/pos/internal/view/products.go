package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/warung/internal/catalog"
)

type productsState int

const (
	productsStateBrowse productsState = iota
	productsStateEdit
)

type ProductsModel struct {
	CommonModel
	catalog *catalog.Catalog

	state    productsState
	table    table.Model
	products []catalog.Product
	form     *huh.Form

	// id of the product being edited; empty when creating
	editID string
	status string

	// Form bindings
	formName  string
	formPrice string
	formSKU   string
	formStock string
}

func NewProductsModel(cat *catalog.Catalog) ProductsModel {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "SKU", Width: 10},
		{Title: "Price", Width: 12},
		{Title: "Stock", Width: 8},
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

	m := ProductsModel{
		catalog: cat,
		table:   t,
	}
	m.refreshTable()

	return m
}

func (m ProductsModel) Init() tea.Cmd {
	return nil
}

func (m ProductsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if sizeMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.table.SetHeight(sizeMsg.Height - 10)
		return m, nil
	}

	switch m.state {
	case productsStateBrowse:
		return m.updateBrowse(msg)
	case productsStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m ProductsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "n":
			return m.enterEditMode(catalog.Product{})
		case "e", "enter":
			if p, ok := m.selected(); ok {
				return m.enterEditMode(p)
			}

			return m, nil
		case "x":
			if p, ok := m.selected(); ok {
				m.catalog.Delete(p.ID)
				m.status = fmt.Sprintf("Deleted %s", p.Name)
				m.refreshTable()
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ProductsModel) enterEditMode(p catalog.Product) (tea.Model, tea.Cmd) {
	m.editID = p.ID
	m.formName = p.Name
	m.formSKU = p.SKU
	m.formPrice = ""
	m.formStock = ""

	if p.ID != "" {
		m.formPrice = strconv.FormatInt(p.Price, 10)
	}

	if p.Stock != nil {
		m.formStock = strconv.Itoa(*p.Stock)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("price").
				Title("Price (Rp)").
				Placeholder("25000").
				Value(&m.formPrice).
				Validate(func(s string) error {
					n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
					if err != nil || n <= 0 {
						return fmt.Errorf("price must be a positive number")
					}
					return nil
				}),

			huh.NewInput().
				Key("sku").
				Title("SKU").
				Placeholder("NG-001").
				Value(&m.formSKU),

			huh.NewInput().
				Key("stock").
				Title("Stock").
				Description("Leave empty when stock is not tracked").
				Value(&m.formStock).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("stock must be a whole number")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = productsStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ProductsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = productsStateBrowse
			m.form = nil
			m.table.Focus()

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

	m.save()
	m.state = productsStateBrowse
	m.form = nil
	m.table.Focus()
	m.refreshTable()

	return m, nil
}

func (m *ProductsModel) save() {
	price, _ := strconv.ParseInt(strings.TrimSpace(m.formPrice), 10, 64)
	name := strings.TrimSpace(m.formName)
	sku := strings.TrimSpace(m.formSKU)

	var stock *int
	if raw := strings.TrimSpace(m.formStock); raw != "" {
		n, _ := strconv.Atoi(raw)
		stock = &n
	}

	if m.editID == "" {
		m.catalog.Add(catalog.Product{
			ID:    catalog.NewID(),
			Name:  name,
			Price: price,
			SKU:   sku,
			Stock: stock,
		})
		m.status = fmt.Sprintf("Added %s", name)

		return
	}

	m.catalog.Update(m.editID, catalog.Patch{
		Name:  &name,
		Price: &price,
		SKU:   &sku,
		Stock: stock,
	})
	m.status = fmt.Sprintf("Saved %s", name)
}

func (m ProductsModel) View() string {
	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	help := "n: new | Enter: edit | x: delete | Esc: back"

	content := lipgloss.JoinVertical(lipgloss.Left,
		tableView,
		lipgloss.NewStyle().Faint(true).Render(help),
	)

	if m.state == productsStateEdit && m.form != nil {
		title := "New Product"
		if m.editID != "" {
			title = "Edit Product"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m ProductsModel) selected() (catalog.Product, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.products) {
		return catalog.Product{}, false
	}

	return m.products[idx], true
}

func (m *ProductsModel) refreshTable() {
	m.products = m.catalog.List()

	rows := make([]table.Row, 0, len(m.products))
	for _, p := range m.products {
		stock := "-"
		if p.Stock != nil {
			stock = strconv.Itoa(*p.Stock)
		}

		rows = append(rows, table.Row{p.Name, p.SKU, FormatMoney(p.Price), stock})
	}

	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}
