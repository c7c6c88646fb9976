package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/warung/cmd/pos/internal/view"
	"github.com/MrJamesThe3rd/warung/internal/backup"
	"github.com/MrJamesThe3rd/warung/internal/cart"
	"github.com/MrJamesThe3rd/warung/internal/catalog"
	"github.com/MrJamesThe3rd/warung/internal/checkout"
	"github.com/MrJamesThe3rd/warung/internal/config"
	"github.com/MrJamesThe3rd/warung/internal/ledger"
	"github.com/MrJamesThe3rd/warung/internal/receipt"
	"github.com/MrJamesThe3rd/warung/internal/remote"
	"github.com/MrJamesThe3rd/warung/internal/session"
	"github.com/MrJamesThe3rd/warung/internal/storage"
	"github.com/MrJamesThe3rd/warung/internal/sync"
	"github.com/MrJamesThe3rd/warung/internal/task"
)

type model struct {
	currentView View

	registerView view.RegisterModel
	productsView view.ProductsModel
	historyView  view.HistoryModel
	backupView   view.BackupModel
	accountView  view.AccountModel

	newRegister func() view.RegisterModel
	newProducts func() view.ProductsModel
	newHistory  func() view.HistoryModel
	newBackup   func() view.BackupModel
	newAccount  func() view.AccountModel

	dispatch *task.Dispatcher
}

type View int

const (
	ViewMenu     View = 0
	ViewRegister View = 1
	ViewProducts View = 2
	ViewHistory  View = 3
	ViewBackup   View = 4
	ViewAccount  View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.App.DataDir, 0o755); err != nil {
		slog.Error("failed to create data dir", "error", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.StatePath())
	if err != nil {
		slog.Error("failed to open local store", "error", err)
		os.Exit(1)
	}

	cat := catalog.Load(store)
	if cfg.App.SeedFile != "" {
		if _, err := cat.SeedFromFile(cfg.App.SeedFile); err != nil {
			slog.Error("failed to seed catalog", "error", err)
			os.Exit(1)
		}
	} else {
		cat.SeedDefaults()
	}

	led := ledger.Load(store)
	crt := cart.Load(store, cat)
	renderer := receipt.NewRenderer(cfg.App.StoreName)
	backupSvc := backup.NewService(cat, led)
	dispatch := task.NewDispatcher(nil)

	// Local-only unless a remote store is configured.
	var (
		remoteClient *remote.Client
		auth         session.Authenticator
	)

	if cfg.RemoteConfigured() {
		remoteClient, err = remote.Open(cfg.Remote.DSN)
		if err != nil {
			slog.Warn("remote store unreachable, continuing local-only", "error", err)
		}

		if cfg.Remote.AuthURL != "" {
			auth = remote.NewAuthClient(cfg.Remote.AuthURL, cfg.Remote.AnonKey)
		}
	}

	sess := session.Load(store, auth, nil)

	var syncer *sync.Engine
	var pusher checkout.Pusher

	if remoteClient != nil {
		syncer = sync.New(remoteClient, sess, cat, led, nil)
		pusher = syncer

		// First sync after sign-in runs in the background; the UI never
		// waits on the remote.
		sess.OnSignIn(func(context.Context) {
			dispatch.Go("post sign-in sync", func(ctx context.Context) error {
				syncer.Round(ctx)
				return nil
			})
		})
	}

	engine := checkout.New(crt, led, pusher, dispatch)

	return model{
		currentView: ViewMenu,

		registerView: view.NewRegisterModel(cat, crt, engine, renderer),
		productsView: view.NewProductsModel(cat),
		historyView:  view.NewHistoryModel(led, renderer),
		backupView:   view.NewBackupModel(backupSvc),
		accountView:  view.NewAccountModel(sess, syncer),

		newRegister: func() view.RegisterModel { return view.NewRegisterModel(cat, crt, engine, renderer) },
		newProducts: func() view.ProductsModel { return view.NewProductsModel(cat) },
		newHistory:  func() view.HistoryModel { return view.NewHistoryModel(led, renderer) },
		newBackup:   func() view.BackupModel { return view.NewBackupModel(backupSvc) },
		newAccount:  func() view.AccountModel { return view.NewAccountModel(sess, syncer) },

		dispatch: dispatch,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewRegister
				m.registerView = m.newRegister()

				return m, m.registerView.Init()
			case "2":
				m.currentView = ViewProducts
				m.productsView = m.newProducts()

				return m, m.productsView.Init()
			case "3":
				m.currentView = ViewHistory
				m.historyView = m.newHistory()

				return m, m.historyView.Init()
			case "4":
				m.currentView = ViewBackup
				m.backupView = m.newBackup()

				return m, m.backupView.Init()
			case "5":
				m.currentView = ViewAccount
				m.accountView = m.newAccount()

				return m, m.accountView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewRegister:
		var newModel tea.Model
		newModel, cmd = m.registerView.Update(msg)
		m.registerView = newModel.(view.RegisterModel)
	case ViewProducts:
		var newModel tea.Model
		newModel, cmd = m.productsView.Update(msg)
		m.productsView = newModel.(view.ProductsModel)
	case ViewHistory:
		var newModel tea.Model
		newModel, cmd = m.historyView.Update(msg)
		m.historyView = newModel.(view.HistoryModel)
	case ViewBackup:
		var newModel tea.Model
		newModel, cmd = m.backupView.Update(msg)
		m.backupView = newModel.(view.BackupModel)
	case ViewAccount:
		var newModel tea.Model
		newModel, cmd = m.accountView.Update(msg)
		m.accountView = newModel.(view.AccountModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Warung POS\n\n" +
				"1. Register (New Sale)\n" +
				"2. Manage Products\n" +
				"3. Sales History\n" +
				"4. Backup\n" +
				"5. Account & Sync\n\n" +
				"q. Quit",
		)
	case ViewRegister:
		return m.registerView.View()
	case ViewProducts:
		return m.productsView.View()
	case ViewHistory:
		return m.historyView.View()
	case ViewBackup:
		return m.backupView.View()
	case ViewAccount:
		return m.accountView.View()
	}

	return "Unknown View"
}

func main() {
	m := initialModel()

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}

	m.dispatch.Wait()
}
