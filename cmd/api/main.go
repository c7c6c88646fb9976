package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/warung/internal/backup"
	"github.com/MrJamesThe3rd/warung/internal/cart"
	"github.com/MrJamesThe3rd/warung/internal/catalog"
	"github.com/MrJamesThe3rd/warung/internal/checkout"
	"github.com/MrJamesThe3rd/warung/internal/config"
	warungHttp "github.com/MrJamesThe3rd/warung/internal/http"
	backupHandler "github.com/MrJamesThe3rd/warung/internal/http/backup"
	catalogHandler "github.com/MrJamesThe3rd/warung/internal/http/catalog"
	historyHandler "github.com/MrJamesThe3rd/warung/internal/http/history"
	registerHandler "github.com/MrJamesThe3rd/warung/internal/http/register"
	"github.com/MrJamesThe3rd/warung/internal/ledger"
	"github.com/MrJamesThe3rd/warung/internal/receipt"
	"github.com/MrJamesThe3rd/warung/internal/storage"
)

func main() {
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
	defer store.Close()

	cat := catalog.Load(store)
	if cfg.App.SeedFile != "" {
		if _, err := cat.SeedFromFile(cfg.App.SeedFile); err != nil {
			slog.Error("failed to seed catalog", "error", err)
			os.Exit(1)
		}
	} else {
		cat.SeedDefaults()
	}

	var (
		led       = ledger.Load(store)
		crt       = cart.Load(store, cat)
		engine    = checkout.New(crt, led, nil, nil)
		renderer  = receipt.NewRenderer(cfg.App.StoreName)
		backupSvc = backup.NewService(cat, led)
	)

	var (
		catalogH  = catalogHandler.NewHandler(cat)
		registerH = registerHandler.NewHandler(crt, engine, renderer)
		historyH  = historyHandler.NewHandler(led)
		backupH   = backupHandler.NewHandler(backupSvc)
	)

	router := warungHttp.New(catalogH, registerH, historyH, backupH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
