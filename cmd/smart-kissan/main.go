package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/milantony05/smart-kissan/internal/config"
	"github.com/milantony05/smart-kissan/internal/database"
	"github.com/milantony05/smart-kissan/internal/database/repository"
	"github.com/milantony05/smart-kissan/internal/geo"
	"github.com/milantony05/smart-kissan/internal/i18n"
	"github.com/milantony05/smart-kissan/internal/locate"
	"github.com/milantony05/smart-kissan/internal/logging"
	"github.com/milantony05/smart-kissan/internal/mapview"
	"github.com/milantony05/smart-kissan/internal/prefs"
	"github.com/milantony05/smart-kissan/internal/tui"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Path, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer logger.Sync()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	fieldsRepo := repository.NewFieldRepo(db)

	prefsDir, err := prefs.DefaultDir()
	if err != nil {
		log.Fatalf("prefs dir: %v", err)
	}
	store, err := prefs.NewStore(prefsDir)
	if err != nil {
		log.Fatalf("prefs store: %v", err)
	}
	p, err := store.Load()
	if err != nil {
		logger.Warn("load prefs, using defaults", zap.Error(err))
	}

	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		log.Fatalf("i18n: %v", err)
	}
	tr := bundle.Translator(cfg.UI.Locale)

	provider := locate.New(cfg.Locate.Backend, geo.Coordinate{
		Lat: cfg.Locate.StaticLat,
		Lon: cfg.Locate.StaticLon,
	})

	deps := mapview.Deps{
		Provider:   provider,
		Prefs:      store,
		Translator: tr,
		Logger:     logger,
	}

	app := tui.New(ctx, cfg, fieldsRepo, store, tr, logger, deps, p)
	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// external edits to prefs.json re-seed the widget while running
	err = store.Watch(ctx, func(p prefs.Prefs) {
		program.Send(tui.PrefsChangedMsg{Prefs: p})
	})
	if err != nil {
		logger.Warn("prefs watch disabled", zap.Error(err))
	}

	if _, err := program.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
