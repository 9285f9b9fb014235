package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/usersadmin/console/internal/userstore"
)

func main() {
	// A missing .env is normal; variables may come from the environment.
	_ = godotenv.Load()

	configDir := resolveConfigDir()
	cfg, cfgPath := loadUIConfig(configDir)
	cfg.applyDefaults(configDir)

	theme := flag.String("theme", cfg.Theme, "Detail pane theme: auto, light, or dark")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database holding the user records")
	seedPath := flag.String("seed", "", "YAML file of users loaded when the database is empty")
	debug := flag.Bool("debug", false, "Log at debug level")
	flag.Parse()

	cfg.Theme = string(markdownThemeFromString(*theme))
	cfg.DBPath = *dbPath

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger, logCloser := newFileLogger(cfg.LogPath, level)
	defer logCloser.Close()

	if err := run(cfg, cfgPath, configDir, *seedPath, logger); err != nil {
		logger.Error("console exited", "err", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cfg *uiConfig, cfgPath, configDir, seedPath string, logger *slog.Logger) error {
	store, err := userstore.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open user store: %w", err)
	}
	defer store.Close()

	seed := defaultSeedUsers()
	if seedPath != "" {
		if seed, err = loadSeedFile(seedPath); err != nil {
			return err
		}
	}
	n, err := store.Seed(context.Background(), seed)
	if err != nil {
		return fmt.Errorf("seed user store: %w", err)
	}
	if n > 0 {
		logger.Info("seeded user store", "path", cfg.DBPath, "users", n)
	}

	actions := newActionLog(filepath.Join(configDir, "actions.jsonl"), operatorName(os.Getenv))
	defer actions.Close()
	if err := actions.Session("session_started"); err != nil {
		logger.Warn("action log unavailable", "err", err)
	}

	m := newModel(modelOptions{
		cfg:       cfg,
		cfgPath:   cfgPath,
		store:     store,
		logger:    logger,
		actions:   actions,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	if err := actions.Session("session_ended"); err != nil {
		logger.Warn("record session end", "err", err)
	}
	return nil
}
