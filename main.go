package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/paneldeck/paneldeck/internal/config"
	"github.com/paneldeck/paneldeck/internal/host"
	"github.com/paneldeck/paneldeck/internal/logging"
	"github.com/paneldeck/paneldeck/internal/secrets"
)

func main() {
	configFlag := flag.String("config", "", "path to config.toml (overrides PANELDECK_CONFIG)")
	sectionFlag := flag.String("section", "", "start section slug")
	devFlag := flag.Bool("dev", false, "enable dev mode for this run")
	flag.Parse()

	if *configFlag != "" {
		os.Setenv("PANELDECK_CONFIG", *configFlag)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "paneldeck: %v\n", err)
		os.Exit(1)
	}
	if *sectionFlag != "" {
		cfg.UI.Section = *sectionFlag
	}
	if *devFlag {
		cfg.DevMode = true
	}

	logPath := cfg.Log.Path
	if logPath == "" {
		logPath = logging.DefaultPath("paneldeck")
	}
	logger, err := logging.New(logPath, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "paneldeck: open log: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	sess, err := secrets.FetchSession()
	if err != nil && !errors.Is(err, secrets.ErrNoSession) {
		logger.Warn("stored session unreadable", zap.Error(err))
		sess = secrets.Session{}
	}

	timeout := time.Duration(cfg.Host.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	// The UI works without the host; anything that needs it reports offline.
	var client hostClient
	dialCtx, cancel := context.WithTimeout(context.Background(), timeout)
	c, err := host.Dial(dialCtx, cfg.Host.URL, timeout, logger)
	cancel()
	if err != nil {
		logger.Warn("host unreachable", zap.String("url", cfg.Host.URL), zap.Error(err))
	} else {
		client = c
		defer func() { _ = c.Close() }()
	}

	configPath, err := config.Path()
	if err != nil {
		configPath = "(unavailable)"
	}

	m := newModel(cfg, logger, client, sess, configPath, logPath)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		logger.Error("ui exited with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "paneldeck: %v\n", err)
		os.Exit(1)
	}
}
