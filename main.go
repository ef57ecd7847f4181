package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Niedzwiedzw/tlumok/bridge"
	"github.com/Niedzwiedzw/tlumok/config"
	"github.com/Niedzwiedzw/tlumok/page"
	"github.com/Niedzwiedzw/tlumok/platform"
	"github.com/Niedzwiedzw/tlumok/storage"
	"github.com/Niedzwiedzw/tlumok/systray"
	"github.com/Niedzwiedzw/tlumok/translate"
	"github.com/Niedzwiedzw/tlumok/web"
)

func main() {
	// Setup logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	configPath, _ := config.Path()
	slog.Info("Configuration loaded", "path", configPath)

	configDir, err := config.Dir()
	if err != nil {
		slog.Error("Failed to locate config directory", "error", err)
		os.Exit(1)
	}

	// Open storage
	db, err := storage.Open(configDir)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// The page is reached through whichever browser tab runs the companion
	// script and connects to the bridge.
	br := bridge.New(time.Duration(cfg.Page.CommandTimeoutSec) * time.Second)
	driver := page.NewDriver(br, page.Options{
		Interval: time.Duration(cfg.Watch.PollIntervalMs) * time.Millisecond,
		Timeout:  time.Duration(cfg.Page.StabilizationTimeoutSec) * time.Second,
	})

	var translator translate.Translator = translate.NewPageTranslator(driver, cfg.Page.MaxChunkSize)
	if cfg.Dictionary.Enabled {
		translator = translate.WithDictionary(translator, db.Dictionary(cfg.Languages.Source, cfg.Languages.Target))
	}

	// Create agent
	agent := NewAgent(cfg, platform.NewClipboard(), translator, db)
	if cfg.Watch.AutoStart {
		agent.SetWatching(true)
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Web server (dashboard + bridge endpoint)
	server := web.NewServer(db, cfg, br, agent.Status, cfg.Web.Port)
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("Web server error", "error", err)
			cancel()
		}
	}()

	// Run agent
	agentDone := make(chan error, 1)
	go func() {
		agentDone <- agent.Run(ctx)
	}()

	// Tray trigger surface; Run blocks until quit
	tray := systray.NewManager(cfg.Web.Port, nil)
	go func() {
		for {
			select {
			case <-ctx.Done():
				tray.Stop()
				return
			case <-tray.WaitForQuit():
				cancel()
				return
			case <-tray.Toggles():
				watching := !agent.Watching()
				agent.SetWatching(watching)
				tray.SetWatching(watching)
			}
		}
	}()
	tray.SetWatching(cfg.Watch.AutoStart)
	tray.Run()

	cancel()
	if err := <-agentDone; err != nil {
		slog.Error("Agent error", "error", err)
		os.Exit(1)
	}

	slog.Info("tlumok stopped")
}
