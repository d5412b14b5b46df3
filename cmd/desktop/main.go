package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/app"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/config"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/logging"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/render2d"
	"go.uber.org/zap"
)

func main() {
	configFlag := flag.String("config", "", "path to the XML configuration (default: next to the executable)")
	flag.Parse()

	configPath, err := app.ConfigPath(*configFlag)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	cfg, err := app.LoadConfig(configPath, false)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Advanced.LogLevel)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("desktop exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, logger *zap.Logger) error {
	if cfg.Animation.InitialView != "2d" {
		logger.Info("desktop window starts in the 2D view", zap.String("configured", cfg.Animation.InitialView))
		cfg.Animation.InitialView = "2d"
	}

	a, err := app.New(cfg, logger, app.WithoutHistory(), app.WithoutMetrics())
	if err != nil {
		return fmt.Errorf("build simulator: %w", err)
	}
	defer func() { _ = a.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := a.Run(ctx); err != nil {
			logger.Error("simulator stopped", zap.Error(err))
		}
	}()

	w, h := int(a.Layout.Width), int(a.Layout.Height)
	game := render2d.NewGame(a, a.Scene2D, w, h, logger)

	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(a.Layout.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}
