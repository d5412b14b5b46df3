package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/app"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/logging"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/tui"
	"go.uber.org/zap"
)

func main() {
	configFlag := flag.String("config", "", "path to the XML configuration (default: next to the executable)")
	logFile := flag.String("log", "lcu-tui.log", "log file; the terminal is owned by the dashboard")
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

	logger, err := logging.NewWithOutput(cfg.Advanced.LogLevel, *logFile)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.New(cfg, logger, app.WithoutMetrics())
	if err != nil {
		fmt.Printf("Failed to build simulator: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := a.Run(ctx); err != nil {
			logger.Error("simulator stopped", zap.Error(err))
		}
	}()

	err = tui.Run(a, a.Layout.Title)
	cancel()
	if cerr := a.Close(); cerr != nil {
		logger.Warn("close simulator", zap.Error(cerr))
	}
	if err != nil {
		fmt.Printf("Dashboard error: %v\n", err)
		os.Exit(1)
	}
}
