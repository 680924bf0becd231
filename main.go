package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"SmartBoard/internal/config"
	"SmartBoard/internal/session"
	"SmartBoard/internal/store"
	"SmartBoard/internal/ui"
)

func main() {
	defaultPath, err := config.DefaultPath()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	configPath := flag.String("config", defaultPath, "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	st, err := store.OpenFile(cfg.DataDir, logger)
	if err != nil {
		logger.Error("could not open data directory", "dir", cfg.DataDir, "err", err)
		os.Exit(1)
	}

	var (
		win   *ui.Window
		early []string
	)
	sess := session.Open(st, session.Options{
		Logger: logger,
		OnWarning: func(msg string, err error) {
			if win == nil {
				early = append(early, msg)
				return
			}
			win.Warn(msg)
		},
	})

	win = ui.NewWindow(cfg, sess, logger)
	for _, msg := range early {
		win.Warn(msg)
	}
	logger.Info("starting", "data_dir", cfg.DataDir, "config", *configPath)
	win.ShowAndRun()
}
