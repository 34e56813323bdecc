package main

import (
	"fmt"
	"os"

	"github.com/mahamantras2024-ux/Study-planner/internal/config"
	"github.com/mahamantras2024-ux/Study-planner/internal/logger"
	"github.com/mahamantras2024-ux/Study-planner/internal/server"
)

func main() {
	cfg := config.LoadSync()

	if err := logger.Init(logger.Config{Debug: true, DataDir: "./data"}); err != nil {
		fmt.Fprintf(os.Stderr, "error initializing logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.Get()

	store, err := server.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatal("open store", "err", err)
	}
	defer store.Close()

	engine := server.New(store, server.Config{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
	})

	log.Info("syncd listening", "port", cfg.Port)
	if err := engine.Run(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", "err", err)
	}
}
