package main

import (
	"flag"

	"github.com/art2002-alugu/infimobile-form/internal/config"
	"github.com/art2002-alugu/infimobile-form/pkg/logger"

	"go.uber.org/zap"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to a JSON config file (absolute)")
	flag.Parse()

	// Load configuration
	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			panic(err)
		}
		cfg = loaded
	}
	config.ApplyEnv(cfg)

	// Initialize logger
	if err := logger.Init(cfg.Logging.Path, cfg.Logging.Level); err != nil {
		panic(err)
	}
	defer logger.Info("Server shutting down")

	// Setup and start server
	srv, cleanup, err := SetupServer(cfg)
	if err != nil {
		logger.Fatal("Failed to setup server", zap.Error(err))
	}
	defer cleanup()

	if err := StartServer(srv); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
