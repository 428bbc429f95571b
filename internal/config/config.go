package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/art2002-alugu/infimobile-form/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds all configuration settings
type Config struct {
	Server struct {
		Port       int    `json:"port"`
		Host       string `json:"host"`
		ForceHTTPS bool   `json:"force_https"`
	} `json:"server"`
	Sheet struct {
		IntakeURL      string        `json:"intake_url"`
		ContactURL     string        `json:"contact_url"`
		RequestTimeout time.Duration `json:"request_timeout"`
	} `json:"sheet"`
	Database struct {
		DSN string `json:"dsn"`
	} `json:"database"`
	Draft struct {
		Path string `json:"path"`
	} `json:"draft"`
	Logging struct {
		Level string `json:"level"`
		Path  string `json:"path"`
	} `json:"logging"`
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	// Validate path to prevent directory traversal
	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		return nil, fmt.Errorf("config path must be absolute")
	}

	// Check if file exists and is a regular file
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("config file error: %w", err)
	}
	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("config path is not a regular file")
	}

	file, err := os.Open(cleanPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logger.Warn("Failed to close config file", zap.Error(closeErr))
		}
	}()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	config := &Config{}
	config.Server.Port = 8080
	config.Server.Host = "localhost"
	config.Sheet.IntakeURL = "https://script.google.com/macros/s/AKfycbzVK9p44w2qIB4zxTK-pEjxNEfzpL1GrCpVsVrYGLELQ9BbSdLGvKEm0GvdQesqW2QZ/exec"
	config.Sheet.ContactURL = "https://script.google.com/macros/s/AKfycbzDtLzCZmS-ORtG9Ge1DmjdaSozdAoOr-fLc2PVKDTPnO8V_2ojvHMjlzgcujllKXWl/exec"
	config.Sheet.RequestTimeout = 15 * time.Second
	config.Database.DSN = "file:submissions.db?cache=shared&mode=rwc"
	config.Draft.Path = "data/draft.json"
	config.Logging.Level = "info"
	config.Logging.Path = "server.log"
	return config
}

// ApplyEnv overrides the sheet endpoint URLs from the environment. A .env
// file in the working directory is honored when present.
func ApplyEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("SHEET_URL"); v != "" {
		config.Sheet.IntakeURL = v
	}
	if v := os.Getenv("CONTACT_SHEET_URL"); v != "" {
		config.Sheet.ContactURL = v
	}
}
