package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// APIConfig holds the JSON API server settings
type APIConfig struct {
	ListenAddress  string   `toml:"ListenAddress"`
	AllowedOrigins []string `toml:"AllowedOrigins"`
}

// UpstreamConfig holds the combat-log API endpoints and transport tuning
type UpstreamConfig struct {
	GraphQLEndpoint         string `toml:"GraphQLEndpoint"`
	TokenEndpoint           string `toml:"TokenEndpoint"`
	RequestTimeoutInSeconds uint32 `toml:"RequestTimeoutInSeconds"`
	MaxAttempts             uint32 `toml:"MaxAttempts"`
	MinCallIntervalInMillis uint32 `toml:"MinCallIntervalInMillis"`
}

// PaginationConfig bounds the report-history census walk
type PaginationConfig struct {
	MaxPagesPerCursor    uint32 `toml:"MaxPagesPerCursor"`
	FloorStartTimeMillis int64  `toml:"FloorStartTimeMillis"`
	MaxCursorAdvances    uint32 `toml:"MaxCursorAdvances"`
}

// SummaryConfig bounds the per-player summary fan-out
type SummaryConfig struct {
	MaxConcurrentReports uint32 `toml:"MaxConcurrentReports"`
	ReportsLimit         uint32 `toml:"ReportsLimit"`
}

// Config maps to the config.toml file for the raid analytics service
type Config struct {
	API        APIConfig        `toml:"API"`
	Upstream   UpstreamConfig   `toml:"Upstream"`
	Pagination PaginationConfig `toml:"Pagination"`
	Summary    SummaryConfig    `toml:"Summary"`
}

// LoadConfig parses a TOML file into the Config struct
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	var cfg Config
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &cfg, nil
}
