// Package config provides XML-based configuration for the LCU simulator.
package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"LCUSimulator"`

	// Server configuration
	Server ServerConfig `xml:"Server"`

	// Animation clocks and readout polling
	Animation AnimationConfig `xml:"Animation"`

	// Initial state of the simulated unit
	Simulation SimulationConfig `xml:"Simulation"`

	// 2D scene layout
	Layout LayoutConfig `xml:"Layout"`

	// Trend history
	History HistoryConfig `xml:"History"`

	// Advanced options
	Advanced AdvancedConfig `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port           int    `xml:"Port"`
	BindAddress    string `xml:"BindAddress"`
	EnableCORS     bool   `xml:"EnableCORS"`
	AllowOrigins   string `xml:"AllowOrigins"`
	ReadTimeout    int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout   int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout    int    `xml:"IdleTimeoutSeconds"`
	RequestTimeout int    `xml:"RequestTimeoutSeconds"`
	BodyLimit      string `xml:"BodyLimit"`
}

// AnimationConfig contains clock settings
type AnimationConfig struct {
	InitialView      string `xml:"InitialView"`
	Interval2DMillis int    `xml:"Interval2DMillis"`
	FrameRate3D      int    `xml:"FrameRate3D"`
	ReadoutPollMs    int    `xml:"ReadoutPollMillis"`
	AutoStart        bool   `xml:"AutoStart"`
}

// SimulationConfig contains the initial unit state
type SimulationConfig struct {
	CoolingCapacityKW int `xml:"CoolingCapacityKW"`
}

// LayoutConfig points at an optional YAML layout; empty means built-in.
type LayoutConfig struct {
	File string `xml:"File"`
}

// HistoryConfig contains trend store settings
type HistoryConfig struct {
	Enabled          bool   `xml:"Enabled"`
	DatabasePath     string `xml:"DatabasePath"`
	SampleMillis     int    `xml:"SampleMillis"`
	RetentionMinutes int    `xml:"RetentionMinutes"`
	DuckDBThreads    int    `xml:"DuckDBThreads"`
	DuckDBMemory     string `xml:"DuckDBMemoryLimit"`
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	LogLevel                string `xml:"LogLevel"`
	EnableRequestLogging    bool   `xml:"EnableRequestLogging"`
	EnableMetrics           bool   `xml:"EnableMetrics"`
	WebSocketMaxMessageSize int    `xml:"WebSocketMaxMessageSizeKB"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:           8090,
			BindAddress:    "127.0.0.1",
			EnableCORS:     true,
			AllowOrigins:   "*",
			ReadTimeout:    30,
			WriteTimeout:   30,
			IdleTimeout:    120,
			RequestTimeout: 30,
			BodyLimit:      "1M",
		},
		Animation: AnimationConfig{
			InitialView:      "2d",
			Interval2DMillis: 33,
			FrameRate3D:      30,
			ReadoutPollMs:    100,
		},
		Simulation: SimulationConfig{
			CoolingCapacityKW: 30,
		},
		History: HistoryConfig{
			Enabled:          true,
			SampleMillis:     1000,
			RetentionMinutes: 60,
			DuckDBThreads:    2,
			DuckDBMemory:     "256MB",
		},
		Advanced: AdvancedConfig{
			LogLevel:                "info",
			EnableRequestLogging:    true,
			EnableMetrics:           true,
			WebSocketMaxMessageSize: 64,
		},
	}
}

// LoadConfig loads configuration from an XML file. A missing file yields
// the defaults; nothing is written.
func LoadConfig(configPath string) (*AppConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		config.applyEnvironmentOverrides()
		return config, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := xml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply environment variable overrides
	config.applyEnvironmentOverrides()

	// Resolve relative paths
	config.resolvePaths(filepath.Dir(configPath))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return config, nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- LCU Simulator Configuration -->\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// memoryLimitPattern matches DuckDB sizes such as "256MB" or "1.5 GiB".
var memoryLimitPattern = regexp.MustCompile(`^\d+(\.\d+)?\s*[KMGT]i?B$`)

// Validate rejects settings the clocks and server cannot run with.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port %d out of range", c.Server.Port))
	}
	switch strings.ToLower(c.Animation.InitialView) {
	case "2d", "3d":
	default:
		errs = append(errs, fmt.Errorf("unknown initial view %q", c.Animation.InitialView))
	}
	if c.Animation.Interval2DMillis <= 0 {
		errs = append(errs, fmt.Errorf("2D interval must be positive, got %d", c.Animation.Interval2DMillis))
	}
	if c.Animation.FrameRate3D <= 0 {
		errs = append(errs, fmt.Errorf("3D frame rate must be positive, got %d", c.Animation.FrameRate3D))
	}
	if c.Animation.ReadoutPollMs <= 0 {
		errs = append(errs, fmt.Errorf("readout poll interval must be positive, got %d", c.Animation.ReadoutPollMs))
	}
	if c.History.Enabled && c.History.SampleMillis <= 0 {
		errs = append(errs, fmt.Errorf("history sample interval must be positive, got %d", c.History.SampleMillis))
	}
	if c.History.DuckDBMemory != "" && !memoryLimitPattern.MatchString(c.History.DuckDBMemory) {
		errs = append(errs, fmt.Errorf("duckdb memory limit %q is not a size like 256MB", c.History.DuckDBMemory))
	}
	if c.Advanced.WebSocketMaxMessageSize < 0 {
		errs = append(errs, fmt.Errorf("websocket message size must not be negative, got %d", c.Advanced.WebSocketMaxMessageSize))
	}
	return errors.Join(errs...)
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	// PORT override
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if bind := os.Getenv("LCU_BIND"); bind != "" {
		c.Server.BindAddress = bind
	}

	if level := os.Getenv("LCU_LOG_LEVEL"); level != "" {
		c.Advanced.LogLevel = level
	}

	if file := os.Getenv("LCU_LAYOUT_FILE"); file != "" {
		c.Layout.File = file
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if c.Layout.File != "" && !filepath.IsAbs(c.Layout.File) {
		c.Layout.File = filepath.Join(configDir, c.Layout.File)
	}
	if c.History.DatabasePath != "" && !filepath.IsAbs(c.History.DatabasePath) {
		c.History.DatabasePath = filepath.Join(configDir, c.History.DatabasePath)
	}
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// Interval2D returns the 2D clock period.
func (c *AppConfig) Interval2D() time.Duration {
	return time.Duration(c.Animation.Interval2DMillis) * time.Millisecond
}

// ReadoutPollInterval returns the readout poller period.
func (c *AppConfig) ReadoutPollInterval() time.Duration {
	return time.Duration(c.Animation.ReadoutPollMs) * time.Millisecond
}

// HistorySampleInterval returns how often readings are recorded.
func (c *AppConfig) HistorySampleInterval() time.Duration {
	return time.Duration(c.History.SampleMillis) * time.Millisecond
}

// HistoryRetention returns how long trend points are kept.
func (c *AppConfig) HistoryRetention() time.Duration {
	return time.Duration(c.History.RetentionMinutes) * time.Minute
}
