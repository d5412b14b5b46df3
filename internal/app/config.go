package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shridharbhandiwad/RSCU-Animation/internal/config"
)

// ConfigFileName is looked up next to the executable when no path is given.
const ConfigFileName = "LCUSimulator.config"

// ConfigPath returns flagValue, or the default file beside the executable.
func ConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	exePath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	return filepath.Join(filepath.Dir(exePath), ConfigFileName), nil
}

// LoadConfig reads the configuration at path. With initConfig the defaults
// are written to path first, overwriting nothing that already exists.
func LoadConfig(path string, initConfig bool) (*config.AppConfig, error) {
	if initConfig {
		if _, err := os.Stat(path); err == nil {
			return nil, fmt.Errorf("config %s already exists", path)
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return nil, err
		}
	}
	return config.LoadConfig(path)
}
