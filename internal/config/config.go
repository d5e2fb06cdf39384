package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds the client configuration
type Config struct {
	APIURL                string  `toml:"api_url"`
	ProjectID             string  `toml:"project_id"`
	GitURL                string  `toml:"git_url"`
	MainBranch            string  `toml:"main_branch"`
	RequestTimeoutSeconds int     `toml:"request_timeout_seconds"` // 0 disables the timeout
	RequestsPerSecond     float64 `toml:"requests_per_second"`     // 0 disables throttling
	OpenBrowser           bool    `toml:"open_browser"`
	StopContainers        bool    `toml:"stop_containers"`
	ImageDir              string  `toml:"image_dir"`
	LogFile               string  `toml:"log_file"`
	Debug                 bool    `toml:"debug"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		APIURL:     "http://127.0.0.1:8000",
		MainBranch: "main",
		LogFile:    filepath.Join(DataDir(), "autodev.log"),
	}
}

// DataDir returns the autodev data directory.
// Uses AUTODEV_HOME env var if set, otherwise ~/.autodev
func DataDir() string {
	if dir := os.Getenv("AUTODEV_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".autodev")
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// Load reads the config file at path (the global path when empty), then a
// .env file from the working directory, then AUTODEV_* variables.
func Load(path string) (*Config, error) {
	if path == "" {
		path = GlobalConfigPath()
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		return nil, err
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom loads the configuration from a specific path. A missing file
// yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadDotEnv loads variables from an env file without overriding ones that
// are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

// ApplyEnv overrides fields from AUTODEV_* environment variables.
func (c *Config) ApplyEnv() error {
	str := map[string]*string{
		"AUTODEV_API_URL":     &c.APIURL,
		"AUTODEV_PROJECT_ID":  &c.ProjectID,
		"AUTODEV_GIT_URL":     &c.GitURL,
		"AUTODEV_MAIN_BRANCH": &c.MainBranch,
		"AUTODEV_IMAGE_DIR":   &c.ImageDir,
		"AUTODEV_LOG_FILE":    &c.LogFile,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	flags := map[string]*bool{
		"AUTODEV_DEBUG":           &c.Debug,
		"AUTODEV_OPEN_BROWSER":    &c.OpenBrowser,
		"AUTODEV_STOP_CONTAINERS": &c.StopContainers,
	}
	for key, dst := range flags {
		if v, ok := os.LookupEnv(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}

	if v, ok := os.LookupEnv("AUTODEV_REQUEST_TIMEOUT_SECONDS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AUTODEV_REQUEST_TIMEOUT_SECONDS: %w", err)
		}
		c.RequestTimeoutSeconds = n
	}
	if v, ok := os.LookupEnv("AUTODEV_REQUESTS_PER_SECOND"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("AUTODEV_REQUESTS_PER_SECOND: %w", err)
		}
		c.RequestsPerSecond = f
	}
	return nil
}

// RequestTimeout converts RequestTimeoutSeconds, zero meaning none.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Validate checks the fields every command depends on.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api_url not configured")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative")
	}
	return nil
}

// Save writes cfg to path, creating the parent directory.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = GlobalConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
