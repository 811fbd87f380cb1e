package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. CLOUDMOVIES_TMDB_API_KEY
	EnvPrefix = "CLOUDMOVIES"
	// DefaultUpdateRepository is where release binaries are published
	DefaultUpdateRepository = "s0up4200/cloudmovies"
)

// Load loads the configuration from file and environment. A missing
// config file is not an error when no explicit path was given.
func Load(configPath string) (*Config, error) {
	v, err := read(configPath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := resolvePaths(&cfg); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// UpdateRepository returns update.repository without validating the rest
// of the configuration, so self-update works before TMDB is set up. Any
// read error falls back to DefaultUpdateRepository.
func UpdateRepository(configPath string) string {
	v, err := read(configPath)
	if err != nil {
		return DefaultUpdateRepository
	}
	repo := strings.TrimSpace(v.GetString("update.repository"))
	if strings.Count(repo, "/") != 1 {
		return DefaultUpdateRepository
	}
	return repo
}

func read(configPath string) (*viper.Viper, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".cloudmovies"))
		}
		v.AddConfigPath("/etc/cloudmovies/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}
	return v, nil
}

// setDefaults sets default configuration values. Every key needs a
// default for its environment override to be picked up.
func setDefaults(v *viper.Viper) {
	v.SetDefault("tmdb.url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.language", "en-US")
	v.SetDefault("tmdb.region", "")
	v.SetDefault("tmdb.timeout", "15s")

	v.SetDefault("storage.data_dir", "~/.cloudmovies")
	v.SetDefault("storage.database", "")

	v.SetDefault("session.skip_onboarding", false)

	v.SetDefault("ui.splash_delay", "700ms")
	v.SetDefault("ui.transition", "300ms")
	v.SetDefault("ui.recent_searches", 10)

	v.SetDefault("radarr.enabled", false)
	v.SetDefault("radarr.url", "http://localhost:7878")
	v.SetDefault("radarr.api_key", "")
	v.SetDefault("radarr.quality_profile", "")
	v.SetDefault("radarr.root_folder", "")
	v.SetDefault("radarr.monitored", true)
	v.SetDefault("radarr.search", true)
	v.SetDefault("radarr.concurrency", 5)

	v.SetDefault("update.repository", DefaultUpdateRepository)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
	v.SetDefault("logging.file", "")
}

func resolvePaths(cfg *Config) error {
	dir, err := expandHome(cfg.Storage.DataDir)
	if err != nil {
		return err
	}
	cfg.Storage.DataDir = dir

	if cfg.Storage.Database == "" {
		cfg.Storage.Database = filepath.Join(dir, "cloudmovies.db")
	} else if cfg.Storage.Database, err = expandHome(cfg.Storage.Database); err != nil {
		return err
	}

	if cfg.Logging.File == "" {
		cfg.Logging.File = filepath.Join(dir, "cloudmovies.log")
	} else if cfg.Logging.File, err = expandHome(cfg.Logging.File); err != nil {
		return err
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.TMDB.URL == "" {
		return fmt.Errorf("tmdb.url is required")
	}
	if cfg.TMDB.APIKey == "" || cfg.TMDB.APIKey == "your-api-key-here" {
		return fmt.Errorf("tmdb.api_key must be set to a valid API key")
	}
	if cfg.TMDB.Timeout <= 0 {
		return fmt.Errorf("tmdb.timeout must be positive")
	}

	if cfg.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir is required")
	}

	if cfg.UI.SplashDelay < 0 || cfg.UI.Transition < 0 {
		return fmt.Errorf("ui.splash_delay and ui.transition cannot be negative")
	}

	for name, expression := range cfg.Filter.Presets {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filter preset %q is empty", name)
		}
	}

	if cfg.Radarr.Enabled {
		if cfg.Radarr.URL == "" {
			return fmt.Errorf("radarr.url is required when radarr is enabled")
		}
		if cfg.Radarr.APIKey == "" || cfg.Radarr.APIKey == "your-api-key-here" {
			return fmt.Errorf("radarr.api_key must be set when radarr is enabled")
		}
	}

	if strings.Count(cfg.Update.Repository, "/") != 1 {
		return fmt.Errorf("invalid update.repository: %s (want owner/name)", cfg.Update.Repository)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
