package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	Storage StorageConfig `mapstructure:"storage"`
	Session SessionConfig `mapstructure:"session"`
	UI      UIConfig      `mapstructure:"ui"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Radarr  RadarrConfig  `mapstructure:"radarr"`
	Update  UpdateConfig  `mapstructure:"update"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TMDBConfig holds TMDB API connection details
type TMDBConfig struct {
	URL      string        `mapstructure:"url"`
	APIKey   string        `mapstructure:"api_key"`
	Language string        `mapstructure:"language"`
	Region   string        `mapstructure:"region"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// StorageConfig locates local state
type StorageConfig struct {
	DataDir  string `mapstructure:"data_dir"`
	Database string `mapstructure:"database"` // defaults to <data_dir>/cloudmovies.db
}

// SessionConfig tunes the session navigator
type SessionConfig struct {
	// SkipOnboarding sends returning users straight to the main screen
	// after login when they have finished onboarding before.
	SkipOnboarding bool `mapstructure:"skip_onboarding"`
}

// UIConfig contains terminal UI settings
type UIConfig struct {
	SplashDelay    time.Duration `mapstructure:"splash_delay"`
	Transition     time.Duration `mapstructure:"transition"`
	RecentSearches int           `mapstructure:"recent_searches"`
}

// FilterConfig contains named watchlist filter presets
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}

// RadarrConfig holds Radarr API connection details and push settings
type RadarrConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	URL            string `mapstructure:"url"`
	APIKey         string `mapstructure:"api_key"`
	QualityProfile string `mapstructure:"quality_profile"`
	RootFolder     string `mapstructure:"root_folder"`
	Monitored      bool   `mapstructure:"monitored"`
	Search         bool   `mapstructure:"search"`
	Concurrency    int    `mapstructure:"concurrency"`
}

// UpdateConfig configures self-update
type UpdateConfig struct {
	Repository string `mapstructure:"repository"` // owner/name on GitHub
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
	File   string `mapstructure:"file"` // used by the TUI; defaults to <data_dir>/cloudmovies.log
}
