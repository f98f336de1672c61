// Package config provides configuration management for the dbforge CLI.
package config

// Config holds all CLI configuration options.
type Config struct {
	Port          int    `koanf:"port"`
	StatePath     string `koanf:"state_path"`
	Fixtures      string `koanf:"fixtures"`
	SessionSecret string `koanf:"session_secret"`
	OpenBrowser   bool   `koanf:"open_browser"`
	Watch         bool   `koanf:"watch"`
	Verbose       bool   `koanf:"verbose"`
	OutputFormat  string `koanf:"output"`
}

// Default configuration values.
const (
	DefaultPort      = 8765
	DefaultStateFile = ".dbforge/state.db"
	DefaultOutput    = "auto" // Auto-detect: TTY=table, non-TTY=markdown

	// Development fallback; override via config file or DBFORGE_SESSION_SECRET.
	DefaultSessionSecret = "dbforge-dev-secret-change-in-production"
)
