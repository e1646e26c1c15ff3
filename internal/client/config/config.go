package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the vizlab CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend REST API, e.g. "http://127.0.0.1:8000".
//   - RequestTimeout: per-request deadline for JSON calls. Binary downloads
//     ignore it and rely on context cancellation only.
//   - StateDir: directory holding the persisted session file.
//   - DownloadDir: directory analytics CSV exports are written to.
//   - DevMode: enables the authentication bypass toggle.
//
// Units: RequestTimeout is a time.Duration (e.g., 10*time.Second).
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	StateDir       string
	DownloadDir    string
	DevMode        bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 10 * time.Second
	c.StateDir = defaultStateDir()
	c.DownloadDir = "."
	c.DevMode = false
}

// defaultStateDir resolves to the user config directory, falling back to the
// current directory when the platform does not report one.
func defaultStateDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".vizlab"
	}
	return filepath.Join(base, "vizlab")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// SessionFile is the path of the persisted session state inside StateDir.
func (c *Config) SessionFile() string {
	return filepath.Join(c.StateDir, "session.json")
}
