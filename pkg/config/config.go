package config

import (
	"time"

	"github.com/oseilabs/econdocs/pkg/logging"
)

// CollectorConfig holds complete collector configuration
type CollectorConfig struct {
	// Logging configuration
	Logging *logging.LogConfig `json:"logging"`

	// DownloadRoot is the base of the category directory tree
	DownloadRoot string `json:"download_root"`

	// Headless controls whether the browser window is visible; it has no
	// effect on collection logic
	Headless bool `json:"headless"`

	// NavigationTimeout bounds every page navigation
	NavigationTimeout time.Duration `json:"navigation_timeout"`

	// InterDownloadDelay is the courtesy pause after each download attempt
	InterDownloadDelay time.Duration `json:"inter_download_delay"`

	// UserAgent is sent on every browser navigation and direct download
	UserAgent string `json:"user_agent"`
}

// DefaultCollectorConfig returns a complete default configuration
func DefaultCollectorConfig() *CollectorConfig {
	return &CollectorConfig{
		Logging:            logging.DefaultLogConfig(),
		DownloadRoot:       "./ghana_economic_data",
		Headless:           true,
		NavigationTimeout:  30 * time.Second,
		InterDownloadDelay: 2 * time.Second,
		UserAgent:          "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// DevelopmentCollectorConfig returns a configuration suited to local runs:
// visible browser, pretty console logs, faster pacing
func DevelopmentCollectorConfig() *CollectorConfig {
	cfg := DefaultCollectorConfig()

	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "pretty"
	cfg.Logging.OutputFile = ""

	cfg.Headless = false
	cfg.NavigationTimeout = 15 * time.Second
	cfg.InterDownloadDelay = 500 * time.Millisecond

	return cfg
}
