// SPDX-License-Identifier: MPL-2.0

package config

import "time"

type (
	// Config is denv's tool configuration.
	Config struct {
		// DefaultOutput is the output composed when none is named on the
		// command line. Empty falls back to the denvfile's only output.
		DefaultOutput string `mapstructure:"default_output"`
		// Materializer selects how environments are realized: "shell",
		// "virtual" or "mock".
		Materializer string `mapstructure:"materializer"`
		// Platforms are the default expansion targets for `denv resolve`.
		// Empty means the current host platform only.
		Platforms []string `mapstructure:"platforms"`
		// ManifestTimeout bounds a single source manifest fetch, in Go
		// duration form (e.g. "30s").
		ManifestTimeout string `mapstructure:"manifest_timeout"`
		// UI holds presentation settings.
		UI UIConfig `mapstructure:"ui"`
		// Serve holds the SSH serving settings.
		Serve ServeConfig `mapstructure:"serve"`
	}

	// UIConfig holds presentation settings.
	UIConfig struct {
		// ColorScheme is "auto", "dark" or "light".
		ColorScheme string `mapstructure:"color_scheme"`
		// Verbose enables debug-level logging.
		Verbose bool `mapstructure:"verbose"`
	}

	// ServeConfig configures `denv serve`.
	ServeConfig struct {
		// Address is the listen address in host:port form.
		Address string `mapstructure:"address"`
		// HostKeyPath is where the server's SSH host key lives.
		HostKeyPath string `mapstructure:"host_key_path"`
	}
)

// ManifestTimeoutDuration returns the parsed manifest timeout. Load
// validates the string, so a zero duration here means "use the fetcher
// default".
func (c *Config) ManifestTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.ManifestTimeout)
	if err != nil {
		return 0
	}
	return d
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Materializer:    "shell",
		ManifestTimeout: "30s",
		UI: UIConfig{
			ColorScheme: "auto",
		},
		Serve: ServeConfig{
			Address: "localhost:2222",
		},
	}
}
