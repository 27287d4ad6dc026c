// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/denvtool/denv/internal/issue"
	"github.com/denvtool/denv/pkg/cueutil"
	"github.com/denvtool/denv/pkg/platform"
)

const (
	// AppName is the application name.
	AppName = "denv"
	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema string

// configDirOverride lets tests redirect the config directory.
var configDirOverride string

// SetConfigDirOverride overrides the config directory; pass "" to restore
// platform resolution. Test-only.
func SetConfigDirOverride(dir string) { configDirOverride = dir }

// LoadOptions controls where Load looks for configuration.
type LoadOptions struct {
	// ConfigFilePath, when set, is used exclusively.
	ConfigFilePath string
	// ConfigDirPath overrides the platform config directory.
	ConfigDirPath string
}

// ConfigDir returns the denv configuration directory using platform
// conventions: %APPDATA% on Windows, ~/Library/Application Support on
// macOS, $XDG_CONFIG_HOME (default ~/.config) elsewhere.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string
	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(configDir, AppName), nil
}

// Load resolves and loads the configuration. Resolution order: explicit
// file path, then config.cue in the config directory, then config.cue in
// the working directory, then pure defaults. The resolved path is returned
// alongside the config; it is empty when defaults were used.
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("default_output", defaults.DefaultOutput)
	v.SetDefault("materializer", defaults.Materializer)
	v.SetDefault("platforms", defaults.Platforms)
	v.SetDefault("manifest_timeout", defaults.ManifestTimeout)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("serve.address", defaults.Serve.Address)
	v.SetDefault("serve.host_key_path", defaults.Serve.HostKeyPath)

	resolvedPath := ""
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'denv config show' to see the effective configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, "", wrapConfigLoad(opts.ConfigFilePath, err)
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir := opts.ConfigDirPath
		if cfgDir == "" {
			var err error
			cfgDir, err = ConfigDir()
			if err != nil {
				return nil, "", err
			}
		}

		cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		switch {
		case fileExists(cuePath):
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, "", wrapConfigLoad(cuePath, err)
			}
			resolvedPath = cuePath
		case fileExists(ConfigFileName + "." + ConfigFileExt):
			localPath := ConfigFileName + "." + ConfigFileExt
			if err := loadCUEIntoViper(v, localPath); err != nil {
				return nil, "", wrapConfigLoad(localPath, err)
			}
			resolvedPath = localPath
		}
		// No file found: defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// CUE checks field shapes; platform strings need Go-level parsing.
	for i, p := range cfg.Platforms {
		if _, err := platform.Parse(p); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("validate configuration").
				WithSuggestion(`Platform strings use "os/arch" form, e.g. "linux/amd64"`).
				Wrap(fmt.Errorf("platforms[%d]: %w", i, err)).
				BuildError()
		}
	}

	if cfg.ManifestTimeout != "" {
		if _, err := time.ParseDuration(cfg.ManifestTimeout); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("validate configuration").
				WithSuggestion(`Durations use Go form, e.g. "30s" or "1m"`).
				Wrap(fmt.Errorf("manifest_timeout: %w", err)).
				BuildError()
		}
	}

	return &cfg, resolvedPath, nil
}

func wrapConfigLoad(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the values match the expected schema").
		Wrap(err).
		BuildError()
}

// loadCUEIntoViper parses a CUE file, validates it against #Config, and
// merges the result into Viper. Manual CUE handling instead of
// cueutil.ParseAndDecode because the result feeds Viper as a map and config
// fields are optional, so concreteness is not enforced.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}

// Save writes the configuration to the config directory in CUE form.
func Save(cfg *Config) error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// CreateDefaultConfig writes a default config file unless one exists.
func CreateDefaultConfig() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(cfgPath); err == nil {
		return nil
	}
	return Save(DefaultConfig())
}

// GenerateCUE renders the configuration as a CUE document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// denv configuration file.\n\n")
	if cfg.DefaultOutput != "" {
		sb.WriteString(fmt.Sprintf("default_output: %q\n", cfg.DefaultOutput))
	}
	sb.WriteString(fmt.Sprintf("materializer: %q\n", cfg.Materializer))
	if len(cfg.Platforms) > 0 {
		sb.WriteString("platforms: [\n")
		for _, p := range cfg.Platforms {
			sb.WriteString(fmt.Sprintf("\t%q,\n", p))
		}
		sb.WriteString("]\n")
	}
	if cfg.ManifestTimeout != "" {
		sb.WriteString(fmt.Sprintf("manifest_timeout: %q\n", cfg.ManifestTimeout))
	}

	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tcolor_scheme: %q\n", cfg.UI.ColorScheme))
	sb.WriteString(fmt.Sprintf("\tverbose: %v\n", cfg.UI.Verbose))
	sb.WriteString("}\n")

	sb.WriteString("\nserve: {\n")
	sb.WriteString(fmt.Sprintf("\taddress: %q\n", cfg.Serve.Address))
	if cfg.Serve.HostKeyPath != "" {
		sb.WriteString(fmt.Sprintf("\thost_key_path: %q\n", cfg.Serve.HostKeyPath))
	}
	sb.WriteString("}\n")

	return sb.String()
}
