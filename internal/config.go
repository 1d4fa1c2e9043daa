package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const envPrefix = "SESSION_VIEWER_"

// Config holds settings read from the config file and environment
type Config struct {
	// ProjectsDir is where list looks for transcripts by default
	ProjectsDir string `yaml:"projects_dir"`
	CacheDir    string `yaml:"cache_dir"`
	DBPath      string `yaml:"db_path"`
	// Style is a glamour style name; "auto" picks from the terminal background
	Style string `yaml:"style"`
	Width int    `yaml:"width"`
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		ProjectsDir: filepath.Join(home, ".claude", "projects"),
		CacheDir:    filepath.Join(home, ".session-viewer-cache"),
		DBPath:      filepath.Join(home, ".session-viewer-cache", "index.db"),
		Style:       "auto",
		Width:       100,
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/session-viewer/config.yaml
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "session-viewer", "config.yaml")
}

// LoadConfig reads the YAML file at path over the defaults and then applies
// SESSION_VIEWER_* environment overrides. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			LogDebug("No config file at %s", path)
		case err != nil:
			return cfg, &LoadError{Path: path, Op: "read config", Err: err}
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, &LoadError{Path: path, Op: "parse config", Err: err}
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"PROJECTS_DIR": &cfg.ProjectsDir,
		"CACHE_DIR":    &cfg.CacheDir,
		"DB_PATH":      &cfg.DBPath,
		"STYLE":        &cfg.Style,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "WIDTH"); ok && v != "" {
		width, err := strconv.Atoi(v)
		if err != nil || width <= 0 {
			return fmt.Errorf("invalid %sWIDTH %q", envPrefix, v)
		}
		cfg.Width = width
	}
	return nil
}
