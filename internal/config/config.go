package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
)

const (
	APP_NAME = "hypenv"

	CONFIG_FILE_NAME    = "config.yaml"
	CONFIG_FILE_RELPATH = APP_NAME + "/" + CONFIG_FILE_NAME

	DEFAULT_LOG_LEVEL = zerolog.InfoLevel

	LOG_LEVEL_ENV_VAR = "HYPENV_LOG_LEVEL"
	JSON_ENV_VAR      = "HYPENV_JSON"
)

var (
	USER_HOME             string
	FORCE_COLOR           bool
	TRUECOLOR_COLORTERM   bool
	TERM_256COLOR_CAPABLE bool
	NO_COLOR              bool
	SHOULD_COLORIZE       bool
)

func init() {
	targetSpecificInit()
}

// Config is the configuration of the hypenv command, it is built from (by increasing priority):
// the defaults, the config file and the environment variables.
type Config struct {
	LogLevel zerolog.Level

	// JSONReports makes the run subcommand print reports as JSON.
	JSONReports bool

	// ConfigFile is the path of the file the configuration was read from, it is empty if there is no config file.
	ConfigFile string
}

// fileConfig is the content of the config file.
type fileConfig struct {
	LogLevel    string `yaml:"log-level"`
	JSONReports *bool  `yaml:"json"`
}

func Default() Config {
	return Config{
		LogLevel: DEFAULT_LOG_LEVEL,
	}
}

// Load searches for the config file in the XDG config directories and loads the configuration.
func Load() (Config, error) {
	path, err := xdg.SearchConfigFile(CONFIG_FILE_RELPATH)
	if err != nil {
		path = ""
	}
	return LoadFrom(path, os.LookupEnv)
}

// LoadFrom loads the configuration from the file at path (ignored if empty or not found) and from the environment.
func LoadFrom(path string, lookupEnv func(string) (string, bool)) (Config, error) {
	config := Default()

	if path != "" {
		content, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := config.applyFile(content); err != nil {
				return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
			}
			config.ConfigFile = path
		}
	}

	if s, ok := lookupEnv(LOG_LEVEL_ENV_VAR); ok && s != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(s))
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", LOG_LEVEL_ENV_VAR, err)
		}
		config.LogLevel = level
	}

	if s, ok := lookupEnv(JSON_ENV_VAR); ok {
		config.JSONReports = isTruthy(s)
	}

	return config, nil
}

func (c *Config) applyFile(content []byte) error {
	var file fileConfig
	if err := yaml.Unmarshal(content, &file); err != nil {
		return err
	}

	if file.LogLevel != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(file.LogLevel))
		if err != nil {
			return fmt.Errorf("invalid log-level: %w", err)
		}
		c.LogLevel = level
	}

	if file.JSONReports != nil {
		c.JSONReports = *file.JSONReports
	}
	return nil
}

func isTruthy(s string) bool {
	return len(s) != 0 && s != "false" && s != "0"
}
