// Package config resolves runtime settings from flags, RECIPES_* environment
// variables, an optional YAML file and built-in defaults, in that order.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Makepad-fr/recipes/internal/listview"
	"github.com/Makepad-fr/recipes/internal/logging"
)

const (
	EnvPrefix      = "RECIPES"
	fileName       = ".recipes"
	DefaultAPIURL  = "https://usman-fake-api.herokuapp.com/api/recipes"
	DefaultTimeout = 30 * time.Second
)

// Keys used in the config file and, upper-cased with the prefix, in the
// environment.
const (
	KeyAPIURL            = "api_url"
	KeyTimeout           = "timeout"
	KeyRateLimit         = "rate_limit"
	KeyUserAgent         = "user_agent"
	KeyLogLevel          = "log_level"
	KeyLogFile           = "log_file"
	KeyTheme             = "theme"
	KeyColor             = "color"
	KeyNoColor           = "no_color"
	KeyShowErrors        = "show_errors"
	KeyKeepEditOnFailure = "keep_edit_on_failure"
)

// Config is the resolved configuration.
type Config struct {
	APIURL            string
	Timeout           time.Duration
	RateLimit         float64
	UserAgent         string
	LogLevel          string
	LogFile           string
	Theme             string
	Color             bool
	NoColor           bool
	ShowErrors        bool
	KeepEditOnFailure bool
}

// SetDefaults registers defaults and environment lookup on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyRateLimit, 0.0)
	v.SetDefault(KeyUserAgent, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyTheme, "classic")
	v.SetDefault(KeyColor, false)
	v.SetDefault(KeyNoColor, false)
	v.SetDefault(KeyShowErrors, false)
	v.SetDefault(KeyKeepEditOnFailure, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// ReadFile loads path, or when empty looks for .recipes.yaml in the home and
// working directories. A missing discovered file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetConfigName(fileName)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load reads every key from v and validates the result.
func Load(v *viper.Viper) (Config, error) {
	c := Config{
		APIURL:            strings.TrimSpace(v.GetString(KeyAPIURL)),
		Timeout:           v.GetDuration(KeyTimeout),
		RateLimit:         v.GetFloat64(KeyRateLimit),
		UserAgent:         v.GetString(KeyUserAgent),
		LogLevel:          v.GetString(KeyLogLevel),
		LogFile:           v.GetString(KeyLogFile),
		Theme:             v.GetString(KeyTheme),
		Color:             v.GetBool(KeyColor),
		NoColor:           v.GetBool(KeyNoColor),
		ShowErrors:        v.GetBool(KeyShowErrors),
		KeepEditOnFailure: v.GetBool(KeyKeepEditOnFailure),
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks presence and ranges only.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("%s is required", KeyAPIURL)
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("%s: %w", KeyAPIURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", KeyAPIURL, c.APIURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%s must not be negative", KeyTimeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%s must not be negative", KeyRateLimit)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SavePolicy maps KeepEditOnFailure to the list view policy.
func (c Config) SavePolicy() listview.SavePolicy {
	if c.KeepEditOnFailure {
		return listview.KeepOpenOnFailure
	}
	return listview.CloseOnFailure
}
