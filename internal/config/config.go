// Package config handles persistent user configuration for hureg.
//
// Configuration is stored as JSON at ~/.config/hureg/config.json (or the
// platform-equivalent path returned by os.UserConfigDir). Secrets never live
// here; they are kept in the OS keychain by the auth store.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	appDir   = "hureg"
	fileName = "config.json"
)

// Environments selectable with the "environment" key.
const (
	EnvLive = "live"
	EnvTest = "test"
)

// pathOverride, when non-empty, replaces the default config file path.
// Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds the registrar settings that persist across invocations.
type Config struct {
	Environment string `json:"environment,omitempty" validate:"omitempty,oneof=live test"`
	URL         string `json:"url,omitempty" validate:"omitempty,url"`
	Registrar   string `json:"registrar,omitempty"`
	RegistrarID string `json:"registrar_id,omitempty" validate:"omitempty,number"`
	KeyID       string `json:"key_id,omitempty"`
	KeyStore    string `json:"keystore,omitempty"`
	Timeout     string `json:"timeout,omitempty" validate:"omitempty,timeout"`
	Proxy       string `json:"proxy,omitempty"`
	Nameserver  string `json:"nameserver,omitempty" validate:"omitempty,fqdn"`
	CacheSize   string `json:"cache_size,omitempty" validate:"omitempty,number"`
}

// Path returns the absolute path to the config file.
// If SetPath has been called, that value is returned instead.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the config file from disk and returns the parsed Config.
// If the file does not exist, a zero-value Config is returned (not an error).
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from the given path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save validates the config and writes it to the default path.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates the config and writes it to path, creating the parent
// directory if needed.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	return nil
}

// Validate checks every set value. Unset values are always valid.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("config: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: invalid value %q (%s)", fe.Field(), fe.Value(), describeTag(fe)))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

// RequestTimeout returns the configured round-trip timeout, or zero when
// unset. A bare number is read as seconds.
func (c *Config) RequestTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	return parseTimeout(c.Timeout)
}

// CacheCapacity returns the configured Domain Cache bound; zero means
// unbounded.
func (c *Config) CacheCapacity() int {
	n, err := strconv.Atoi(c.CacheSize)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("config: timeout must be positive")
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: invalid timeout %q", raw)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: timeout must be positive")
	}
	return d, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("timeout", func(fl validator.FieldLevel) bool {
		_, err := parseTimeout(fl.Field().String())
		return err == nil
	})
	return v
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return "must be one of: " + fe.Param()
	case "url":
		return "must be an absolute URL"
	case "number":
		return "must be a non-negative integer"
	case "fqdn":
		return "must be a fully qualified host name"
	case "timeout":
		return "must be a positive duration such as 30s, or seconds"
	default:
		return fe.Tag()
	}
}
