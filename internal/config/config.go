// Package config provides configuration loading and validation for the CLI
// and the server. Values merge in precedence order: CLI flags over config
// file over environment over defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config is the user-facing configuration. All fields are optional; missing
// values fall back to defaults or must arrive via CLI flags.
type Config struct {
	// Input. ProfileFile and ProfileURL are mutually exclusive.
	ProfileFile string `json:"profile_file,omitempty" validate:"omitempty,file"`
	ProfileURL  string `json:"profile_url,omitempty"  validate:"omitempty,url"`

	// Analysis behavior.
	AIEnabled    bool   `json:"ai_enabled,omitempty"`
	APIKey       string `json:"api_key,omitempty"`
	Model        string `json:"model,omitempty"`
	Instructions string `json:"instructions,omitempty" validate:"omitempty,max=2000"`
	TargetRole   string `json:"target_role,omitempty"  validate:"omitempty,max=200"`

	// Cache. CacheTTLDays of zero means the default window.
	CacheTTLDays int    `json:"cache_ttl_days,omitempty" validate:"omitempty,min=1,max=30"`
	CachePath    string `json:"cache_path,omitempty"`
	DatabaseURL  string `json:"database_url,omitempty"`

	// Fetching.
	UseBrowser bool `json:"use_browser,omitempty"`

	// Server.
	ListenAddr string `json:"listen_addr,omitempty" validate:"omitempty,hostname_port"`

	Verbose bool `json:"verbose,omitempty"`
}

var validate = validator.New()

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills secrets and connection strings from the environment. Only
// empty fields are touched; explicit config always wins.
func (c *Config) FromEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.CachePath == "" {
		c.CachePath = os.Getenv("ELEVATELI_CACHE_PATH")
	}
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if c.ProfileFile != "" && c.ProfileURL != "" {
		return fmt.Errorf("config error: 'profile_file' and 'profile_url' are mutually exclusive")
	}
	if c.AIEnabled && c.APIKey == "" {
		return fmt.Errorf("config error: AI analysis requires an API key (set 'api_key' or GEMINI_API_KEY)")
	}

	if err := validate.Struct(c); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			field := invalid[0]
			return fmt.Errorf("config error: field '%s' failed '%s' validation", field.Field(), field.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a copy with empty fields filled from defaults.
// Bool fields never merge; flags always win for those.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.ProfileFile == "" {
		result.ProfileFile = defaults.ProfileFile
	}
	if result.ProfileURL == "" {
		result.ProfileURL = defaults.ProfileURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.Instructions == "" {
		result.Instructions = defaults.Instructions
	}
	if result.TargetRole == "" {
		result.TargetRole = defaults.TargetRole
	}
	if result.CachePath == "" {
		result.CachePath = defaults.CachePath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}
	if result.CacheTTLDays == 0 {
		result.CacheTTLDays = defaults.CacheTTLDays
	}

	return result
}

// DefaultCachePath places the analysis store under the user cache dir.
func DefaultCachePath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return "elevateli.db"
	}
	return filepath.Join(base, "elevateli", "cache.db")
}
