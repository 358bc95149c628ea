package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"

	// AccessTokenEnvVar supplies the bearer token when the config file omits it
	AccessTokenEnvVar = "SCHEDULING_ACCESS_TOKEN"

	defaultGranularity    = 15
	defaultRequestTimeout = "30s"
	defaultReapCronSpec   = "@daily"
)

// RecurrencePreset is a named recurrence rule offered when staging recurring shifts
type RecurrencePreset struct {
	Name  string `yaml:"name" validate:"required"`
	RRule string `yaml:"rrule" validate:"required"`
}

// OAuthConfig enables refresh-token authentication against the API's token endpoint
type OAuthConfig struct {
	TokenURL     string   `yaml:"tokenURL" validate:"required,url"`
	ClientID     string   `yaml:"clientID" validate:"required"`
	ClientSecret string   `yaml:"clientSecret,omitempty"`
	RefreshToken string   `yaml:"refreshToken,omitempty"`
	Scopes       []string `yaml:"scopes,omitempty"`
}

// ReaperConfig configures the scheduled reaper worker
type ReaperConfig struct {
	RedisAddr     string `yaml:"redisAddr" validate:"required,hostname_port"`
	RedisPassword string `yaml:"redisPassword,omitempty"`
	RedisDB       int    `yaml:"redisDB,omitempty" validate:"min=0"`
	CronSpec      string `yaml:"cronSpec,omitempty"`
}

// Config represents the application configuration
type Config struct {
	StoreBackend           string             `yaml:"storeBackend,omitempty" validate:"oneof=rest postgres"`
	APIBaseURL             string             `yaml:"apiBaseURL,omitempty" validate:"omitempty,url"`
	AccessToken            string             `yaml:"accessToken,omitempty"`
	OAuth                  *OAuthConfig       `yaml:"oauth,omitempty"`
	RequestTimeout         string             `yaml:"requestTimeout,omitempty"`
	DatabaseURL            string             `yaml:"databaseURL,omitempty"`
	OwnerID                string             `yaml:"ownerID,omitempty"`
	SlotGranularityMinutes int                `yaml:"slotGranularityMinutes,omitempty" validate:"min=1,max=60"`
	AllowNightShifts       bool               `yaml:"allowNightShifts,omitempty"`
	Reaper                 *ReaperConfig      `yaml:"reaper,omitempty"`
	RecurrenceRules        []RecurrencePreset `yaml:"recurrenceRules,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads scheduling_config.<env>.yaml from the current directory or
// the user's home directory
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads, defaults and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.AccessToken == "" {
		cfg.AccessToken = os.Getenv(AccessTokenEnvVar)
	}
	cfg.ApplyDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills in optional settings left empty
func (c *Config) ApplyDefaults() {
	if c.StoreBackend == "" {
		c.StoreBackend = BackendREST
	}
	if c.SlotGranularityMinutes == 0 {
		c.SlotGranularityMinutes = defaultGranularity
	}
	if c.RequestTimeout == "" {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.Reaper != nil && c.Reaper.CronSpec == "" {
		c.Reaper.CronSpec = defaultReapCronSpec
	}
}

// Validate validates the configuration struct and the settings that depend on the backend
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch cfg.StoreBackend {
	case BackendREST:
		if cfg.APIBaseURL == "" {
			return fmt.Errorf("config validation failed: apiBaseURL is required for the %s backend", BackendREST)
		}
		if cfg.AccessToken == "" && cfg.OAuth == nil {
			return fmt.Errorf("config validation failed: accessToken (or %s) or oauth is required for the %s backend", AccessTokenEnvVar, BackendREST)
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" || cfg.OwnerID == "" {
			return fmt.Errorf("config validation failed: databaseURL and ownerID are required for the %s backend", BackendPostgres)
		}
	}

	if cfg.RequestTimeout != "" {
		timeout, err := time.ParseDuration(cfg.RequestTimeout)
		if err != nil || timeout <= 0 {
			return fmt.Errorf("invalid requestTimeout %q: must be a positive duration", cfg.RequestTimeout)
		}
	}

	seen := make(map[string]bool)
	for i, preset := range cfg.RecurrenceRules {
		if seen[preset.Name] {
			return fmt.Errorf("duplicate recurrence rule name %q", preset.Name)
		}
		seen[preset.Name] = true

		if _, err := rrule.StrToRRule(preset.RRule); err != nil {
			return fmt.Errorf("invalid rrule in recurrenceRules[%d]: %w", i, err)
		}
	}

	return nil
}

// Timeout returns the per-request timeout, or zero if unset
func (c *Config) Timeout() time.Duration {
	timeout, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0
	}
	return timeout
}

// RecurrenceRule looks up a preset by name
func (c *Config) RecurrenceRule(name string) (string, bool) {
	for _, preset := range c.RecurrenceRules {
		if preset.Name == name {
			return preset.RRule, true
		}
	}
	return "", false
}

// findConfigFile searches for the config file in the current directory and home directory
func findConfigFile(env string) (string, error) {
	configFileName := "scheduling_config.yaml"
	if env != "" {
		configFileName = "scheduling_config." + env + ".yaml"
	}

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
