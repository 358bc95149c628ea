package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRESTConfig() *Config {
	cfg := &Config{
		APIBaseURL:  "https://api.example.com/v1/",
		AccessToken: "token",
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validRESTConfig()
	cfg.RecurrenceRules = []RecurrencePreset{
		{Name: "weekdays", RRule: "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR;COUNT=10"},
	}

	assert.NoError(t, Validate(cfg))
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{Reaper: &ReaperConfig{RedisAddr: "localhost:6379"}}
	cfg.ApplyDefaults()

	assert.Equal(t, BackendREST, cfg.StoreBackend)
	assert.Equal(t, 15, cfg.SlotGranularityMinutes)
	assert.Equal(t, "30s", cfg.RequestTimeout)
	assert.Equal(t, "@daily", cfg.Reaper.CronSpec)
}

func TestValidate_MissingAPIBaseURL(t *testing.T) {
	cfg := validRESTConfig()
	cfg.APIBaseURL = ""

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiBaseURL is required")
}

func TestValidate_InvalidAPIBaseURL(t *testing.T) {
	cfg := validRESTConfig()
	cfg.APIBaseURL = "not a url"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_MissingAccessToken(t *testing.T) {
	cfg := validRESTConfig()
	cfg.AccessToken = ""

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accessToken")
}

func TestValidate_OAuthInsteadOfAccessToken(t *testing.T) {
	cfg := validRESTConfig()
	cfg.AccessToken = ""
	cfg.OAuth = &OAuthConfig{TokenURL: "https://auth.example.com/token", ClientID: "cli"}
	assert.NoError(t, Validate(cfg))

	cfg.OAuth.TokenURL = ""
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_PostgresRequiresDatabaseURL(t *testing.T) {
	cfg := &Config{StoreBackend: BackendPostgres, OwnerID: "owner-1"}
	cfg.ApplyDefaults()

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "databaseURL")

	cfg.DatabaseURL = "postgres://localhost/scheduling"
	assert.NoError(t, Validate(cfg))
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := validRESTConfig()
	cfg.StoreBackend = "mongo"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_GranularityOutOfRange(t *testing.T) {
	cfg := validRESTConfig()
	cfg.SlotGranularityMinutes = 90

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_InvalidRequestTimeout(t *testing.T) {
	cfg := validRESTConfig()
	cfg.RequestTimeout = "soon"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid requestTimeout")
}

func TestValidate_InvalidRRule(t *testing.T) {
	cfg := validRESTConfig()
	cfg.RecurrenceRules = []RecurrencePreset{{Name: "broken", RRule: "FREQ=SOMETIMES"}}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule")
}

func TestValidate_DuplicateRRuleName(t *testing.T) {
	cfg := validRESTConfig()
	cfg.RecurrenceRules = []RecurrencePreset{
		{Name: "daily", RRule: "FREQ=DAILY;COUNT=5"},
		{Name: "daily", RRule: "FREQ=DAILY;COUNT=7"},
	}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate recurrence rule")
}

func TestValidate_ReaperRequiresRedisAddr(t *testing.T) {
	cfg := validRESTConfig()
	cfg.Reaper = &ReaperConfig{}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestRecurrenceRule(t *testing.T) {
	cfg := validRESTConfig()
	cfg.RecurrenceRules = []RecurrencePreset{{Name: "daily", RRule: "FREQ=DAILY;COUNT=5"}}

	rule, ok := cfg.RecurrenceRule("daily")
	assert.True(t, ok)
	assert.Equal(t, "FREQ=DAILY;COUNT=5", rule)

	_, ok = cfg.RecurrenceRule("weekly")
	assert.False(t, ok)
}

func TestLoadFromPath_ValidFile(t *testing.T) {
	content := `
apiBaseURL: https://api.example.com/v1/
accessToken: secret
requestTimeout: 10s
slotGranularityMinutes: 30
allowNightShifts: true
reaper:
  redisAddr: localhost:6379
recurrenceRules:
  - name: weekdays
    rrule: FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR;COUNT=10
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, BackendREST, cfg.StoreBackend)
	assert.Equal(t, "https://api.example.com/v1/", cfg.APIBaseURL)
	assert.Equal(t, "secret", cfg.AccessToken)
	assert.Equal(t, 30, cfg.SlotGranularityMinutes)
	assert.True(t, cfg.AllowNightShifts)
	assert.Equal(t, "10s", cfg.Timeout().String())
	require.NotNil(t, cfg.Reaper)
	assert.Equal(t, "@daily", cfg.Reaper.CronSpec)
	assert.Len(t, cfg.RecurrenceRules, 1)
}

func TestLoadFromPath_TokenFromEnvironment(t *testing.T) {
	t.Setenv(AccessTokenEnvVar, "from-env")

	content := "apiBaseURL: https://api.example.com/v1/\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.AccessToken)
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("apiBaseURL: [unclosed"), 0644))

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadWithEnv_FindsFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	content := "apiBaseURL: https://api.example.com/v1/\naccessToken: secret\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scheduling_config.test.yaml"), []byte(content), 0644))

	cfg, err := LoadWithEnv("test")
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.AccessToken)
}
