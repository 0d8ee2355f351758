package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `{
		"profile_url": "https://www.linkedin.com/in/jane-doe/",
		"ai_enabled": true,
		"api_key": "test-key",
		"cache_ttl_days": 14
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe/", cfg.ProfileURL)
	assert.True(t, cfg.AIEnabled)
	assert.Equal(t, 14, cfg.CacheTTLDays)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writeConfig(t, `{"profile_url": `)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate_MutuallyExclusiveInputs(t *testing.T) {
	file := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(file, []byte("<html></html>"), 0o644))

	cfg := &Config{ProfileFile: file, ProfileURL: "https://example.com/in/jane/"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestValidate_TTLRange(t *testing.T) {
	for _, days := range []int{1, 7, 30} {
		cfg := &Config{CacheTTLDays: days}
		assert.NoError(t, cfg.Validate(), "ttl %d", days)
	}
	for _, days := range []int{-1, 31, 365} {
		cfg := &Config{CacheTTLDays: days}
		assert.Error(t, cfg.Validate(), "ttl %d", days)
	}
}

func TestValidate_AIRequiresAPIKey(t *testing.T) {
	cfg := &Config{AIEnabled: true}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")

	cfg.APIKey = "test-key"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ProfileFileMustExist(t *testing.T) {
	cfg := &Config{ProfileFile: filepath.Join(t.TempDir(), "absent.html")}
	assert.Error(t, cfg.Validate())
}

func TestFromEnv_FillsOnlyEmptyFields(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("DATABASE_URL", "postgres://env")

	cfg := &Config{APIKey: "explicit"}
	cfg.FromEnv()
	assert.Equal(t, "explicit", cfg.APIKey)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{ProfileURL: "https://example.com/in/jane/"}
	merged := cfg.MergeWithDefaults(Config{
		ProfileURL:   "https://example.com/in/default/",
		Model:        "gemini-1.5-flash",
		CacheTTLDays: 7,
	})

	assert.Equal(t, "https://example.com/in/jane/", merged.ProfileURL)
	assert.Equal(t, "gemini-1.5-flash", merged.Model)
	assert.Equal(t, 7, merged.CacheTTLDays)
}
