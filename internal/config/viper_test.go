package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at an empty temp dir and clears
// every variable the loader reads.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)

	for _, envVar := range []string{
		"REVDASH_LOG_LEVEL",
		"LOG_LEVEL",
		"REVDASH_LOG_FORMAT",
		"REVDASH_CSV_DELIMITER",
		"REVDASH_CSV_ENCODING",
		"REVDASH_SYNONYMS_FILE",
		"REVDASH_REPORT_FORMAT",
		"REVDASH_AI_ENABLED",
		"REVDASH_AI_MODEL",
		"REVDASH_AI_TIMEOUT_SECONDS",
		"REVDASH_AI_API_KEY",
		"GEMINI_API_KEY",
	} {
		t.Setenv(envVar, "")
		require.NoError(t, os.Unsetenv(envVar))
	}
	return dir
}

func TestInitializeConfig_Defaults(t *testing.T) {
	isolate(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, ',', config.DelimiterRune())
	assert.Equal(t, "utf-8", config.CSV.Encoding)
	assert.Equal(t, "synonyms.yaml", config.Synonyms.File)
	assert.Equal(t, "text", config.Report.Format)
	assert.False(t, config.AI.Enabled)
	assert.Equal(t, "gemini-1.5-flash", config.AI.Model)
	assert.Equal(t, 30*time.Second, config.AI.Timeout())
	assert.Empty(t, config.AI.APIKey)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)

	testEnvVars := map[string]string{
		"REVDASH_LOG_LEVEL":          "debug",
		"REVDASH_LOG_FORMAT":         "json",
		"REVDASH_CSV_DELIMITER":      ";",
		"REVDASH_CSV_ENCODING":       "euc-kr",
		"REVDASH_REPORT_FORMAT":      "yaml",
		"REVDASH_AI_ENABLED":         "true",
		"REVDASH_AI_MODEL":           "gemini-1.5-pro",
		"REVDASH_AI_TIMEOUT_SECONDS": "10",
		"GEMINI_API_KEY":             "test-api-key",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, ';', config.DelimiterRune())
	assert.Equal(t, "euc-kr", config.CSV.Encoding)
	assert.Equal(t, "yaml", config.Report.Format)
	assert.True(t, config.AI.Enabled)
	assert.Equal(t, "gemini-1.5-pro", config.AI.Model)
	assert.Equal(t, 10*time.Second, config.AI.Timeout())
	assert.Equal(t, "test-api-key", config.AI.APIKey)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	dir := isolate(t)

	configContent := `
log:
  level: "warn"
  format: "json"
csv:
  delimiter: "|"
synonyms:
  file: "extra.yaml"
ai:
  enabled: false
  model: "gemini-1.0-pro"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configContent), 0600))

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, "extra.yaml", config.Synonyms.File)
	assert.Equal(t, "gemini-1.0-pro", config.AI.Model)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	dir := isolate(t)

	configContent := `
log:
  level: "warn"
csv:
  delimiter: "|"
ai:
  timeout_seconds: 20
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configContent), 0600))

	t.Setenv("REVDASH_LOG_LEVEL", "error")
	t.Setenv("REVDASH_AI_TIMEOUT_SECONDS", "25")
	t.Setenv("GEMINI_API_KEY", "env-api-key")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, 25, config.AI.TimeoutSeconds)
	assert.Equal(t, "env-api-key", config.AI.APIKey)
}

func TestInitializeConfigFromFile(t *testing.T) {
	dir := isolate(t)

	file := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte("report:\n  format: json\n"), 0600))

	config, err := InitializeConfigFromFile(file)
	require.NoError(t, err)
	assert.Equal(t, "json", config.Report.Format)

	_, err = InitializeConfigFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestInitializeConfig_InvalidFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log: [unclosed\n"), 0600))

	_, err := InitializeConfig()
	assert.Error(t, err)
}

func validConfig() *Config {
	return &Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		CSV:    CSVConfig{Delimiter: ",", Encoding: "utf-8"},
		Report: ReportConfig{Format: "text"},
		AI:     AIConfig{TimeoutSeconds: 30},
	}
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "invalid" },
			expectError:  "invalid log format",
		},
		{
			name:         "invalid CSV delimiter",
			modifyConfig: func(c *Config) { c.CSV.Delimiter = "abc" },
			expectError:  "CSV delimiter must be a single character",
		},
		{
			name:         "invalid encoding",
			modifyConfig: func(c *Config) { c.CSV.Encoding = "latin-1" },
			expectError:  "csv.encoding must be utf-8 or euc-kr",
		},
		{
			name:         "invalid report format",
			modifyConfig: func(c *Config) { c.Report.Format = "xml" },
			expectError:  "report.format",
		},
		{
			name: "AI enabled without API key",
			modifyConfig: func(c *Config) {
				c.AI.Enabled = true
				c.AI.APIKey = ""
			},
			expectError: "GEMINI_API_KEY required when AI is enabled",
		},
		{
			name: "invalid timeout seconds",
			modifyConfig: func(c *Config) {
				c.AI.Enabled = true
				c.AI.APIKey = "test-key"
				c.AI.TimeoutSeconds = 0
			},
			expectError: "ai.timeout_seconds must be between 1 and 300",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modifyConfig(config)

			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}

	assert.NoError(t, validateConfig(validConfig()))
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	config := validConfig()
	assert.NotNil(t, ConfigureLoggingFromConfig(config))

	config.Log = LogConfig{Level: "debug", Format: "json"}
	assert.NotNil(t, ConfigureLoggingFromConfig(config))
}

func TestInitializeConfig_APIKeyPrecedence(t *testing.T) {
	dir := isolate(t)
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	config, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "gemini-key", config.AI.APIKey, "GEMINI_API_KEY is the fallback")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("ai:\n  api_key: file-key\n"), 0600))
	config, err = InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "file-key", config.AI.APIKey)

	t.Setenv("REVDASH_AI_API_KEY", "prefixed-key")
	config, err = InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "prefixed-key", config.AI.APIKey)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("REVDASH_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("REVDASH_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("REVDASH_TEST_UNSET_VALUE", "fallback"))

	t.Setenv("GEMINI_API_KEY", "key")
	assert.Equal(t, "key", GetGeminiAPIKey())
}

func TestLoadEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REVDASH_DOTENV_VALUE=loaded\n"), 0600))
	t.Setenv("REVDASH_DOTENV_VALUE", "")
	require.NoError(t, os.Unsetenv("REVDASH_DOTENV_VALUE"))

	LoadEnv(nil)
	assert.Equal(t, "loaded", os.Getenv("REVDASH_DOTENV_VALUE"))
}
