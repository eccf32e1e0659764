// 配置加载器与默认配置测试。
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/genbridge/providers"
	"github.com/BaSui01/genbridge/providers/firefly"
	"github.com/BaSui01/genbridge/registry"
)

// --- 默认配置测试 ---

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"stdout"}, cfg.Log.OutputPaths)

	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "genbridge", cfg.Telemetry.ServiceName)
	assert.Equal(t, ":9091", cfg.Metrics.Addr)

	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 10*time.Minute, cfg.Redis.StockTTL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)

	assert.Equal(t, 2*time.Second, cfg.Polling.Interval)
	assert.Equal(t, 30, cfg.Polling.MaxAttempts)

	assert.Contains(t, cfg.APIs, "firefly-v3")
	assert.Contains(t, cfg.APIs, "thirdparty")
	assert.NoError(t, cfg.Validate())
}

// --- Loader 测试 ---

func TestLoader_LoadFromYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "genbridge.yaml")
	yamlContent := `
log:
  level: debug
  format: console
polling:
  interval: 500ms
identity:
  client_id: helpx-web
  scope: openid,AdobeID
apis:
  firefly-v3:
    base_url: https://firefly.example.com
    max_retries: 5
  custom:
    base_url: https://custom.example.com
    timeout: 5s
    headers:
      X-Team: docs
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0o644))

	cfg, err := NewLoader().WithConfigPath(configPath).Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 500*time.Millisecond, cfg.Polling.Interval)
	// YAML 未设置的字段保留默认值
	assert.Equal(t, 30, cfg.Polling.MaxAttempts)
	assert.Equal(t, "helpx-web", cfg.Identity.ClientID)

	require.NotNil(t, cfg.APIs["firefly-v3"].MaxRetries)
	assert.Equal(t, 5, *cfg.APIs["firefly-v3"].MaxRetries)
	assert.Contains(t, cfg.APIs, "stock", "default keys survive YAML merge")
	require.NotNil(t, cfg.APIs["custom"].Timeout)
	assert.Equal(t, 5*time.Second, *cfg.APIs["custom"].Timeout)
	assert.Nil(t, cfg.APIs["custom"].MaxRetries)
}

func TestLoader_LoadFromEnv(t *testing.T) {
	t.Setenv("GENBRIDGE_LOG_LEVEL", "warn")
	t.Setenv("GENBRIDGE_LOG_OUTPUT_PATHS", "stdout, /tmp/genbridge.log")
	t.Setenv("GENBRIDGE_REDIS_ENABLED", "true")
	t.Setenv("GENBRIDGE_REDIS_ADDR", "env-redis:6379")
	t.Setenv("GENBRIDGE_POLLING_MAX_ATTEMPTS", "12")
	t.Setenv("GENBRIDGE_IDENTITY_ENVIRONMENT", "stg1")
	t.Setenv("GENBRIDGE_TELEMETRY_SAMPLE_RATE", "0.5")
	t.Setenv("GENBRIDGE_APIS_FIREFLY_V3_BASE_URL", "https://env.example.com")
	t.Setenv("GENBRIDGE_APIS_OPENAI_RESPONSES_TIMEOUT", "90s")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, []string{"stdout", "/tmp/genbridge.log"}, cfg.Log.OutputPaths)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "env-redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 12, cfg.Polling.MaxAttempts)
	assert.Equal(t, "stg1", cfg.Identity.Environment)
	assert.Equal(t, 0.5, cfg.Telemetry.SampleRate)
	assert.Equal(t, "https://env.example.com", cfg.APIs["firefly-v3"].BaseURL)
	require.NotNil(t, cfg.APIs["openai-responses"].Timeout)
	assert.Equal(t, 90*time.Second, *cfg.APIs["openai-responses"].Timeout)
}

func TestLoader_EnvOverridesYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "genbridge.yaml")
	yamlContent := `
log:
  level: debug
summary:
  model: gpt-4o
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0o644))
	t.Setenv("GENBRIDGE_LOG_LEVEL", "error")

	cfg, err := NewLoader().WithConfigPath(configPath).Load()
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "gpt-4o", cfg.Summary.Model)
}

func TestLoader_CustomEnvPrefix(t *testing.T) {
	t.Setenv("MYAPP_LOG_FORMAT", "console")

	cfg, err := NewLoader().WithEnvPrefix("MYAPP").Load()
	require.NoError(t, err)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoader_InvalidEnvValue(t *testing.T) {
	t.Setenv("GENBRIDGE_POLLING_INTERVAL", "soon")

	_, err := NewLoader().Load()
	assert.ErrorContains(t, err, "GENBRIDGE_POLLING_INTERVAL")
}

func TestLoader_WithValidator(t *testing.T) {
	t.Setenv("GENBRIDGE_LOG_LEVEL", "verbose")

	_, err := NewLoader().
		WithValidator(func(c *Config) error { return c.Validate() }).
		Load()
	assert.ErrorContains(t, err, "invalid log level")
}

func TestLoader_NonExistentFile(t *testing.T) {
	cfg, err := NewLoader().WithConfigPath("/non/existent/genbridge.yaml").Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoader_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log:\n  level: [invalid\n"), 0o644))

	_, err := NewLoader().WithConfigPath(configPath).Load()
	assert.Error(t, err)
}

func TestMustLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("invalid: [yaml"), 0o644))

	assert.Panics(t, func() { MustLoad(configPath) })
	assert.NotPanics(t, func() { MustLoad("") })
}

// --- Config 方法测试 ---

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"sample rate", func(c *Config) { c.Telemetry.SampleRate = 2 }, "sample_rate"},
		{"zero interval", func(c *Config) { c.Polling.Interval = 0 }, "polling interval"},
		{"zero attempts", func(c *Config) { c.Polling.MaxAttempts = 0 }, "max_attempts"},
		{"driver", func(c *Config) { c.Database.Enabled = true; c.Database.Driver = "oracle" }, "unsupported database driver"},
		{"base url", func(c *Config) { c.APIs["stock"] = EndpointConfig{BaseURL: "not a url"} }, "apis.stock"},
		{"negative retries", func(c *Config) { c.APIs["x"] = EndpointConfig{MaxRetries: ptr(-1)} }, "apis.x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		config   DatabaseConfig
		expected string
	}{
		{
			name:     "postgres DSN",
			config:   DatabaseConfig{Driver: "postgres", Host: "localhost", Port: 5432, User: "user", Password: "pass", Name: "dbname", SSLMode: "disable"},
			expected: "host=localhost port=5432 user=user password=pass dbname=dbname sslmode=disable",
		},
		{
			name:     "mysql DSN",
			config:   DatabaseConfig{Driver: "mysql", Host: "localhost", Port: 3306, User: "user", Password: "pass", Name: "dbname"},
			expected: "user:pass@tcp(localhost:3306)/dbname?parseTime=true",
		},
		{
			name:     "sqlite DSN",
			config:   DatabaseConfig{Driver: "sqlite", Name: "/path/to/db.sqlite"},
			expected: "/path/to/db.sqlite",
		},
		{
			name:     "unknown driver",
			config:   DatabaseConfig{Driver: "unknown"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.DSN())
		})
	}
}

func TestConfig_Endpoints(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIs["firefly-v3"] = EndpointConfig{BaseURL: "https://ff.example.com", MaxRetries: ptr(7), Headers: map[string]string{"X-Team": "docs"}}
	cfg.APIs["zz-custom"] = EndpointConfig{BaseURL: "https://custom.example.com"}

	reg := registry.New()
	cfg.RegisterAPIs(reg)

	got, ok := reg.Config(firefly.V3.APIName())
	require.True(t, ok)
	assert.Equal(t, "https://ff.example.com", got.BaseURL)
	assert.Equal(t, 7, got.MaxRetries)
	assert.Equal(t, firefly.DefaultTimeout, got.Timeout)
	assert.Equal(t, "docs", got.Headers["X-Team"])
	assert.Equal(t, "application/json", got.Headers["Content-Type"])

	eps := cfg.Endpoints()
	assert.Equal(t, "zz-custom", eps[len(eps)-1].Name)
	assert.True(t, reg.Has("zz-custom"))
}

func TestLoader_ExplicitZeroOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "genbridge.yaml")
	yamlContent := `
apis:
  thirdparty:
    max_retries: 0
    timeout: 0s
    rate_limit: 0
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0o644))
	t.Setenv("GENBRIDGE_APIS_STOCK_MAX_RETRIES", "0")

	cfg, err := NewLoader().WithConfigPath(configPath).Load()
	require.NoError(t, err)

	byName := make(map[string]providers.Endpoint)
	for _, ep := range cfg.Endpoints() {
		byName[ep.Name] = ep
	}

	tp := byName["thirdparty"].Config
	assert.Equal(t, 0, tp.MaxRetries, "max_retries: 0 disables retries")
	assert.Equal(t, time.Duration(0), tp.Timeout, "timeout: 0s means no timeout")
	assert.Equal(t, float64(0), tp.RateLimit)
	assert.NotEmpty(t, tp.BaseURL, "unset fields keep the built-in value")

	assert.Equal(t, 0, byName["stock"].Config.MaxRetries, "env var set to 0 is an explicit override")
	assert.Greater(t, byName["firefly-v3"].Config.MaxRetries, 0, "untouched endpoints keep their defaults")
}

func ptr[T any](v T) *T { return &v }
