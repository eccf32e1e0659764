// =============================================================================
// 📦 GenBridge 默认配置
// =============================================================================
package config

import (
	"time"

	"github.com/BaSui01/genbridge/jobs"
	"github.com/BaSui01/genbridge/providers"
	"github.com/BaSui01/genbridge/summary"
)

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Log:       DefaultLogConfig(),
		Telemetry: DefaultTelemetryConfig(),
		Metrics:   DefaultMetricsConfig(),
		Redis:     DefaultRedisConfig(),
		Database:  DefaultDatabaseConfig(),
		Polling:   DefaultPollingConfig(),
		Summary:   DefaultSummaryConfig(),
		APIs:      DefaultAPIs(),
	}
}

// DefaultAPIs 为每个内置端点预置一个空覆盖项，使环境变量可以按名覆盖。
func DefaultAPIs() map[string]EndpointConfig {
	apis := make(map[string]EndpointConfig)
	for _, ep := range providers.Defaults() {
		apis[ep.Name] = EndpointConfig{}
	}
	return apis
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:            "info",
		Format:           "json",
		OutputPaths:      []string{"stdout"},
		EnableCaller:     true,
		EnableStacktrace: false,
	}
}

// DefaultTelemetryConfig 返回默认遥测配置
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		OTLPEndpoint: "localhost:4317",
		ServiceName:  "genbridge",
		SampleRate:   0.1,
	}
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   false,
		Addr:      ":9091",
		Namespace: "genbridge",
	}
}

// DefaultRedisConfig 返回默认 Redis 配置
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:      false,
		Addr:         "localhost:6379",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		KeyPrefix:    "genbridge:",
		StockTTL:     10 * time.Minute,
	}
}

// DefaultDatabaseConfig 返回默认数据库配置
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Enabled:         false,
		Driver:          "sqlite",
		Name:            "genbridge.db",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	}
}

func DefaultPollingConfig() PollingConfig {
	p := jobs.DefaultPolicy()
	return PollingConfig{Interval: p.Interval, MaxAttempts: p.MaxAttempts}
}

func DefaultSummaryConfig() SummaryConfig {
	return SummaryConfig{
		Model:          summary.DefaultModel,
		MaxInputTokens: summary.DefaultMaxInputTokens,
	}
}

// PollingPolicy 转换为 jobs.Policy
func (p PollingConfig) PollingPolicy() jobs.Policy {
	return jobs.Policy{Interval: p.Interval, MaxAttempts: p.MaxAttempts}
}
