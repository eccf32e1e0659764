package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/BaSui01/genbridge/apiclient"
	"github.com/BaSui01/genbridge/config"
	"github.com/BaSui01/genbridge/identity"
	"github.com/BaSui01/genbridge/internal/cache"
	"github.com/BaSui01/genbridge/internal/metrics"
	"github.com/BaSui01/genbridge/internal/server"
	"github.com/BaSui01/genbridge/internal/store"
	"github.com/BaSui01/genbridge/internal/telemetry"
	"github.com/BaSui01/genbridge/jobs"
	"github.com/BaSui01/genbridge/registry"
)

// app 持有一次命令执行所需的全部依赖
type app struct {
	configPath  string
	logLevel    string
	metricsAddr string
	token       string
	apiKey      string
	migrating   bool

	cfg       *config.Config
	logger    *zap.Logger
	promReg   *prometheus.Registry
	collector *metrics.Collector
	otel      *telemetry.Providers
	registry  *registry.Registry
	session   *identity.Session
	cache     *cache.Manager
	store     *store.Store

	metricsSrv *server.Manager
}

// setup 加载配置并初始化日志、指标、遥测、注册表以及可选的缓存与数据库
func (a *app) setup(ctx context.Context) error {
	loader := config.NewLoader()
	if a.configPath != "" {
		loader = loader.WithConfigPath(a.configPath)
	}
	cfg, err := loader.WithValidator(func(c *config.Config) error { return c.Validate() }).Load()
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = a.metricsAddr
	}
	a.cfg = cfg
	a.logger = initLogger(cfg.Log)

	a.otel, err = telemetry.Init(ctx, cfg.Telemetry, a.logger, telemetry.WithVersion(Version))
	if err != nil {
		a.logger.Warn("failed to initialize telemetry", zap.Error(err))
		a.otel = &telemetry.Providers{}
	}

	a.promReg = prometheus.NewRegistry()
	a.promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.collector = metrics.NewCollector(cfg.Metrics.Namespace, a.promReg, a.logger)
	if cfg.Metrics.Enabled {
		a.metricsSrv = server.NewManager(a.promReg, server.DefaultConfig(cfg.Metrics.Addr), a.logger)
		if err := a.metricsSrv.Start(); err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
	}

	a.registry = registry.New(
		apiclient.WithLogger(a.logger),
		apiclient.WithRecorder(a.collector),
		apiclient.WithTracer(a.otel.Tracer("genbridge/apiclient")),
	)
	cfg.RegisterAPIs(a.registry)

	a.session = identity.NewSession(cfg.Identity, a.logger)
	if a.token == "" {
		a.token = os.Getenv("GENBRIDGE_TOKEN")
	}
	if a.token != "" {
		a.session.SetToken(identity.TokenInfo{Token: a.token})
	}
	a.session.MarkReady()
	if a.apiKey == "" {
		a.apiKey = os.Getenv("GENBRIDGE_API_KEY")
	}

	if cfg.Redis.Enabled {
		a.cache, err = cache.NewManager(cache.ConfigFrom(cfg.Redis), a.logger, cache.WithRecorder(a.collector))
		if err != nil {
			a.logger.Warn("redis not available, stock cache disabled", zap.Error(err))
		}
	}
	if cfg.Database.Enabled {
		dbCfg := cfg.Database
		if a.migrating {
			dbCfg.SkipAutoMigrate = true
		}
		a.store, err = store.Open(ctx, dbCfg, a.logger)
		if err != nil {
			if a.migrating {
				return err
			}
			a.logger.Warn("database not available, job ledger disabled", zap.Error(err))
		} else {
			st := a.store.Stats()
			a.collector.RecordDBConnections(cfg.Database.Driver, st.OpenConnections, st.Idle)
		}
	}
	return nil
}

// poller 为 provider 创建一个带指标的轮询器
func (a *app) poller(provider string) *jobs.Poller {
	return jobs.NewPoller(a.cfg.Polling.PollingPolicy(), a.logger,
		jobs.WithName(provider), jobs.WithRecorder(a.collector))
}

// ledger 返回任务台账，未启用数据库时为 nil
func (a *app) ledger() jobs.Ledger {
	if a.store == nil {
		return nil
	}
	return a.store
}

// credentials 返回 bearer token 与 api key，未登录时返回 NOT_AUTHENTICATED
func (a *app) credentials(ctx context.Context) (string, string, error) {
	if _, err := a.session.Credentials(ctx, a.apiKey); err != nil {
		return "", "", err
	}
	t, _ := a.session.Token()
	return t.Token, a.apiKey, nil
}

func (a *app) close() {
	if a.logger == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.metricsSrv != nil {
		_ = a.metricsSrv.Shutdown(ctx)
	}
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
	if err := a.otel.Shutdown(ctx); err != nil {
		a.logger.Warn("telemetry shutdown failed", zap.Error(err))
	}
	_ = a.logger.Sync()
}
