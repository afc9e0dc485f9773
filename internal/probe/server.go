package probe

import (
	"github.com/go-redis/redis/v8"
	"golang.org/x/time/rate"

	"github.com/tenancykit/dps-probe/internal/pkg/server"
	"github.com/tenancykit/dps-probe/internal/probe/config"
	"github.com/tenancykit/dps-probe/internal/probe/pipeline"
	srvv1 "github.com/tenancykit/dps-probe/internal/probe/service/v1"
	"github.com/tenancykit/dps-probe/internal/probe/verification"
	"github.com/tenancykit/dps-probe/pkg/log"
)

type probeServer struct {
	genericAPIServer *server.GenericAPIServer
	service          srvv1.Service
	cfg              *config.Config
}

type preparedProbeServer struct {
	*probeServer
}

func (p *probeServer) PrepareRun() preparedProbeServer {
	initRouter(p.genericAPIServer.Engine, p.service, p.cfg)
	return preparedProbeServer{p}
}

func (p preparedProbeServer) Run() error {
	return p.genericAPIServer.Run()
}

func createProbeServer(cfg *config.Config) (*probeServer, error) {
	svc, err := buildService(cfg)
	if err != nil {
		return nil, err
	}

	genericConfig, err := buildGenericConfig(cfg)
	if err != nil {
		return nil, err
	}
	genericAPIServer, err := genericConfig.Complete().New()
	if err != nil {
		return nil, err
	}

	return &probeServer{
		genericAPIServer: genericAPIServer,
		service:          svc,
		cfg:              cfg,
	}, nil
}

// buildService 组装执行管道与核验引擎：
// 端点表 → 令牌缓存 → 授权器 → 限速执行器 → 运行器 → 核验引擎。
func buildService(cfg *config.Config) (srvv1.Service, error) {
	configs, err := pipeline.LoadEndpointConfigs(cfg.Upstream.EndpointConfigFile)
	if err != nil {
		return nil, err
	}
	table := pipeline.NewEndpointTable(configs)

	var cache pipeline.TokenCache = pipeline.NoopTokenCache{}
	if cfg.Redis.EnableTokenCache {
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:      cfg.Redis.Addrs,
			Username:   cfg.Redis.Username,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.Database,
			MasterName: cfg.Redis.MasterName,
		})
		cache = pipeline.NewRedisTokenCache(client, cfg.Redis.TokenCacheTTL)
		log.Infow("OAuth2 令牌缓存已启用", "addrs", cfg.Redis.Addrs, "ttl", cfg.Redis.TokenCacheTTL)
	}

	authorizer := pipeline.NewAuthorizer(cfg.Upstream.BaseURL, cfg.Upstream.RequestTimeout, cache)
	limiter := rate.NewLimiter(rate.Limit(cfg.Upstream.RateLimitQPS), cfg.Upstream.RateLimitBurst)
	executor := pipeline.NewRequestExecutor(cfg.Upstream.BaseURL, cfg.Upstream.RequestTimeout, authorizer, limiter)
	runner := pipeline.NewTestRunner(executor, table)

	dataplane := verification.NewDataPlaneClient(
		cfg.Verification.QueryURL, cfg.Verification.BearerToken, cfg.Verification.QueryTimeout)
	engine := verification.NewEngine(
		verification.NewRegistry(verification.DefaultRules()...), dataplane, cfg.Verification.DefaultDelay)

	if !dataplane.Configured() {
		log.Warnw("数据面查询地址未配置，事后核验停用")
	}

	return srvv1.NewService(runner, engine, table, cfg.Verification.Enabled), nil
}

func buildGenericConfig(cfg *config.Config) (genericConfig *server.Config, lastErr error) {
	genericConfig = server.NewConfig()
	if lastErr = cfg.GenericServerRunOptions.ApplyTo(genericConfig); lastErr != nil {
		return
	}
	if lastErr = cfg.InsecureServing.ApplyTo(genericConfig); lastErr != nil {
		return
	}
	return
}
