// 程序入口：仅负责读取配置、初始化依赖并启动服务；路由注册在 internal/api 以便扩展
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wilayah/internal/api"
	"wilayah/internal/config"
	"wilayah/internal/dataset"
	"wilayah/internal/logger"
	"wilayah/internal/metrics"
	"wilayah/internal/middleware"
	"wilayah/internal/region"
	"wilayah/internal/utils"
)

func main() {
	cfg := config.Load()
	// 日志初始化
	l := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	l.Debug("log_init_ok")
	l.Debug("config_api_base", "base", cfg.APIBase)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := dataset.Open(ctx, cfg.DatasetSource, cfg.DatasetTimeout)
	if err != nil {
		// 背景：来源无法构造时仍启动服务，页面与接口以加载失败状态响应
		l.Error("dataset_source_error", "err", err)
	}

	if provider != nil && cfg.RedisEnable {
		rc := utils.OpenRedisFromEnv()
		if err := rc.Ping(ctx).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
			provider = &dataset.CachedProvider{
				Inner: provider,
				Cache: dataset.NewRedisCache(rc),
				Key:   dataset.CacheKey(cfg.DatasetSource),
				TTL:   cfg.DatasetCacheTTL,
			}
		}
		defer rc.Close()
	} else {
		l.Info("redis_disabled")
	}

	// 文档注释：数据集加载
	// 背景：服务先启动再后台加载，加载期间页面显示等待页、接口返回 503；首次失败为终止状态。
	holder := dataset.NewHolder()
	if provider == nil {
		_ = holder.Load(ctx, failedProvider{err: err})
	} else {
		go func() {
			lctx, cancel := ctx, context.CancelFunc(func() {})
			if cfg.DatasetTimeout > 0 {
				lctx, cancel = context.WithTimeout(ctx, cfg.DatasetTimeout)
			}
			defer cancel()
			if err := holder.Load(lctx, provider); err == nil {
				holder.StartRefresh(ctx, provider, cfg.DatasetRefresh, cfg.DatasetTimeout)
			}
		}()
	}

	mux := http.NewServeMux()
	apiMux := api.BuildRoutes(holder, cfg.RootLabel)
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, apiMux))
	mux.Handle(cfg.APIBase+"/metrics", metrics.Handler())
	mux.Handle("/", api.BuildPage(holder, cfg.RootLabel))

	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.RateLimit(cfg.RateLimitEnabled, cfg.RateLimitQPS)(handler)
	al := middleware.NewAllowlist(l, cfg.OriginAllowIPs, cfg.OriginAllowCIDRs, cfg.OriginAllowLocal, cfg.OriginRealIPHeader)
	handler = al.Wrap(cfg.OriginDefenseEnable)(handler)
	s := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(sctx)
	}()

	l.Info("listening", "addr", cfg.Addr, "source_kind", kindOf(provider))
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("listen_error", "err", err)
		os.Exit(1)
	}
	l.Info("shutdown_ok")
}

// failedProvider 把来源构造错误转为一次失败的加载，让持有器进入 failed 状态
type failedProvider struct{ err error }

func (p failedProvider) Kind() string { return "invalid" }

func (p failedProvider) Load(context.Context) (*region.Dataset, error) { return nil, p.err }

func kindOf(p dataset.Provider) string {
	if p == nil {
		return "invalid"
	}
	return p.Kind()
}
