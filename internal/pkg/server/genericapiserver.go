/*
server 包实现基于 Gin 的通用 API 服务器：
安装基础与可选中间件，注册健康检查（/healthz）、版本查询（/version）、
Prometheus 指标（/metrics）与 pprof 性能分析接口，
通过 errgroup 管理服务协程并支持优雅关闭。
*/
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"

	"github.com/tenancykit/dps-probe/internal/pkg/core"
	"github.com/maxiaolu1981/cretem/nexuscore/component-base/version"

	"github.com/tenancykit/dps-probe/internal/pkg/middleware"
	"github.com/tenancykit/dps-probe/pkg/log"
)

type GenericAPIServer struct {
	middlewares []string

	insecureServingInfo *InsecureServingInfo

	*gin.Engine
	healthz         bool
	enableMetrics   bool
	enableProfiling bool

	insecureServer *http.Server
}

func initGenericAPIServer(s *GenericAPIServer) error {
	s.Setup()
	s.InstallMiddlewares()
	s.InstallAPIs()
	return nil
}

// Setup 配置 Gin 引擎的基础参数
func (s *GenericAPIServer) Setup() {
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
		log.Infof("%-6s %-s --> %s (%d handlers)", httpMethod, absolutePath, handlerName, nuHandlers)
	}
}

// InstallMiddlewares 安装基础中间件和按名称启用的可选中间件
func (s *GenericAPIServer) InstallMiddlewares() {
	s.Use(middleware.RequestID())
	s.Use(middleware.Context())

	for _, m := range s.middlewares {
		mw, ok := middleware.Middlewares[m]
		if !ok {
			log.Warnf("未找到中间件: %s", m)
			continue
		}
		log.Infof("安装中间件: %s", m)
		s.Use(mw)
	}
}

// InstallAPIs 注册通用接口：健康检查、指标、pprof、版本
func (s *GenericAPIServer) InstallAPIs() {
	if s.healthz {
		s.GET("/healthz", func(c *gin.Context) {
			core.WriteResponse(c, nil, map[string]string{"status": "ok"})
		})
	}

	if s.enableMetrics {
		prometheus := ginprometheus.NewPrometheus("gin")
		prometheus.Use(s.Engine)
	}

	if s.enableProfiling {
		pprof.Register(s.Engine)
	}

	s.GET("/version", func(c *gin.Context) {
		core.WriteResponse(c, nil, version.Get())
	})
}

func (s *GenericAPIServer) address() string {
	return net.JoinHostPort(s.insecureServingInfo.BindAddress,
		strconv.Itoa(s.insecureServingInfo.BindPort))
}

// Run 启动 HTTP 服务器并阻塞，直到服务终止
func (s *GenericAPIServer) Run() error {
	s.insecureServer = &http.Server{
		Addr:           s.address(),
		Handler:        s,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	var eg errgroup.Group
	eg.Go(func() error {
		log.Infof("开始监听 HTTP 请求，地址: %s", s.address())
		if err := s.insecureServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		log.Infof("HTTP 服务器已停止，地址: %s", s.address())
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if s.healthz {
		if err := s.ping(ctx); err != nil {
			return err
		}
	}

	return eg.Wait()
}

// Close 优雅关闭服务器，等待在途请求完成
func (s *GenericAPIServer) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.insecureServer != nil {
		if err := s.insecureServer.Shutdown(ctx); err != nil {
			log.Warnf("关闭 HTTP 服务器失败: %s", err.Error())
		}
	}
}

// ping 轮询 /healthz 直到服务器就绪或超时
func (s *GenericAPIServer) ping(ctx context.Context) error {
	url := fmt.Sprintf("http://%s/healthz", s.address())
	if s.insecureServingInfo.BindAddress == "0.0.0.0" {
		url = fmt.Sprintf("http://127.0.0.1:%d/healthz", s.insecureServingInfo.BindPort)
	}

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := http.DefaultClient.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			log.Info("路由部署成功")
			resp.Body.Close()
			return nil
		}
		if resp != nil {
			resp.Body.Close()
		}

		log.Info("等待路由部署完成...")
		time.Sleep(1 * time.Second)

		select {
		case <-ctx.Done():
			return fmt.Errorf("在指定的时间内无法ping通http服务器")
		default:
		}
	}
}
