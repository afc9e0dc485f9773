/*
包 options 提供探针服务各子系统的命令行/配置文件选项。

ServerRunOptions 管理 HTTP 服务自身的运行配置：
运行模式（debug/test/release）、健康检查开关、中间件列表、
pprof 与 metrics 开关、以及单请求上下文超时。
选项遵循 原始配置 → Complete() → Validate() → ApplyTo(target) 的流转。
*/
package options

import (
	"fmt"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/tenancykit/dps-probe/internal/pkg/code"
	"github.com/tenancykit/dps-probe/internal/pkg/server"
)

var middlewareNameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type ServerRunOptions struct {
	Mode            string        `json:"mode"             mapstructure:"mode"`
	Healthz         bool          `json:"healthz"          mapstructure:"healthz"`
	Middlewares     []string      `json:"middlewares"      mapstructure:"middlewares"`
	EnableProfiling bool          `json:"enable-profiling" mapstructure:"enable-profiling"`
	EnableMetrics   bool          `json:"enable-metrics"   mapstructure:"enable-metrics"`
	CtxTimeout      time.Duration `json:"ctx-timeout"      mapstructure:"ctx-timeout"`
}

func NewServerRunOptions() *ServerRunOptions {
	defaults := server.NewConfig()
	return &ServerRunOptions{
		Mode:            defaults.Mode,
		Healthz:         defaults.Healthz,
		Middlewares:     defaults.Middlewares,
		EnableProfiling: defaults.EnableProfiling,
		EnableMetrics:   defaults.EnableMetrics,
		CtxTimeout:      defaults.CtxTimeout,
	}
}

func (s *ServerRunOptions) Complete() {
	if s.Mode == "" {
		s.Mode = gin.ReleaseMode
	}
	if s.Middlewares == nil {
		s.Middlewares = []string{}
	}
	if s.CtxTimeout <= 0 {
		s.CtxTimeout = 30 * time.Second
	}
}

func (s *ServerRunOptions) Validate() []error {
	var errs []error
	switch s.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		errs = append(errs, errors.WithCode(code.ErrValidation,
			"server.mode 必须是 %s、%s 或 %s 之一，当前为 %q",
			gin.DebugMode, gin.ReleaseMode, gin.TestMode, s.Mode))
	}
	for _, m := range s.Middlewares {
		if !middlewareNameRe.MatchString(m) {
			errs = append(errs, errors.WithCode(code.ErrValidation,
				"非法的中间件名称 %q", m))
		}
	}
	if s.CtxTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.ctx-timeout 必须为正值"))
	}
	return errs
}

func (s *ServerRunOptions) ApplyTo(c *server.Config) error {
	c.Mode = s.Mode
	c.Healthz = s.Healthz
	c.Middlewares = s.Middlewares
	c.EnableProfiling = s.EnableProfiling
	c.EnableMetrics = s.EnableMetrics
	c.CtxTimeout = s.CtxTimeout
	return nil
}

func (s *ServerRunOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&s.Mode, "server.mode", s.Mode,
		"服务器运行模式，支持 debug、test、release。")
	fs.BoolVar(&s.Healthz, "server.healthz", s.Healthz,
		"是否安装 /healthz 健康检查路由。")
	fs.StringSliceVar(&s.Middlewares, "server.middlewares", s.Middlewares,
		"允许启用的 gin 中间件列表，逗号分隔，留空使用默认集合。")
	fs.BoolVar(&s.EnableProfiling, "server.enable-profiling", s.EnableProfiling,
		"是否在 debug 路由下暴露 pprof 剖析接口。")
	fs.BoolVar(&s.EnableMetrics, "server.enable-metrics", s.EnableMetrics,
		"是否暴露 /metrics Prometheus 指标接口。")
	fs.DurationVar(&s.CtxTimeout, "server.ctx-timeout", s.CtxTimeout,
		"单个请求的处理超时时间。")
}
