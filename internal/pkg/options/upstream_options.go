/*
UpstreamOptions 配置被测上游 API 的访问参数：
基础地址、请求超时、客户端限速，以及可选的端点配置文件。
端点配置文件不存在时使用内置端点表。
*/
package options

import (
	"net/url"
	"time"

	"github.com/spf13/pflag"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/tenancykit/dps-probe/internal/pkg/code"
)

type UpstreamOptions struct {
	BaseURL            string        `json:"base-url"             mapstructure:"base-url"`
	RequestTimeout     time.Duration `json:"request-timeout"      mapstructure:"request-timeout"`
	RateLimitQPS       float64       `json:"rate-limit-qps"       mapstructure:"rate-limit-qps"`
	RateLimitBurst     int           `json:"rate-limit-burst"     mapstructure:"rate-limit-burst"`
	EndpointConfigFile string        `json:"endpoint-config-file" mapstructure:"endpoint-config-file"`
}

func NewUpstreamOptions() *UpstreamOptions {
	return &UpstreamOptions{
		BaseURL:        "",
		RequestTimeout: 30 * time.Second,
		RateLimitQPS:   10,
		RateLimitBurst: 20,
	}
}

func (u *UpstreamOptions) Complete() {
	if u.RequestTimeout <= 0 {
		u.RequestTimeout = 30 * time.Second
	}
	if u.RateLimitQPS <= 0 {
		u.RateLimitQPS = 10
	}
	if u.RateLimitBurst <= 0 {
		u.RateLimitBurst = 20
	}
}

func (u *UpstreamOptions) Validate() []error {
	var errs []error
	if u.BaseURL == "" {
		errs = append(errs, errors.WithCode(code.ErrValidation, "upstream.base-url 不能为空"))
	} else if parsed, err := url.Parse(u.BaseURL); err != nil ||
		(parsed.Scheme != "http" && parsed.Scheme != "https") {
		errs = append(errs, errors.WithCode(code.ErrValidation,
			"upstream.base-url 必须是合法的 http/https 地址，当前为 %q", u.BaseURL))
	}
	if u.RequestTimeout <= 0 {
		errs = append(errs, errors.WithCode(code.ErrValidation, "upstream.request-timeout 必须为正值"))
	}
	return errs
}

func (u *UpstreamOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&u.BaseURL, "upstream.base-url", u.BaseURL,
		"被测上游 API 的基础地址，例如 https://sandbox.example.com。")
	fs.DurationVar(&u.RequestTimeout, "upstream.request-timeout", u.RequestTimeout,
		"单次上游请求的传输超时。")
	fs.Float64Var(&u.RateLimitQPS, "upstream.rate-limit-qps", u.RateLimitQPS,
		"向上游发起请求的每秒速率上限。")
	fs.IntVar(&u.RateLimitBurst, "upstream.rate-limit-burst", u.RateLimitBurst,
		"上游请求限速的突发容量。")
	fs.StringVar(&u.EndpointConfigFile, "upstream.endpoint-config-file", u.EndpointConfigFile,
		"端点配置 JSON 文件路径，留空使用内置端点表。")
}
