/*
VerificationOptions 配置数据面事后核验：
查询接口地址、Bearer 令牌与默认等待时延。
未配置查询地址时核验整体停用，执行结果不受影响。
*/
package options

import (
	"net/url"
	"time"

	"github.com/spf13/pflag"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/tenancykit/dps-probe/internal/pkg/code"
)

type VerificationOptions struct {
	Enabled      bool          `json:"enabled"       mapstructure:"enabled"`
	QueryURL     string        `json:"query-url"     mapstructure:"query-url"`
	BearerToken  string        `json:"bearer-token"  mapstructure:"bearer-token"`
	DefaultDelay time.Duration `json:"default-delay" mapstructure:"default-delay"`
	QueryTimeout time.Duration `json:"query-timeout" mapstructure:"query-timeout"`
}

func NewVerificationOptions() *VerificationOptions {
	return &VerificationOptions{
		Enabled:      true,
		DefaultDelay: 2 * time.Second,
		QueryTimeout: 30 * time.Second,
	}
}

func (v *VerificationOptions) Complete() {
	if v.DefaultDelay <= 0 {
		v.DefaultDelay = 2 * time.Second
	}
	if v.QueryTimeout <= 0 {
		v.QueryTimeout = 30 * time.Second
	}
}

func (v *VerificationOptions) Validate() []error {
	var errs []error
	if v.QueryURL != "" {
		if parsed, err := url.Parse(v.QueryURL); err != nil ||
			(parsed.Scheme != "http" && parsed.Scheme != "https") {
			errs = append(errs, errors.WithCode(code.ErrValidation,
				"verification.query-url 必须是合法的 http/https 地址，当前为 %q", v.QueryURL))
		}
	}
	if v.DefaultDelay < 0 {
		errs = append(errs, errors.WithCode(code.ErrValidation,
			"verification.default-delay 不能为负值"))
	}
	return errs
}

func (v *VerificationOptions) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&v.Enabled, "verification.enabled", v.Enabled,
		"是否在执行通过后自动触发数据面核验。")
	fs.StringVar(&v.QueryURL, "verification.query-url", v.QueryURL,
		"数据面查询接口地址，留空则停用核验。")
	fs.StringVar(&v.BearerToken, "verification.bearer-token", v.BearerToken,
		"数据面查询使用的 Bearer 令牌。")
	fs.DurationVar(&v.DefaultDelay, "verification.default-delay", v.DefaultDelay,
		"发起核验查询前的默认等待时间，给上游留出落库窗口。")
	fs.DurationVar(&v.QueryTimeout, "verification.query-timeout", v.QueryTimeout,
		"单次数据面查询的传输超时。")
}
