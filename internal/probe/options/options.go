/*
包 options 汇聚探针服务的全部配置分组：
HTTP 服务、监听端口、上游 API、数据面核验、Redis 与日志。
分组通过 NamedFlagSets 暴露给命令行，配置文件按 mapstructure 标签映射。
*/
package options

import (
	flag "github.com/maxiaolu1981/cretem/nexuscore/component-base/cli/flag"

	genericoptions "github.com/tenancykit/dps-probe/internal/pkg/options"
	"github.com/tenancykit/dps-probe/pkg/log"
)

type Options struct {
	GenericServerRunOptions *genericoptions.ServerRunOptions       `json:"server"       mapstructure:"server"`
	InsecureServing         *genericoptions.InsecureServingOptions `json:"insecure"     mapstructure:"insecure"`
	Upstream                *genericoptions.UpstreamOptions        `json:"upstream"     mapstructure:"upstream"`
	Verification            *genericoptions.VerificationOptions    `json:"verification" mapstructure:"verification"`
	Redis                   *genericoptions.RedisOptions           `json:"redis"        mapstructure:"redis"`
	Log                     *log.Options                           `json:"log"          mapstructure:"log"`
}

func NewOptions() *Options {
	return &Options{
		GenericServerRunOptions: genericoptions.NewServerRunOptions(),
		InsecureServing:         genericoptions.NewInsecureServingOptions(),
		Upstream:                genericoptions.NewUpstreamOptions(),
		Verification:            genericoptions.NewVerificationOptions(),
		Redis:                   genericoptions.NewRedisOptions(),
		Log:                     log.NewOptions(),
	}
}

func (o *Options) Flags() (fss flag.NamedFlagSets) {
	o.GenericServerRunOptions.AddFlags(fss.FlagSet("server"))
	o.InsecureServing.AddFlags(fss.FlagSet("insecure"))
	o.Upstream.AddFlags(fss.FlagSet("upstream"))
	o.Verification.AddFlags(fss.FlagSet("verification"))
	o.Redis.AddFlags(fss.FlagSet("redis"))
	o.Log.AddFlags(fss.FlagSet("logs"))
	return
}

func (o *Options) Complete() error {
	o.GenericServerRunOptions.Complete()
	o.Upstream.Complete()
	o.Verification.Complete()
	o.Redis.Complete()
	return nil
}

func (o *Options) Validate() []error {
	var errs []error
	errs = append(errs, o.GenericServerRunOptions.Validate()...)
	errs = append(errs, o.InsecureServing.Validate()...)
	errs = append(errs, o.Upstream.Validate()...)
	errs = append(errs, o.Verification.Validate()...)
	errs = append(errs, o.Redis.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return errs
}
