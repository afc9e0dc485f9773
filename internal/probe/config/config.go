package config

import "github.com/tenancykit/dps-probe/internal/probe/options"

// Config 是探针服务运行期的最终配置，直接内嵌补全后的选项。
type Config struct {
	*options.Options
}

func CreateConfigFromOptions(opts *options.Options) (*Config, error) {
	return &Config{opts}, nil
}
