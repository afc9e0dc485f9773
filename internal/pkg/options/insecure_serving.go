/*
InsecureServingOptions 配置未加密、未认证的 HTTP 监听端口。
默认只绑定 127.0.0.1:8080，生产部署应由前置代理做 TLS 终结。
*/
package options

import (
	"net"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/tenancykit/dps-probe/internal/pkg/code"
	"github.com/tenancykit/dps-probe/internal/pkg/server"
)

type InsecureServingOptions struct {
	BindAddress string `json:"bind-address" mapstructure:"bind-address"`
	BindPort    int    `json:"bind-port"    mapstructure:"bind-port"`
}

func NewInsecureServingOptions() *InsecureServingOptions {
	return &InsecureServingOptions{
		BindAddress: "127.0.0.1",
		BindPort:    8080,
	}
}

func (i *InsecureServingOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&i.BindAddress, "insecure.bind-address", i.BindAddress,
		"监听 --insecure.bind-port 的 IP 地址（0.0.0.0 监听所有 IPv4 接口，:: 监听所有 IPv6 接口）。")
	fs.IntVar(&i.BindPort, "insecure.bind-port", i.BindPort,
		"提供未加密、未认证访问的端口，设为 0 可禁用。")
}

func (i *InsecureServingOptions) Validate() []error {
	var errs []error
	if i.BindAddress == "" {
		errs = append(errs, errors.WithCode(code.ErrValidation, "绑定的地址不能为空"))
	} else if net.ParseIP(i.BindAddress) == nil {
		errs = append(errs, errors.WithCode(code.ErrValidation, "无效的 IP 地址 %s", i.BindAddress))
	}
	if i.BindPort < 0 || i.BindPort > 65535 {
		errs = append(errs, errors.WithCode(code.ErrValidation, "端口必须在 0-65535 之间"))
	}
	if len(errs) == 0 && i.BindPort != 0 {
		address := net.JoinHostPort(i.BindAddress, strconv.Itoa(i.BindPort))
		if _, err := net.ResolveTCPAddr("tcp", address); err != nil {
			errs = append(errs, errors.WithCode(code.ErrValidation, "地址+端口组合无效: %v", err))
		}
	}
	return errs
}

func (i *InsecureServingOptions) ApplyTo(c *server.Config) error {
	c.InsecureServingInfo = &server.InsecureServingInfo{
		BindAddress: i.BindAddress,
		BindPort:    i.BindPort,
	}
	return nil
}
