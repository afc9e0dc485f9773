package probe

import (
	"github.com/tenancykit/dps-probe/internal/probe/config"
)

// Run 按最终配置创建探针服务并阻塞运行，直到进程收到终止信号。
func Run(cfg *config.Config) error {
	server, err := createProbeServer(cfg)
	if err != nil {
		return err
	}
	return server.PrepareRun().Run()
}
