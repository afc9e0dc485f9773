/*
包 probe 是探针服务的主入口，负责创建命令行应用、装配依赖并启动 HTTP 服务。
流程：解析命令行参数 → 补全并校验配置 → 组装执行管道与核验引擎 → 启动服务。
*/
package probe

import (
	"github.com/tenancykit/dps-probe/internal/probe/config"
	"github.com/tenancykit/dps-probe/internal/probe/options"
	"github.com/tenancykit/dps-probe/pkg/app"
	"github.com/tenancykit/dps-probe/pkg/log"
)

const commandDesc = `dps-probe 针对第三方押金保护平台的 REST API 执行声明式测试：
按凭据构造鉴权令牌（API key 或 OAuth2 一次性授权），发送请求，
对响应做状态码与字段级断言，并可在执行通过后查询数据面核验落库结果。`

func NewApp(basename string) *app.App {
	opts := options.NewOptions()
	application, _ := app.NewApp(basename, "deposit protection api probe",
		app.WithOptions(opts),
		app.WithDefaultValidArgs(),
		app.WithDescription(commandDesc),
		app.WithRunFunc(run(opts)),
	)
	return application
}

func run(opts *options.Options) app.Runfunc {
	return func(basename string) error {
		log.Init(opts.Log)
		defer log.Flush()

		cfg, err := config.CreateConfigFromOptions(opts)
		if err != nil {
			return err
		}
		return Run(cfg)
	}
}
