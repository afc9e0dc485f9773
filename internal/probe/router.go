package probe

import (
	"github.com/gin-gonic/gin"

	"github.com/tenancykit/dps-probe/internal/pkg/core"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/tenancykit/dps-probe/internal/pkg/code"
	"github.com/tenancykit/dps-probe/internal/probe/config"
	"github.com/tenancykit/dps-probe/internal/probe/control/v1/execution"
	srvv1 "github.com/tenancykit/dps-probe/internal/probe/service/v1"
)

func initRouter(g *gin.Engine, svc srvv1.Service, cfg *config.Config) {
	g.NoRoute(func(c *gin.Context) {
		core.WriteResponse(c, errors.WithCode(code.ErrPageNotFound, "page not found"), nil)
	})

	controller := execution.NewExecutionController(svc, cfg.GenericServerRunOptions.CtxTimeout)

	v1 := g.Group("/v1")
	{
		v1.POST("/executions", controller.Run)
		v1.POST("/verifications", controller.Verify)
		v1.GET("/endpoint-configs", controller.ListEndpointConfigs)
	}
}
