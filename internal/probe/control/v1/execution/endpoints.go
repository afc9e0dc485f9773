package execution

import (
	"github.com/gin-gonic/gin"

	"github.com/tenancykit/dps-probe/internal/pkg/core"
)

// ListEndpointConfigs 返回当前生效的端点配置表，便于排查别名改写行为。
func (e *ExecutionController) ListEndpointConfigs(c *gin.Context) {
	core.WriteResponse(c, nil, e.srv.Executions().EndpointConfigs())
}
