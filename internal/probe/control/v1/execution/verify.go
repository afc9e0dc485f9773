package execution

import (
	"github.com/gin-gonic/gin"

	"github.com/tenancykit/dps-probe/internal/pkg/core"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/tenancykit/dps-probe/internal/pkg/code"
	srvv1 "github.com/tenancykit/dps-probe/internal/probe/service/v1"
	"github.com/tenancykit/dps-probe/pkg/log"
)

// Verify 对一次历史执行做独立的数据面核验。
// 核验失败同样以 200 返回，失败原因在结果的 error 字段里。
func (e *ExecutionController) Verify(c *gin.Context) {
	var req srvv1.VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		core.WriteResponse(c, errors.WithCode(code.ErrBind, "核验请求绑定失败: %v", err), nil)
		return
	}

	log.L(c).Infow("收到核验请求", "endpoint", req.Endpoint)

	ctx, cancel := e.requestContext(c)
	defer cancel()

	result := e.srv.Executions().Verify(ctx, &req)
	core.WriteResponse(c, nil, result)
}
