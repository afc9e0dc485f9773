package execution

import (
	"github.com/gin-gonic/gin"

	"github.com/tenancykit/dps-probe/internal/pkg/core"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/tenancykit/dps-probe/internal/pkg/code"
	srvv1 "github.com/tenancykit/dps-probe/internal/probe/service/v1"
	"github.com/tenancykit/dps-probe/pkg/log"
)

// Run 执行一条测试定义并返回完整结果。
// 执行结果本身总是 200：passed/failed/error 是业务判定，不映射 HTTP 状态码。
func (e *ExecutionController) Run(c *gin.Context) {
	var req srvv1.ExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		core.WriteResponse(c, errors.WithCode(code.ErrBind, "执行请求绑定失败: %v", err), nil)
		return
	}
	if err := validateCredential(&req.Credential); err != nil {
		core.WriteResponse(c, err, nil)
		return
	}

	log.L(c).Infow("收到执行请求",
		"endpoint", req.Definition.Endpoint,
		"method", req.Definition.Method,
		"authType", req.Credential.AuthType,
		"expectedStatus", req.Definition.ExpectedStatus,
	)

	ctx, cancel := e.requestContext(c)
	defer cancel()

	outcome := e.srv.Executions().Run(ctx, &req)
	log.L(c).Infow("执行完成",
		"executionId", outcome.Execution.ID,
		"status", outcome.Execution.Status,
		"statusCode", outcome.Execution.StatusCode,
		"responseTimeMs", outcome.Execution.ResponseTimeMs,
	)
	core.WriteResponse(c, nil, outcome)
}
