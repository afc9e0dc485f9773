/*
包 execution 是探针对外 REST 接口的控制层：
接收执行/核验请求，完成参数绑定与校验，然后把请求交给业务层。
控制层不包含任何管道逻辑，错误统一走 code 包的业务码。
*/
package execution

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/tenancykit/dps-probe/internal/pkg/code"
	"github.com/tenancykit/dps-probe/internal/probe/pipeline"
	srvv1 "github.com/tenancykit/dps-probe/internal/probe/service/v1"
)

type ExecutionController struct {
	srv        srvv1.Service
	ctxTimeout time.Duration
}

func NewExecutionController(srv srvv1.Service, ctxTimeout time.Duration) *ExecutionController {
	if ctxTimeout <= 0 {
		ctxTimeout = 30 * time.Second
	}
	return &ExecutionController{srv: srv, ctxTimeout: ctxTimeout}
}

// requestContext 给下游调用补上超时，避免上游挂死拖垮处理协程
func (e *ExecutionController) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	ctx := c.Request.Context()
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.ctxTimeout)
}

// validateCredential 按鉴权分支做跨字段校验，binding 标签管不到这部分
func validateCredential(cred *pipeline.Credential) error {
	switch cred.AuthType {
	case pipeline.AuthTypeAPIKey:
		if cred.APIKey == "" {
			return errors.WithCode(code.ErrValidation, "apikey 鉴权必须提供 apiKey")
		}
	case pipeline.AuthTypeOAuth2:
		if cred.ClientID == "" || cred.ClientSecret == "" {
			return errors.WithCode(code.ErrValidation, "oauth2 鉴权必须提供 clientId 和 clientSecret")
		}
	default:
		return errors.WithCode(code.ErrValidation, "不支持的鉴权方式 %q", cred.AuthType)
	}
	return nil
}
