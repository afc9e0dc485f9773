package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tenancykit/dps-probe/internal/pkg/code"
	"github.com/tenancykit/dps-probe/pkg/log"
)

// TestRunner 把改写、鉴权、执行、验证编排成一次完整的测试执行。
// 状态机: Built -> Authenticated -> Executed -> (Validated) ->
// Completed(passed|failed) | Errored。任何一步未捕获的异常都在
// Run 的边界处收敛为 error 结果，绝不向调用方抛出。
type TestRunner struct {
	executor *RequestExecutor
	table    *EndpointTable
}

func NewTestRunner(executor *RequestExecutor, table *EndpointTable) *TestRunner {
	if table == nil {
		table = NewEndpointTable(DefaultEndpointConfigs())
	}
	return &TestRunner{executor: executor, table: table}
}

// Run 执行一次测试。返回值永远非 nil 且状态已判定。
func (r *TestRunner) Run(ctx context.Context, def *TestDefinition, cred *Credential) (result *ExecutionResult) {
	result = &ExecutionResult{
		ID:     uuid.NewString(),
		Status: StatusError,
	}

	defer func() {
		if p := recover(); p != nil {
			log.L(ctx).Errorf("执行管道异常: %v", p)
			result.Status = StatusError
			result.StatusCode = 0
			result.Message = fmt.Sprintf("execution pipeline panic: %v", p)
			result.Error = &UpstreamError{
				Code:    code.ErrExecutionInternal,
				Message: result.Message,
			}
		}
	}()

	// 1. 实际端点：alias 改写命中用 alias，否则用原始端点
	//    （路径参数由调用方在进管道前实化）
	endpoint := def.Endpoint
	authInURL := false
	if alias := r.table.ForAlias(def, cred); alias != nil {
		endpoint = alias.Endpoint
		authInURL = alias.AuthInURL
	}

	// 2~3. 鉴权并发送，耗时围着整个"鉴权+发送"计量，成败都记录
	start := time.Now()
	env := r.executor.Execute(ctx, def, cred, endpoint, authInURL)
	result.ResponseTimeMs = time.Since(start).Milliseconds()

	result.Request = RequestSnapshot{
		Method:     def.Method,
		URL:        endpoint,
		Headers:    def.Headers,
		Body:       def.Body,
		AuthInURL:  authInURL,
		TokenInHdr: !authInURL,
	}
	result.Response = ResponseSnapshot{
		StatusCode: env.StatusCode,
		Headers:    env.Headers,
		Body:       env.Body,
	}

	// 4. 信封自身失败（传输/上游授权）：error 结果，原样带回上游
	//    错误负载，不做任何验证
	if !env.Success {
		result.Status = StatusError
		result.StatusCode = env.StatusCode
		result.Error = env.Error
		if env.Error != nil {
			result.Message = env.Error.Message
		}
		return result
	}

	// 5. 状态码判定 + 规则验证，二者都过才算通过
	result.StatusCode = env.StatusCode
	statusMatches := env.StatusCode == def.ExpectedStatus
	result.ValidationResults = Validate(env.Body, def.Validations)

	if statusMatches && AllPassed(result.ValidationResults) {
		result.Status = StatusPassed
		return result
	}

	// 6. 状态码不匹配时给出固定话术，规则失败逐条体现在
	//    ValidationResults 里，不合并进这条消息
	result.Status = StatusFailed
	if !statusMatches {
		result.Message = fmt.Sprintf("Expected status code %d but got %d", def.ExpectedStatus, env.StatusCode)
	}
	if env.Error != nil {
		result.Error = env.Error
	}
	return result
}
