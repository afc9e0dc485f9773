package v1

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tenancykit/dps-probe/internal/pkg/metrics"
	"github.com/tenancykit/dps-probe/internal/probe/pipeline"
	"github.com/tenancykit/dps-probe/internal/probe/verification"
	"github.com/tenancykit/dps-probe/pkg/log"
)

// ExecutionRequest 一次测试执行的完整入参。
// Verify 缺省时沿用服务端的自动核验开关，显式给出时以请求为准。
type ExecutionRequest struct {
	Definition pipeline.TestDefinition `json:"definition" binding:"required"`
	Credential pipeline.Credential     `json:"credential" binding:"required"`
	Verify     *bool                   `json:"verify,omitempty"`
}

// VerificationRequest 对已有执行做单独核验的入参。
// RequestBody/ResponseBody 供提取器取标识（如响应里的 DAN）。
type VerificationRequest struct {
	Endpoint     string          `json:"endpoint" binding:"required"`
	RequestBody  json.RawMessage `json:"requestBody,omitempty"`
	ResponseBody json.RawMessage `json:"responseBody,omitempty"`
}

// ExecutionOutcome 执行结果，可能附带自动核验结果
type ExecutionOutcome struct {
	Execution    *pipeline.ExecutionResult `json:"execution"`
	Verification *verification.Result      `json:"verification,omitempty"`
}

// ExecutionSrv 测试执行与事后核验的业务能力
type ExecutionSrv interface {
	Run(ctx context.Context, req *ExecutionRequest) *ExecutionOutcome
	Verify(ctx context.Context, req *VerificationRequest) *verification.Result
	EndpointConfigs() []pipeline.EndpointConfig
}

type executionService struct {
	srv *service
}

var _ ExecutionSrv = (*executionService)(nil)

func newExecutions(srv *service) *executionService {
	return &executionService{srv: srv}
}

// Run 执行一次测试。核验是附加动作：只在执行判定为 passed、
// 自动核验开启且数据面就绪时追加，且核验的任何失败都不改写执行判定。
func (s *executionService) Run(ctx context.Context, req *ExecutionRequest) *ExecutionOutcome {
	exec := s.srv.runner.Run(ctx, &req.Definition, &req.Credential)
	metrics.RecordExecution(string(exec.Status), string(req.Credential.AuthType),
		time.Duration(exec.ResponseTimeMs)*time.Millisecond)

	outcome := &ExecutionOutcome{Execution: exec}
	if exec.Status != pipeline.StatusPassed {
		return outcome
	}
	wantVerify := s.srv.autoCheck
	if req.Verify != nil {
		wantVerify = *req.Verify
	}
	if !wantVerify || s.srv.engine == nil || !s.srv.engine.Configured() {
		return outcome
	}

	vr := s.srv.engine.Verify(ctx, req.Definition.Endpoint, req.Definition.Body, exec.Response.Body)
	recordVerification(vr)
	outcome.Verification = vr
	return outcome
}

// Verify 独立核验入口，不依赖刚刚发生过的执行。
func (s *executionService) Verify(ctx context.Context, req *VerificationRequest) *verification.Result {
	if s.srv.engine == nil || !s.srv.engine.Configured() {
		log.L(ctx).Warnf("核验未配置，端点 %s 的核验请求被拒绝", req.Endpoint)
		return &verification.Result{
			Success:   false,
			AllPassed: false,
			Error:     "verification data plane is not configured",
		}
	}
	vr := s.srv.engine.Verify(ctx, req.Endpoint, req.RequestBody, req.ResponseBody)
	recordVerification(vr)
	return vr
}

func (s *executionService) EndpointConfigs() []pipeline.EndpointConfig {
	return s.srv.table.Configs()
}

func recordVerification(vr *verification.Result) {
	switch {
	case vr.Error != "":
		metrics.RecordVerification("error")
	case vr.AllPassed:
		metrics.RecordVerification("success")
	default:
		metrics.RecordVerification("mismatch")
	}
}
