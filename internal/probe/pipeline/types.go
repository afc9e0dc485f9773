/*
pipeline 包实现测试执行管道的核心：鉴权方式解析、令牌构造、端点改写、
请求执行、响应验证和整体执行编排。一次执行严格串行：
鉴权 -> 发送 -> 验证，管道内部不做任何并发扇出。
凭据和测试定义是只读输入，执行结果一经产生不再修改。
*/

package pipeline

import (
	"encoding/json"
	"net/http"
)

// AuthType 上游平台的鉴权方式
type AuthType string

const (
	// AuthTypeAPIKey 静态 API key，令牌由凭据字段确定性拼出
	AuthTypeAPIKey AuthType = "apikey"
	// AuthTypeOAuth2 每次请求前都重新走一遍授权接口换取令牌
	AuthTypeOAuth2 AuthType = "oauth2"
)

// Credential 访问上游平台的凭据。
// 按 AuthType 只取对应分支的字段，另一分支的字段即使填了也会被忽略。
type Credential struct {
	AuthType     AuthType     `json:"authType" binding:"required,oneof=apikey oauth2"`
	RegionScheme RegionScheme `json:"regionScheme" binding:"required"`
	MemberID     string       `json:"memberId" binding:"required"`
	BranchID     string       `json:"branchId" binding:"required"`

	// apikey 分支
	APIKey string `json:"apiKey,omitempty"`

	// oauth2 分支
	ClientID     string `json:"clientId,omitempty"`
	ClientSecret string `json:"clientSecret,omitempty"`
}

// TestDefinition 一次执行的不可变输入
type TestDefinition struct {
	Endpoint       string            `json:"endpoint" binding:"required"`
	Method         string            `json:"method" binding:"required,oneof=GET POST PUT PATCH DELETE"`
	Headers        map[string]string `json:"headers,omitempty"`
	Body           json.RawMessage   `json:"body,omitempty"`
	ExpectedStatus int               `json:"expectedStatus" binding:"required"`
	Validations    []ValidationRule  `json:"validations,omitempty"`
	UseAliasURL    bool              `json:"useAliasUrl,omitempty"`
}

// Condition 验证规则的比较条件
type Condition string

const (
	ConditionEquals      Condition = "equals"
	ConditionContains    Condition = "contains"
	ConditionExists      Condition = "exists"
	ConditionNotExists   Condition = "notExists"
	ConditionGreaterThan Condition = "greaterThan"
	ConditionLessThan    Condition = "lessThan"
)

// ValidationRule 对响应体的单条声明式断言，Field 是点分路径
type ValidationRule struct {
	Field     string      `json:"field" binding:"required"`
	Condition Condition   `json:"condition" binding:"required,oneof=equals contains exists notExists greaterThan lessThan"`
	Value     interface{} `json:"value,omitempty"`
}

// ValidationResult 单条规则的评估结果
type ValidationResult struct {
	Field     string      `json:"field"`
	Condition Condition   `json:"condition"`
	Expected  interface{} `json:"expected,omitempty"`
	Actual    interface{} `json:"actual"`
	Passed    bool        `json:"passed"`
	Message   string      `json:"message"`
}

// ExecutionStatus 执行的最终判定
type ExecutionStatus string

const (
	// StatusPassed 状态码匹配且所有验证规则通过
	StatusPassed ExecutionStatus = "passed"
	// StatusFailed 收到了响应，但状态码或验证规则不满足预期
	StatusFailed ExecutionStatus = "failed"
	// StatusError 管道自身失败：传输错误、授权失败或内部异常
	StatusError ExecutionStatus = "error"
)

// RequestSnapshot 实际发出的请求快照（令牌不落盘，只记录是否携带）
type RequestSnapshot struct {
	Method     string            `json:"method"`
	URL        string            `json:"url"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       json.RawMessage   `json:"body,omitempty"`
	AuthInURL  bool              `json:"authInUrl"`
	TokenInHdr bool              `json:"tokenInHeader"`
}

// ResponseSnapshot 响应快照
type ResponseSnapshot struct {
	StatusCode int             `json:"statusCode"`
	Headers    http.Header     `json:"headers,omitempty"`
	Body       json.RawMessage `json:"body,omitempty"`
}

// UpstreamError 上游错误的结构化表示。
// Raw 永远是上游响应体的原文，message/errorCode 只是便于展示的解析结果，
// 字段级校验明细等诊断信息不做任何裁剪。
type UpstreamError struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"errorCode,omitempty"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

// Envelope 请求执行的归一化结果。
// Success=false 仅表示没有拿到 HTTP 响应（传输失败或上游授权失败），
// 任何收到的 HTTP 响应（包括 4xx/5xx）都是 Success=true，
// 由上层拿状态码和响应体去做判定。
type Envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Headers    http.Header     `json:"headers,omitempty"`
	Body       json.RawMessage `json:"body,omitempty"`
	Error      *UpstreamError  `json:"error,omitempty"`
}

// ExecutionResult 一次测试执行的完整结果，创建后不可变
type ExecutionResult struct {
	ID                string             `json:"id"`
	Status            ExecutionStatus    `json:"status"`
	StatusCode        int                `json:"statusCode"`
	ResponseTimeMs    int64              `json:"responseTimeMs"`
	Message           string             `json:"message,omitempty"`
	Request           RequestSnapshot    `json:"request"`
	Response          ResponseSnapshot   `json:"response"`
	ValidationResults []ValidationResult `json:"validationResults,omitempty"`
	Error             *UpstreamError     `json:"error,omitempty"`
}
