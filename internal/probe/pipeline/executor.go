package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tenancykit/dps-probe/internal/pkg/code"
	"github.com/tenancykit/dps-probe/internal/pkg/metrics"
	"github.com/tenancykit/dps-probe/pkg/log"
)

const (
	// AccessTokenHeader 访问令牌的专用请求头
	AccessTokenHeader = "AccessToken"

	contentTypeJSON = "application/json"
)

// RequestExecutor 对任意方法发起带鉴权的上游调用并归一化结果。
// apikey 同步拼令牌；oauth2 在每一次调用前都重新授权（不缓存策略）。
// limiter 可选，用于对被测系统做客户端限速。
type RequestExecutor struct {
	baseURL    string
	client     *http.Client
	authorizer *Authorizer
	limiter    *rate.Limiter
}

func NewRequestExecutor(baseURL string, timeout time.Duration, authorizer *Authorizer, limiter *rate.Limiter) *RequestExecutor {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &RequestExecutor{
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{Timeout: timeout},
		authorizer: authorizer,
		limiter:    limiter,
	}
}

// transportFailure 没有拿到任何响应时的归一化信封，statusCode 固定为 0
func transportFailure(errCode int, message string) *Envelope {
	return &Envelope{
		Success:    false,
		StatusCode: 0,
		Error: &UpstreamError{
			Code:    errCode,
			Message: message,
		},
	}
}

// Execute 发出一次带鉴权的请求。endpoint 是已经过 alias 改写（或原样）的
// 路径；omitAuthHeader 为 true 表示凭据已内嵌在 URL 中，整个省略
// AccessToken 请求头。任何收到的 HTTP 响应（包括错误状态码）都会带着
// 原样的响应体返回，诊断信息不做裁剪。
func (e *RequestExecutor) Execute(ctx context.Context, def *TestDefinition, cred *Credential, endpoint string, omitAuthHeader bool) *Envelope {
	token := ""
	if !omitAuthHeader {
		switch cred.AuthType {
		case AuthTypeAPIKey:
			prefix := ResolveSchemePrefix(cred.RegionScheme)
			token = APIKeyToken(prefix, cred.MemberID, cred.BranchID, cred.APIKey)
		case AuthTypeOAuth2:
			// 每次调用都重新走授权，令牌绝不跨请求复用
			fresh, err := e.authorizer.Authorize(ctx, cred)
			if err != nil {
				log.L(ctx).Warnf("上游授权失败: %v", err)
				return transportFailure(code.ErrAuthorization, err.Error())
			}
			token = fresh
			endpoint = ForOAuth2(endpoint)
		}
	}

	var body io.Reader
	if len(def.Body) > 0 {
		body = bytes.NewReader(def.Body)
	}

	req, err := http.NewRequestWithContext(ctx, def.Method, e.baseURL+endpoint, body)
	if err != nil {
		return transportFailure(code.ErrTransport, err.Error())
	}

	req.Header.Set("Content-Type", contentTypeJSON)
	for k, v := range def.Headers {
		req.Header.Set(k, v)
	}
	if token != "" {
		req.Header.Set(AccessTokenHeader, token)
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return transportFailure(code.ErrTransport, err.Error())
		}
	}

	resp, err := e.client.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(0)
		return transportFailure(code.ErrTransport, err.Error())
	}
	defer resp.Body.Close()
	metrics.RecordUpstreamRequest(resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportFailure(code.ErrTransport, err.Error())
	}

	env := &Envelope{
		Success:    true,
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
	}
	if resp.StatusCode >= http.StatusBadRequest {
		env.Error = parseUpstreamError(resp.StatusCode, raw)
	}
	return env
}

// parseUpstreamError 保留上游错误体原文，同时尽力解析出 message 和
// errorCode 便于展示。解析失败不丢信息，原文始终在 Raw 里。
func parseUpstreamError(statusCode int, raw []byte) *UpstreamError {
	upstream := &UpstreamError{
		Code: code.ErrUpstreamHTTP,
		Raw:  json.RawMessage(raw),
	}
	var parsed struct {
		Message   string `json:"message"`
		ErrorCode string `json:"errorCode"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		upstream.Message = parsed.Message
		upstream.ErrorCode = parsed.ErrorCode
	}
	if upstream.Message == "" {
		upstream.Message = http.StatusText(statusCode)
	}
	return upstream
}
