package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/tenancykit/dps-probe/internal/pkg/code"
	"github.com/tenancykit/dps-probe/internal/pkg/metrics"
	"github.com/tenancykit/dps-probe/pkg/log"
)

const (
	// ApexRestBasePath 上游 Apex REST 接口的固定基础路径
	ApexRestBasePath = "/services/apexrest/"
	// AuthoriseEndpoint 一次性授权接口，本身不参与 OAuth2 端点改写
	AuthoriseEndpoint = ApexRestBasePath + "authorise"

	// AuthCodeHeader 授权码只走这个专用请求头，不放查询串也不放请求体
	AuthCodeHeader = "auth_code"

	// DefaultRequestTimeout 所有上游调用统一的传输超时
	DefaultRequestTimeout = 30 * time.Second
)

// Authorizer 负责 OAuth2 的一次性上游授权调用。
// 每次 Authorize 都是一次真实的网络往返：cache 默认是 NoopTokenCache，
// 结构上存在但永远未命中，这是刻意保留的"不缓存"策略。
type Authorizer struct {
	baseURL string
	client  *http.Client
	cache   TokenCache
}

func NewAuthorizer(baseURL string, timeout time.Duration, cache TokenCache) *Authorizer {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	if cache == nil {
		cache = NoopTokenCache{}
	}
	return &Authorizer{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		cache:   cache,
	}
}

// authoriseResponse 授权接口的响应体
type authoriseResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Authorize 执行上游授权并返回可用的访问令牌。
// 上游签发的是与分支无关的模板令牌，第三段是占位符"0"，
// 必须替换成真实分支号后令牌才可用。
func (a *Authorizer) Authorize(ctx context.Context, cred *Credential) (string, error) {
	key := credentialCacheKey(cred)
	if token, ok := a.cache.Get(ctx, key); ok {
		log.L(ctx).Debugf("令牌缓存命中: %s", key)
		return token, nil
	}

	prefix := ResolveSchemePrefix(cred.RegionScheme)
	authCode := OAuth2AuthCode(prefix, cred.ClientID, cred.ClientSecret, cred.MemberID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+AuthoriseEndpoint, nil)
	if err != nil {
		metrics.RecordAuthorizationFailure("build_request")
		return "", errors.WrapC(err, code.ErrAuthorization, "构造授权请求失败")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(AuthCodeHeader, authCode)

	resp, err := a.client.Do(req)
	if err != nil {
		metrics.RecordAuthorizationFailure("transport")
		return "", errors.WrapC(err, code.ErrAuthorization, "授权请求未收到响应")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordAuthorizationFailure("read_response")
		return "", errors.WrapC(err, code.ErrAuthorization, "读取授权响应失败")
	}

	var body authoriseResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			metrics.RecordAuthorizationFailure("malformed_response")
			return "", errors.WithCode(code.ErrAuthorization, "授权响应不是合法JSON: %s", string(raw))
		}
	}

	if resp.StatusCode != http.StatusOK || !body.Success {
		metrics.RecordAuthorizationFailure("rejected")
		message := body.Message
		if message == "" {
			message = string(raw)
		}
		return "", errors.WithCode(code.ErrAuthorization, "%s", message)
	}

	token := SubstituteBranch(body.Token, cred.BranchID)
	a.cache.Set(ctx, key, token)
	return token, nil
}

// SubstituteBranch 把模板令牌第三段的占位符"0"替换成去掉首尾空白的
// 真实分支号。第三段不是字面"0"时原样保留。
func SubstituteBranch(token, branchID string) string {
	parts := strings.Split(token, "-")
	if len(parts) > 2 && parts[2] == "0" {
		parts[2] = strings.TrimSpace(branchID)
	}
	return strings.Join(parts, "-")
}
