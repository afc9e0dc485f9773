package verification

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maxiaolu1981/cretem/nexuscore/errors"

	"github.com/tenancykit/dps-probe/internal/pkg/code"
)

// QueryResult 数据面查询接口的响应
type QueryResult struct {
	TotalSize int               `json:"totalSize"`
	Records   []json.RawMessage `json:"records"`
}

// DataPlaneClient 独立数据面查询接口的客户端。
// Bearer 令牌鉴权，接收一条查询语言字符串，返回 totalSize 和记录列表。
type DataPlaneClient struct {
	queryURL    string
	bearerToken string
	client      *http.Client
}

func NewDataPlaneClient(queryURL, bearerToken string, timeout time.Duration) *DataPlaneClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DataPlaneClient{
		queryURL:    strings.TrimRight(queryURL, "/"),
		bearerToken: bearerToken,
		client:      &http.Client{Timeout: timeout},
	}
}

// Configured 验证凭据是否就绪。未配置时验证流程整体不触发。
func (c *DataPlaneClient) Configured() bool {
	return c != nil && c.queryURL != "" && c.bearerToken != ""
}

// Query 执行一次数据面查询
func (c *DataPlaneClient) Query(ctx context.Context, query string) (*QueryResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.queryURL+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, errors.WrapC(err, code.ErrVerificationQuery, "构造数据面查询失败")
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.WrapC(err, code.ErrVerificationQuery, "数据面查询未收到响应")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapC(err, code.ErrVerificationQuery, "读取数据面响应失败")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.WithCode(code.ErrVerificationQuery, "数据面查询返回 %d: %s", resp.StatusCode, string(raw))
	}

	var result QueryResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errors.WrapC(err, code.ErrVerificationQuery, "解析数据面响应失败")
	}
	return &result, nil
}
