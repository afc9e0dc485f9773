package pipeline

import "fmt"

// 令牌拼接规则是和上游系统的线上格式契约，连字符顺序不能变。

// APIKeyToken 构造 API key 方式的访问令牌
func APIKeyToken(prefix, memberID, branchID, apiKey string) string {
	return fmt.Sprintf("%s-%s-%s-%s", prefix, memberID, branchID, apiKey)
}

// OAuth2AuthCode 构造 OAuth2 授权请求所用的授权码
func OAuth2AuthCode(prefix, clientID, clientSecret, memberID string) string {
	return fmt.Sprintf("%s-%s-%s-%s", prefix, clientID, clientSecret, memberID)
}
