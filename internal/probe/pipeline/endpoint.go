package pipeline

import (
	"sort"
	"strings"
)

// EndpointConfig 静态端点配置表的一条记录，描述某个逻辑端点是否支持
// 遗留的 alias URL 形态以及凭据是否内嵌在路径里。
type EndpointConfig struct {
	EndpointTemplate string `json:"endpointTemplate" mapstructure:"endpoint-template" validate:"required,startswith=/"`
	SupportsAliasURL bool   `json:"supportsAliasUrl" mapstructure:"supports-alias-url"`
	AliasEndpoint    string `json:"aliasEndpoint,omitempty" mapstructure:"alias-endpoint" validate:"omitempty,startswith=/"`
	AliasAuthInURL   bool   `json:"aliasAuthInUrl,omitempty" mapstructure:"alias-auth-in-url"`
}

// aliasEntry 预计算好的查找条目，prefix 是模板里第一个占位符之前的字面部分
type aliasEntry struct {
	prefix string
	config EndpointConfig
}

// EndpointTable 端点配置表。启动时一次性把模板解析成前缀查找表，
// 避免每次调用都重新截断字符串。
type EndpointTable struct {
	entries []aliasEntry
}

func NewEndpointTable(configs []EndpointConfig) *EndpointTable {
	entries := make([]aliasEntry, 0, len(configs))
	for _, cfg := range configs {
		entries = append(entries, aliasEntry{
			prefix: templatePrefix(cfg.EndpointTemplate),
			config: cfg,
		})
	}
	// 长前缀优先，保证 /deposit/release 不会被 /deposit 抢走
	sort.Slice(entries, func(i, j int) bool {
		return len(entries[i].prefix) > len(entries[j].prefix)
	})
	return &EndpointTable{entries: entries}
}

// templatePrefix 取模板中第一个路径占位符之前的字面前缀
func templatePrefix(template string) string {
	if idx := strings.Index(template, "{"); idx >= 0 {
		return template[:idx]
	}
	return template
}

// Lookup 按字面前缀匹配已实化的端点，返回命中的配置
func (t *EndpointTable) Lookup(endpoint string) (EndpointConfig, bool) {
	for _, e := range t.entries {
		if strings.HasPrefix(endpoint, e.prefix) {
			return e.config, true
		}
	}
	return EndpointConfig{}, false
}

// Configs 返回表内全部配置（对外只读展示用）
func (t *EndpointTable) Configs() []EndpointConfig {
	configs := make([]EndpointConfig, 0, len(t.entries))
	for _, e := range t.entries {
		configs = append(configs, e.config)
	}
	return configs
}

// ForOAuth2 把逻辑端点改写成 OAuth2 线上形态：在 Apex REST 基础路径后
// 插入 auth/ 段。授权接口本身和已改写过的端点保持原样，
// 保证一次外呼最多改写一次。
func ForOAuth2(endpoint string) string {
	if !strings.HasPrefix(endpoint, ApexRestBasePath) {
		return endpoint
	}
	if endpoint == AuthoriseEndpoint {
		return endpoint
	}
	rest := strings.TrimPrefix(endpoint, ApexRestBasePath)
	if strings.HasPrefix(rest, "auth/") {
		return endpoint
	}
	return ApexRestBasePath + "auth/" + rest
}

// AliasResult alias 改写的产物。AuthInURL 为 true 时凭据已内嵌在路径里，
// 执行器必须整个省略 AccessToken 请求头。
type AliasResult struct {
	Endpoint  string
	AuthInURL bool
}

// ForAlias 把测试端点改写成遗留 alias 形态。
// 仅在 useAliasUrl 且 apikey 鉴权时生效；查不到配置或配置没有
// alias 元数据时返回 nil 表示不走 alias。
func (t *EndpointTable) ForAlias(def *TestDefinition, cred *Credential) *AliasResult {
	if !def.UseAliasURL || cred.AuthType != AuthTypeAPIKey {
		return nil
	}

	cfg, ok := t.Lookup(def.Endpoint)
	if !ok || !cfg.SupportsAliasURL || cfg.AliasEndpoint == "" {
		return nil
	}

	alias := cfg.AliasEndpoint

	// 测试定义里唯一的命名路径参数：在规范模板里找到它的段位置，
	// 再从实化端点里拷贝对应的段。无论凭据内嵌与否都要实化，
	// 否则字面占位符会原样发到线路上
	if name, idx := namedPathParam(cfg.EndpointTemplate); name != "" {
		segments := strings.Split(def.Endpoint, "/")
		if idx >= 0 && idx < len(segments) {
			alias = strings.ReplaceAll(alias, "{"+name+"}", segments[idx])
		}
	}

	if !cfg.AliasAuthInURL {
		// 鉴权仍然走请求头，路径里没有凭据占位符
		return &AliasResult{Endpoint: alias, AuthInURL: false}
	}

	alias = strings.ReplaceAll(alias, "{member_id}", cred.MemberID)
	alias = strings.ReplaceAll(alias, "{branch_id}", cred.BranchID)
	alias = strings.ReplaceAll(alias, "{api_key}", cred.APIKey)

	return &AliasResult{Endpoint: alias, AuthInURL: true}
}

// namedPathParam 返回规范模板中的命名路径参数及其段下标
func namedPathParam(template string) (string, int) {
	for idx, segment := range strings.Split(template, "/") {
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			return strings.Trim(segment, "{}"), idx
		}
	}
	return "", -1
}

// DefaultEndpointConfigs 内置端点配置表。没有外部配置文件时使用，
// 结构与外部协作方下发的声明式清单一致。
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{
			EndpointTemplate: "/cart/add/{dan}",
			SupportsAliasURL: true,
			AliasEndpoint:    "/alias/{member_id}/{branch_id}/{api_key}/cart/add/{dan}",
			AliasAuthInURL:   true,
		},
		{
			EndpointTemplate: "/cart/remove/{dan}",
			SupportsAliasURL: true,
			AliasEndpoint:    "/alias/{member_id}/{branch_id}/{api_key}/cart/remove/{dan}",
			AliasAuthInURL:   true,
		},
		{
			EndpointTemplate: "/deposit/status/{dan}",
			SupportsAliasURL: true,
			AliasEndpoint:    "/alias/deposit/status/{dan}",
			AliasAuthInURL:   false,
		},
		{
			EndpointTemplate: "/deposit/create",
			SupportsAliasURL: false,
		},
		{
			EndpointTemplate: "/deposit/release/{dan}",
			SupportsAliasURL: false,
		},
	}
}
