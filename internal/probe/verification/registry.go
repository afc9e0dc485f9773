/*
verification 包实现执行通过后的异步事后验证：按端点匹配验证规则、
从执行上下文提取记录标识、等待固定延迟后查询独立的数据面接口，
再逐字段比对落库结果。验证永远是附加的：它的任何失败都不会
回头改变主执行结果。
*/

package verification

import (
	"regexp"
	"strings"
	"time"
)

// Kind 验证规则的种类
type Kind string

const (
	// KindDepositFields 按标识查记录并比对固定（或动态算出的）字段集
	KindDepositFields Kind = "deposit-fields"
	// KindCustomQuery 规则自带完整查询模板，比对首行的若干点分路径字段
	KindCustomQuery Kind = "custom-query"
)

// ExtractorFunc 从端点、请求体、响应体三者中提取记录标识。
// 返回空串表示提取失败，验证以明确的错误结果短路，不抛异常。
type ExtractorFunc func(endpoint string, requestBody, response []byte) string

// ExpectedFieldsFunc 由请求和响应动态推导期望字段值
type ExpectedFieldsFunc func(requestBody, response []byte) map[string]interface{}

// FieldCheck custom-query 模式下对首行记录的一项比对
type FieldCheck struct {
	// FieldPath 点分路径，定位到查询结果首行里的字段
	FieldPath string
	Expected  interface{}
	// Message 可选的消息格式化器，缺省用统一话术
	Message func(passed bool, actual interface{}) string
}

// Rule 一条验证规则
type Rule struct {
	Name string

	// Pattern 端点匹配模式：字面子串，或 IsRegex 时按正则整串搜索
	Pattern string
	IsRegex bool

	Extract ExtractorFunc
	Kind    Kind

	// deposit-fields 模式：二选一，函数优先
	Object           string
	ExpectedFields   map[string]interface{}
	ExpectedFieldsFn ExpectedFieldsFunc

	// custom-query 模式：{id} 占位符会被替换成提取出的标识
	QueryTemplate string
	Checks        []FieldCheck

	// Delay 查询前的固定等待，0 表示用引擎默认值
	Delay time.Duration

	compiled *regexp.Regexp
}

// Registry 有序的规则表，匹配按声明顺序取第一条命中，不再继续消歧
type Registry struct {
	rules []*Rule
}

func NewRegistry(rules ...*Rule) *Registry {
	for _, r := range rules {
		if r.IsRegex && r.compiled == nil {
			r.compiled = regexp.MustCompile(r.Pattern)
		}
	}
	return &Registry{rules: rules}
}

// Match 返回第一条匹配端点的规则，没有则返回 nil
func (r *Registry) Match(endpoint string) *Rule {
	for _, rule := range r.rules {
		if rule.matches(endpoint) {
			return rule
		}
	}
	return nil
}

func (r *Rule) matches(endpoint string) bool {
	if r.IsRegex {
		return r.compiled.MatchString(endpoint)
	}
	return strings.Contains(endpoint, r.Pattern)
}
