package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/buger/jsonparser"

	"github.com/tenancykit/dps-probe/internal/pkg/metrics"
	"github.com/tenancykit/dps-probe/pkg/log"
)

// DefaultDelay 查询前的默认等待，给最终一致的后端落库留时间
const DefaultDelay = 2000 * time.Millisecond

// depositIdentifierFields 记录标识在数据面里可能落在的字段名，
// 查询时按逻辑或逐个尝试
var depositIdentifierFields = []string{"Name", "DAN__c", "Deposit_Account_Number__c"}

// Check 单个字段的比对结果
type Check struct {
	Field    string      `json:"field"`
	Expected interface{} `json:"expected"`
	Actual   interface{} `json:"actual"`
	Passed   bool        `json:"passed"`
	Message  string      `json:"message"`
}

// Result 一次验证的聚合结果。三类结局要区分开：
// 没有匹配规则（良性空操作）、匹配了但查不到记录（明确错误）、
// 比对跑完但有失败项（AllPassed=false 且逐项可见）。
type Result struct {
	Success     bool    `json:"success"`
	Checks      []Check `json:"checks,omitempty"`
	AllPassed   bool    `json:"allPassed"`
	Error       string  `json:"error,omitempty"`
	QueryTimeMs int64   `json:"queryTimeMs,omitempty"`
}

// Engine 验证引擎。整个验证在引擎内部自我收敛：任何错误都变成
// Result 的字段，绝不影响也不重试主执行。
type Engine struct {
	registry     *Registry
	dataplane    *DataPlaneClient
	defaultDelay time.Duration

	// 等待注入点，单测里换成立即返回
	wait func(ctx context.Context, d time.Duration)
}

func NewEngine(registry *Registry, dataplane *DataPlaneClient, defaultDelay time.Duration) *Engine {
	if registry == nil {
		registry = NewRegistry(DefaultRules()...)
	}
	if defaultDelay <= 0 {
		defaultDelay = DefaultDelay
	}
	return &Engine{
		registry:     registry,
		dataplane:    dataplane,
		defaultDelay: defaultDelay,
		wait:         sleepWait,
	}
}

// Configured 数据面查询地址就绪时才值得发起核验
func (e *Engine) Configured() bool {
	return e.dataplane != nil && e.dataplane.Configured()
}

func sleepWait(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// Verify 对一次已通过的执行做事后验证。
// 固定延迟只等一次，随后恰好查询一次，没有轮询和重试。
func (e *Engine) Verify(ctx context.Context, endpoint string, requestBody, response []byte) *Result {
	rule := e.registry.Match(endpoint)
	if rule == nil {
		return &Result{
			Success:   false,
			AllPassed: false,
			Error:     fmt.Sprintf("No verification rule configured for endpoint %s", endpoint),
		}
	}

	identifier := ""
	if rule.Extract != nil {
		identifier = rule.Extract(endpoint, requestBody, response)
	}
	if identifier == "" {
		return &Result{
			Success:   false,
			AllPassed: false,
			Error:     fmt.Sprintf("Could not extract identifier for endpoint %s", endpoint),
		}
	}

	delay := rule.Delay
	if delay <= 0 {
		delay = e.defaultDelay
	}
	log.L(ctx).Debugf("验证规则 %s 命中，标识 %s，等待 %s 后查询", rule.Name, identifier, delay)
	e.wait(ctx, delay)

	switch rule.Kind {
	case KindCustomQuery:
		return e.verifyCustomQuery(ctx, rule, identifier)
	default:
		return e.verifyDepositFields(ctx, rule, identifier, requestBody, response)
	}
}

func (e *Engine) verifyDepositFields(ctx context.Context, rule *Rule, identifier string, requestBody, response []byte) *Result {
	expected := rule.ExpectedFields
	if rule.ExpectedFieldsFn != nil {
		expected = rule.ExpectedFieldsFn(requestBody, response)
	}

	query := buildDepositQuery(rule.Object, expected, identifier)

	start := time.Now()
	qr, err := e.dataplane.Query(ctx, query)
	metrics.ObserveVerificationQuery(string(rule.Kind), time.Since(start))
	queryTime := time.Since(start).Milliseconds()
	if err != nil {
		return &Result{Success: false, AllPassed: false, Error: err.Error(), QueryTimeMs: queryTime}
	}
	if qr.TotalSize == 0 || len(qr.Records) == 0 {
		return &Result{
			Success:     false,
			AllPassed:   false,
			Error:       fmt.Sprintf("No record found for identifier %s", identifier),
			QueryTimeMs: queryTime,
		}
	}

	record := qr.Records[0]
	checks := make([]Check, 0, len(expected))
	for _, field := range sortedKeys(expected) {
		checks = append(checks, compareField(record, field, expected[field], nil))
	}

	return &Result{
		Success:     true,
		Checks:      checks,
		AllPassed:   allChecksPassed(checks),
		QueryTimeMs: queryTime,
	}
}

func (e *Engine) verifyCustomQuery(ctx context.Context, rule *Rule, identifier string) *Result {
	query := strings.ReplaceAll(rule.QueryTemplate, "{id}", escapeQueryLiteral(identifier))

	start := time.Now()
	qr, err := e.dataplane.Query(ctx, query)
	metrics.ObserveVerificationQuery(string(rule.Kind), time.Since(start))
	queryTime := time.Since(start).Milliseconds()
	if err != nil {
		return &Result{Success: false, AllPassed: false, Error: err.Error(), QueryTimeMs: queryTime}
	}
	if qr.TotalSize == 0 || len(qr.Records) == 0 {
		return &Result{
			Success:     false,
			AllPassed:   false,
			Error:       fmt.Sprintf("No record found for identifier %s", identifier),
			QueryTimeMs: queryTime,
		}
	}

	record := qr.Records[0]
	checks := make([]Check, 0, len(rule.Checks))
	for _, fc := range rule.Checks {
		checks = append(checks, compareField(record, fc.FieldPath, fc.Expected, fc.Message))
	}

	return &Result{
		Success:     true,
		Checks:      checks,
		AllPassed:   allChecksPassed(checks),
		QueryTimeMs: queryTime,
	}
}

// compareField 从记录里按点分路径取值并做严格相等比较
func compareField(record json.RawMessage, path string, expected interface{}, message func(bool, interface{}) string) Check {
	actual := recordField(record, path)
	passed := reflect.DeepEqual(actual, expected)

	check := Check{
		Field:    path,
		Expected: expected,
		Actual:   actual,
		Passed:   passed,
	}
	if message != nil {
		check.Message = message(passed, actual)
	} else if passed {
		check.Message = fmt.Sprintf("Field %s matches expected value %v", path, expected)
	} else {
		check.Message = fmt.Sprintf("Field %s: expected %v, got %v", path, expected, actual)
	}
	return check
}

// recordField 点分路径取值，缺失返回 nil
func recordField(record json.RawMessage, path string) interface{} {
	keys := strings.Split(path, ".")
	value, dataType, _, err := jsonparser.Get(record, keys...)
	if err != nil || dataType == jsonparser.NotExist || dataType == jsonparser.Null {
		return nil
	}
	switch dataType {
	case jsonparser.String:
		if s, err := jsonparser.ParseString(value); err == nil {
			return s
		}
		return string(value)
	case jsonparser.Number:
		if f, err := jsonparser.ParseFloat(value); err == nil {
			return f
		}
		return string(value)
	case jsonparser.Boolean:
		if b, err := jsonparser.ParseBoolean(value); err == nil {
			return b
		}
		return string(value)
	default:
		var v interface{}
		if err := json.Unmarshal(value, &v); err == nil {
			return v
		}
		return string(value)
	}
}

// buildDepositQuery 按标识在所有候选标识字段上做逻辑或查询，只取一条
func buildDepositQuery(object string, expected map[string]interface{}, identifier string) string {
	fields := sortedKeys(expected)
	selectFields := append([]string{"Id"}, fields...)

	id := escapeQueryLiteral(identifier)
	conditions := make([]string, 0, len(depositIdentifierFields))
	for _, f := range depositIdentifierFields {
		conditions = append(conditions, fmt.Sprintf("%s = '%s'", f, id))
	}

	return fmt.Sprintf("SELECT %s FROM %s WHERE %s LIMIT 1",
		strings.Join(selectFields, ", "), object, strings.Join(conditions, " OR "))
}

// escapeQueryLiteral 查询字面量里的单引号转义，标识来自外部输入
func escapeQueryLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func allChecksPassed(checks []Check) bool {
	for _, c := range checks {
		if !c.Passed {
			return false
		}
	}
	return true
}
