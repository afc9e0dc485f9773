package pipeline

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/buger/jsonparser"
)

// Validate 按声明的规则列表逐条评估响应体。规则之间相互独立，
// 不短路：一条失败不影响其余规则继续评估。
func Validate(body []byte, rules []ValidationRule) []ValidationResult {
	results := make([]ValidationResult, 0, len(rules))
	for _, rule := range rules {
		results = append(results, evaluateRule(body, rule))
	}
	return results
}

// AllPassed 空规则集视为通过
func AllPassed(results []ValidationResult) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// lookupField 沿点分路径取值。任何一段缺失都返回"不存在"，绝不抛错。
// 返回值: (解码后的实际值, 字段是否存在且非null, 字段是否出现在文档里)
func lookupField(body []byte, path string) (interface{}, bool, jsonparser.ValueType) {
	keys := strings.Split(path, ".")
	value, dataType, _, err := jsonparser.Get(body, keys...)
	if err != nil || dataType == jsonparser.NotExist {
		return nil, false, jsonparser.NotExist
	}
	if dataType == jsonparser.Null {
		return nil, false, jsonparser.Null
	}
	return decodeValue(value, dataType), true, dataType
}

// decodeValue 把 jsonparser 的原始值解码成可比较的 Go 值。
// 数字一律 float64，和规则里经 JSON 反序列化得到的期望值类型对齐，
// 这样 DeepEqual 才是严格的 JSON 类型相等（5 和 "5" 不相等）。
func decodeValue(value []byte, dataType jsonparser.ValueType) interface{} {
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return string(value)
		}
		return s
	case jsonparser.Number:
		f, err := jsonparser.ParseFloat(value)
		if err != nil {
			return string(value)
		}
		return f
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		if err != nil {
			return string(value)
		}
		return b
	case jsonparser.Object, jsonparser.Array:
		var v interface{}
		if err := json.Unmarshal(value, &v); err != nil {
			return string(value)
		}
		return v
	default:
		return nil
	}
}

func evaluateRule(body []byte, rule ValidationRule) ValidationResult {
	result := ValidationResult{
		Field:     rule.Field,
		Condition: rule.Condition,
		Expected:  rule.Value,
	}

	actual, present, dataType := lookupField(body, rule.Field)
	result.Actual = actual

	switch rule.Condition {
	case ConditionEquals:
		result.Passed = present && reflect.DeepEqual(actual, rule.Value)
		if result.Passed {
			result.Message = fmt.Sprintf("Field %s equals %v", rule.Field, rule.Value)
		} else {
			result.Message = fmt.Sprintf("Expected %s to equal %v but got %v", rule.Field, rule.Value, actual)
		}

	case ConditionContains:
		evaluateContains(&result, actual, dataType, rule)

	case ConditionExists:
		result.Passed = present
		if result.Passed {
			result.Message = fmt.Sprintf("Field %s exists", rule.Field)
		} else {
			result.Message = fmt.Sprintf("Field %s does not exist", rule.Field)
		}

	case ConditionNotExists:
		result.Passed = !present
		if result.Passed {
			result.Message = fmt.Sprintf("Field %s does not exist", rule.Field)
		} else {
			result.Message = fmt.Sprintf("Expected %s to not exist but it does", rule.Field)
		}

	case ConditionGreaterThan, ConditionLessThan:
		evaluateNumericCompare(&result, actual, dataType, rule)

	default:
		result.Passed = false
		result.Message = fmt.Sprintf("Unknown validation condition %q", rule.Condition)
	}

	return result
}

// evaluateContains 字符串按子串、数组按成员判定，其余类型一律失败并
// 给出明确的类型提示。两种语义共用一个条件名是历史行为，保持原样。
func evaluateContains(result *ValidationResult, actual interface{}, dataType jsonparser.ValueType, rule ValidationRule) {
	switch dataType {
	case jsonparser.String:
		haystack, _ := actual.(string)
		needle := fmt.Sprint(rule.Value)
		result.Passed = strings.Contains(haystack, needle)
		if result.Passed {
			result.Message = fmt.Sprintf("Field %s contains %v", rule.Field, rule.Value)
		} else {
			result.Message = fmt.Sprintf("Expected %s to contain %v but got %v", rule.Field, rule.Value, actual)
		}
	case jsonparser.Array:
		items, _ := actual.([]interface{})
		for _, item := range items {
			if reflect.DeepEqual(item, rule.Value) {
				result.Passed = true
				break
			}
		}
		if result.Passed {
			result.Message = fmt.Sprintf("Field %s contains %v", rule.Field, rule.Value)
		} else {
			result.Message = fmt.Sprintf("Expected %s to contain %v but got %v", rule.Field, rule.Value, actual)
		}
	default:
		result.Passed = false
		result.Message = fmt.Sprintf("Field %s is not a string or array", rule.Field)
	}
}

// evaluateNumericCompare 两个操作数都必须是数字，字符串绝不隐式转数。
func evaluateNumericCompare(result *ValidationResult, actual interface{}, dataType jsonparser.ValueType, rule ValidationRule) {
	actualNum, actualOK := actual.(float64)
	if dataType != jsonparser.Number {
		actualOK = false
	}
	expectedNum, expectedOK := numericValue(rule.Value)

	if !actualOK || !expectedOK {
		result.Passed = false
		result.Message = fmt.Sprintf("Field %s requires numeric operands for %s: expected %v, actual %v", rule.Field, rule.Condition, rule.Value, actual)
		return
	}

	if rule.Condition == ConditionGreaterThan {
		result.Passed = actualNum > expectedNum
	} else {
		result.Passed = actualNum < expectedNum
	}
	if result.Passed {
		result.Message = fmt.Sprintf("Field %s is %s %v", rule.Field, rule.Condition, rule.Value)
	} else {
		result.Message = fmt.Sprintf("Expected %s to be %s %v but got %v", rule.Field, rule.Condition, rule.Value, actualNum)
	}
}

// numericValue 只接受真正的数字类型，字符串数字不算
func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
