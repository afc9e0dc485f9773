package verification

import (
	"regexp"
	"strconv"

	"github.com/buger/jsonparser"
)

// danPattern 保证金记录号（DAN）的已知前缀：辖区 × 托管/保险
var danPattern = regexp.MustCompile(`(EWC|EWI|SCC|SCI|NIC)\d+`)

// ExtractDANFromEndpoint 在端点路径里找 DAN
func ExtractDANFromEndpoint(endpoint string, _, _ []byte) string {
	return danPattern.FindString(endpoint)
}

// ExtractDANFromResponse 从响应体的 dan 字段取标识
func ExtractDANFromResponse(_ string, _, response []byte) string {
	dan, err := jsonparser.GetString(response, "dan")
	if err != nil {
		return ""
	}
	return dan
}

// DefaultRules 内置验证规则表，声明顺序即匹配优先级
func DefaultRules() []*Rule {
	return []*Rule{
		{
			Name:    "cart-add",
			Pattern: "/cart/add/",
			Extract: ExtractDANFromEndpoint,
			Kind:    KindDepositFields,
			Object:  "Deposit__c",
			ExpectedFields: map[string]interface{}{
				"In_Cart__c": true,
			},
		},
		{
			Name:    "cart-remove",
			Pattern: "/cart/remove/",
			Extract: ExtractDANFromEndpoint,
			Kind:    KindDepositFields,
			Object:  "Deposit__c",
			ExpectedFields: map[string]interface{}{
				"In_Cart__c": false,
			},
		},
		{
			Name:    "deposit-create",
			Pattern: "/deposit/create",
			Extract: ExtractDANFromResponse,
			Kind:    KindDepositFields,
			Object:  "Deposit__c",
			// 期望金额来自请求体，可能是数字也可能是字符串金额
			ExpectedFieldsFn: func(requestBody, _ []byte) map[string]interface{} {
				expected := map[string]interface{}{
					"Status__c": "Protected",
				}
				if amount, ok := depositAmount(requestBody); ok {
					expected["Amount__c"] = amount
				}
				return expected
			},
		},
		{
			Name:          "deposit-release",
			Pattern:       `/deposit/release/(EWC|EWI|SCC|SCI|NIC)\d+`,
			IsRegex:       true,
			Extract:       ExtractDANFromEndpoint,
			Kind:          KindCustomQuery,
			QueryTemplate: "SELECT Id, Status__c, Release_Status__c FROM Deposit__c WHERE DAN__c = '{id}' LIMIT 1",
			Checks: []FieldCheck{
				{FieldPath: "Release_Status__c", Expected: "Released"},
			},
		},
	}
}

// depositAmount 解析请求体里嵌套的 deposit.amount，数字和字符串都接受
func depositAmount(requestBody []byte) (float64, bool) {
	value, dataType, _, err := jsonparser.Get(requestBody, "deposit", "amount")
	if err != nil {
		return 0, false
	}
	switch dataType {
	case jsonparser.Number:
		f, err := jsonparser.ParseFloat(value)
		return f, err == nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
