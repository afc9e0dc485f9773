package pipeline

import (
	"github.com/tenancykit/dps-probe/pkg/log"
)

// RegionScheme 辖区与托管/保险模式的组合，决定令牌的线上格式前缀
type RegionScheme string

const (
	RegionEWCustodial       RegionScheme = "ew-custodial"
	RegionEWInsured         RegionScheme = "ew-insured"
	RegionScotlandCustodial RegionScheme = "scotland-custodial"
	RegionScotlandInsured   RegionScheme = "scotland-insured"
	RegionNICustodial       RegionScheme = "ni-custodial"
)

// DefaultSchemePrefix 未知方案时的兜底前缀
const DefaultSchemePrefix = "EWC"

// 前缀是和上游约定的线上格式，勿动
var schemePrefixes = map[RegionScheme]string{
	RegionEWCustodial:       "EWC",
	RegionEWInsured:         "EWI",
	RegionScotlandCustodial: "SCC",
	RegionScotlandInsured:   "SCI",
	RegionNICustodial:       "NIC",
}

// ResolveSchemePrefix 把区域方案解析成令牌前缀。
// 未知输入不报错：打一条告警日志后回退到默认前缀，保证执行能继续。
func ResolveSchemePrefix(scheme RegionScheme) string {
	if prefix, ok := schemePrefixes[scheme]; ok {
		return prefix
	}
	log.Warnf("未知的区域方案 %q，回退到默认前缀 %s", scheme, DefaultSchemePrefix)
	return DefaultSchemePrefix
}
