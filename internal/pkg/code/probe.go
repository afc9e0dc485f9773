package code

//go:generate codegen -type=int

// dps-probe 执行管道错误（1200xx）：服务12 + 模块00 + 序号
const (
	// ErrAuthorization - 401: 上游授权接口拒绝了本次授权请求
	ErrAuthorization int = iota + 120001 // 120001

	// ErrTransport - 504: 请求未收到任何响应（网络层失败）
	ErrTransport // 120002

	// ErrUpstreamHTTP - 502: 上游返回了非成功状态码（响应体原样保留）
	ErrUpstreamHTTP // 120003

	// ErrExecutionInternal - 500: 执行管道内部错误
	ErrExecutionInternal // 120004
)

// dps-probe 结果验证错误（1201xx）：服务12 + 模块01 + 序号
const (
	// ErrVerificationNotConfigured - 404: 端点没有配置验证规则（信息性，不算失败）
	ErrVerificationNotConfigured int = iota + 120101 // 120101

	// ErrVerificationExtraction - 422: 无法从执行上下文中提取记录标识
	ErrVerificationExtraction // 120102

	// ErrVerificationQuery - 502: 数据面查询失败
	ErrVerificationQuery // 120103

	// ErrVerificationNotFound - 404: 数据面中未找到匹配记录
	ErrVerificationNotFound // 120104
)
