package code

//go:generate codegen -type=int

// 通用基本错误（1000xx）：服务10 + 模块00 + 序号
const (
	// ErrSuccess - 200: 成功
	ErrSuccess int = iota + 100001 // 100001

	// ErrUnknown - 500: 内部服务器错误
	ErrUnknown // 100002

	// ErrBind - 400: 请求体绑定结构体失败
	ErrBind // 100003

	// ErrValidation - 422: 数据验证失败
	ErrValidation // 100004

	// ErrPageNotFound - 404: 页面不存在
	ErrPageNotFound // 100005

	// ErrMethodNotAllowed - 405: 方法不存在
	ErrMethodNotAllowed // 100006

	// ErrContextCanceled - 408: 请求上下文被取消
	ErrContextCanceled // 100007
)
