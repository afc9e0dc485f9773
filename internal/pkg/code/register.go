package code

// 错误码统一注册。新增错误码后必须在这里补一行，否则
// errors.ParseCoderByErr 会把它解析成未知错误。
func init() {
	register(ErrSuccess, 200, "OK")
	register(ErrUnknown, 500, "Internal server error")
	register(ErrBind, 400, "Error occurred while binding the request body to the struct")
	register(ErrValidation, 422, "Validation failed")
	register(ErrPageNotFound, 404, "Page not found")
	register(ErrMethodNotAllowed, 405, "Method not allowed")
	register(ErrContextCanceled, 408, "Request context canceled")

	register(ErrAuthorization, 401, "Upstream authorisation rejected")
	register(ErrTransport, 504, "No response received from upstream")
	register(ErrUpstreamHTTP, 502, "Upstream returned an error response")
	register(ErrExecutionInternal, 500, "Test execution pipeline internal error")

	register(ErrVerificationNotConfigured, 404, "No verification rule configured")
	register(ErrVerificationExtraction, 422, "Could not extract record identifier")
	register(ErrVerificationQuery, 502, "Verification data-plane query failed")
	register(ErrVerificationNotFound, 404, "Verification record not found")
}
