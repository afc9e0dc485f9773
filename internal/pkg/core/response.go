package core

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"
)

// ErrResponse 错误发生时的统一返回格式。
// Reference 指向错误的参考文档，没有时省略。
type ErrResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Reference string `json:"reference,omitempty"`
}

// WriteResponse 统一响应出口。
// err 非空时通过 errors.ParseCoderByErr 解析出业务码和 HTTP 状态码；
// 成功时固定 200 返回 data 本体。执行结果（含判定为 failed 的执行）
// 属于正常业务数据，走成功分支。
func WriteResponse(c *gin.Context, err error, data interface{}) {
	if err != nil {
		coder := errors.ParseCoderByErr(err)
		c.JSON(coder.HTTPStatus(), ErrResponse{
			Code:      coder.Code(),
			Message:   coder.String(),
			Reference: coder.Reference(),
		})
		return
	}

	c.JSON(http.StatusOK, data)
}
