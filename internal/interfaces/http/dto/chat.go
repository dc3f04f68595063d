// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"github.com/gin-gonic/gin"
)

// ChatRequest 聊天请求。sessionId 由挂件生成，用于串联同一次会话的日志。
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
}

// ChatResponse 聊天响应。错误同样以 reply 文本返回，挂件不区分协议层错误。
type ChatResponse struct {
	Reply string `json:"reply"`
}

// Reply 以挂件线格式写出回复
func Reply(c *gin.Context, status int, reply string) {
	c.JSON(status, ChatResponse{Reply: reply})
}
