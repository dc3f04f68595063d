package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LogRequest 日志上报请求。email 与 (userInput, botReply) 是两种互斥形态。
type LogRequest struct {
	Email     string `json:"email,omitempty"`
	UserInput string `json:"userInput,omitempty"`
	BotReply  string `json:"botReply,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// LogResponse 日志上报成功响应
type LogResponse struct {
	Logged bool `json:"logged"`
}

// LogErrorResponse 日志上报失败响应
type LogErrorResponse struct {
	Error string `json:"error"`
}

// Logged 写出上报成功响应
func Logged(c *gin.Context) {
	c.JSON(http.StatusOK, LogResponse{Logged: true})
}

// LogError 写出上报失败响应
func LogError(c *gin.Context, status int, message string) {
	c.JSON(status, LogErrorResponse{Error: message})
}
