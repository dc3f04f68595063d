// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/s-swart/sara-chatbot/internal/application/chat"
	"github.com/s-swart/sara-chatbot/internal/interfaces/http/dto"
	"github.com/s-swart/sara-chatbot/pkg/errors"
	"github.com/s-swart/sara-chatbot/pkg/logger"
)

// noInputReply message 缺失时写回的固定文本
const noInputReply = "No input."

// ChatHandler 聊天处理器
type ChatHandler struct {
	svc     *chat.Service
	verbose bool
}

// NewChatHandler 创建聊天处理器。verbose 开启时错误回复附带诊断信息
func NewChatHandler(svc *chat.Service, verbose bool) *ChatHandler {
	return &ChatHandler{
		svc:     svc,
		verbose: verbose,
	}
}

// Chat 处理一次用户提问
// @Summary 聊天
// @Description 将用户提问经上下文增强后转发给补全服务
// @Tags Chat
// @Accept json
// @Produce json
// @Param embeddings query string false "传 false 跳过上下文增强"
// @Param body body dto.ChatRequest true "聊天请求"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} dto.ChatResponse
// @Failure 500 {object} dto.ChatResponse
// @Router /chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		dto.Reply(c, http.StatusBadRequest, noInputReply)
		return
	}

	ctx := c.Request.Context()
	if req.SessionID != "" {
		ctx = logger.WithContext(ctx, logger.SessionIDKey, req.SessionID)
	}

	out, err := h.svc.Respond(ctx, chat.AskInput{
		Message:           req.Message,
		SessionID:         req.SessionID,
		DisableEnrichment: c.Query("embeddings") == "false",
	})
	if err != nil {
		h.replyError(c, ctx, err)
		return
	}

	if out.SkipReason != "" {
		logger.Debug(ctx, "context enrichment skipped", "reason", out.SkipReason)
	}
	dto.Reply(c, http.StatusOK, out.Reply)
}

// replyError 将管道错误转换成挂件可直接展示的回复文本。
// 补全失败不向挂件暴露协议层错误，以 500 状态加人话文案返回。
func (h *ChatHandler) replyError(c *gin.Context, ctx context.Context, err error) {
	persona := h.svc.Persona().Name

	switch errors.CodeOf(err) {
	case errors.CodeInvalidParam:
		dto.Reply(c, http.StatusBadRequest, noInputReply)
	case errors.CodeQuotaExceeded:
		logger.Error(ctx, "completion quota exhausted", err)
		dto.Reply(c, http.StatusInternalServerError, h.withDiagnostic(chat.QuotaExceededReply(persona), err))
	default:
		logger.Error(ctx, "completion failed", err)
		dto.Reply(c, http.StatusInternalServerError, h.withDiagnostic(chat.UpstreamFailureReply(persona), err))
	}
}

// withDiagnostic verbose 模式下附加错误详情，便于开发环境排查
func (h *ChatHandler) withDiagnostic(reply string, err error) string {
	if !h.verbose || err == nil {
		return reply
	}
	return reply + " (debug: " + err.Error() + ")"
}
