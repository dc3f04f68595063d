package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/s-swart/sara-chatbot/internal/domain/entity"
	"github.com/s-swart/sara-chatbot/internal/interfaces/http/dto"
	"github.com/s-swart/sara-chatbot/pkg/logger"
)

const (
	noDataReply      = "No data."
	failedToLogReply = "Failed to log"
)

// LogSink 日志投递端
type LogSink interface {
	Deliver(ctx context.Context, record *entity.LogRecord) error
}

// LogHandler 日志上报处理器
type LogHandler struct {
	sink LogSink
}

// NewLogHandler 创建日志上报处理器
func NewLogHandler(sink LogSink) *LogHandler {
	return &LogHandler{
		sink: sink,
	}
}

// Log 上报一条留资邮箱或问答交互记录
// @Summary 日志上报
// @Description 将邮箱留资或问答交互转发到外部表格 Webhook
// @Tags Log
// @Accept json
// @Produce json
// @Param body body dto.LogRequest true "日志上报请求"
// @Success 200 {object} dto.LogResponse
// @Failure 400 {object} dto.LogErrorResponse
// @Failure 500 {object} dto.LogErrorResponse
// @Router /log [post]
func (h *LogHandler) Log(c *gin.Context) {
	var req dto.LogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.LogError(c, http.StatusBadRequest, noDataReply)
		return
	}

	// email 优先；两种形态都缺失则拒绝
	var record *entity.LogRecord
	switch {
	case req.Email != "":
		record = entity.NewEmailLogRecord(req.SessionID, req.Email)
	case req.UserInput != "" || req.BotReply != "":
		record = entity.NewInteractionLogRecord(req.SessionID, req.UserInput, req.BotReply)
	default:
		dto.LogError(c, http.StatusBadRequest, noDataReply)
		return
	}
	record.IPAddress = c.ClientIP()
	record.UserAgent = c.Request.UserAgent()

	ctx := c.Request.Context()
	if req.SessionID != "" {
		ctx = logger.WithContext(ctx, logger.SessionIDKey, req.SessionID)
	}

	if err := h.sink.Deliver(ctx, record); err != nil {
		logger.Error(ctx, "log delivery failed", err, "kind", string(record.Kind()))
		dto.LogError(c, http.StatusInternalServerError, failedToLogReply)
		return
	}

	dto.Logged(c)
}
