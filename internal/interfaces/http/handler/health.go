package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/s-swart/sara-chatbot/internal/application/chat"
	"github.com/s-swart/sara-chatbot/internal/config"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	cfg     *config.Config
	chatSvc *chat.Service
	version string
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(cfg *config.Config, chatSvc *chat.Service, version string) *HealthHandler {
	return &HealthHandler{
		cfg:     cfg,
		chatSvc: chatSvc,
		version: version,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 健康检查接口
// @Summary 健康检查
// @Description 检查服务健康状态
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// Ready 就绪检查接口。
// 上游都是按调用计费的外部服务，就绪态只看配置完整性，不发探测请求。
// @Summary 就绪检查
// @Description 检查服务是否可以接收流量
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := map[string]*readinessCheck{
		"llm":        {Status: "unknown"},
		"enrichment": {Status: "disabled"},
		"webhook":    {Status: "disabled"},
	}

	ready := true

	// 补全服务（必需）
	providerCfg, ok := h.cfg.LLM.Default()
	switch {
	case !ok:
		checks["llm"].Status = "missing"
		checks["llm"].Error = "default LLM provider not configured"
		ready = false
	case providerCfg.APIKey == "":
		checks["llm"].Status = "missing"
		checks["llm"].Error = "LLM API key not configured"
		ready = false
	default:
		checks["llm"].Status = "ok"
	}

	// 上下文增强（可选，不影响就绪态）
	if h.chatSvc != nil && h.chatSvc.EnrichmentEnabled() {
		checks["enrichment"].Status = "ok"
	}

	// 日志 Webhook（可选，不影响就绪态）
	if h.cfg.Webhook.URL != "" {
		checks["webhook"].Status = "ok"
	}

	resp := readinessResponse{
		Status: "ok",
		Checks: checks,
	}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Live 存活检查接口
// @Summary 存活检查
// @Description 检查服务是否存活
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}
