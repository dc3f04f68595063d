// Package webui 提供内嵌的聊天挂件页面
package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Handler 渲染聊天挂件页面
type Handler struct {
	tmpl        *template.Template
	personaName string
}

// New 解析内嵌模板并创建处理器
func New(personaName string) (*Handler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{
		tmpl:        tmpl,
		personaName: personaName,
	}, nil
}

// Widget 渲染挂件首页
// @Summary 聊天挂件页面
// @Description 返回内嵌的聊天挂件 HTML
// @Tags Widget
// @Produce html
// @Success 200 {string} string "HTML"
// @Router / [get]
func (h *Handler) Widget(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.tmpl.ExecuteTemplate(c.Writer, "widget.html", gin.H{
		"PersonaName": h.personaName,
	}); err != nil {
		_ = c.Error(err)
	}
}
