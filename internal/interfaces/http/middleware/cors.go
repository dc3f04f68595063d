// Package middleware 提供 HTTP 中间件
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// CORS 跨域中间件。挂件会被第三方页面嵌入，来源默认全放开
func CORS(cfg CORSConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:  orDefault(cfg.AllowedOrigins, []string{"*"}),
		AllowMethods:  orDefault(cfg.AllowedMethods, []string{"GET", "POST", "OPTIONS"}),
		AllowHeaders:  orDefault(cfg.AllowedHeaders, []string{"Origin", "Content-Type", "X-Request-ID"}),
		ExposeHeaders: []string{"X-Request-ID", "X-Trace-ID"},
		// 通配符来源不能与凭证同用
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}

func orDefault(vals, def []string) []string {
	if len(vals) == 0 {
		return def
	}
	return vals
}
