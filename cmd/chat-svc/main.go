// Package main 聊天挂件服务入口
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/s-swart/sara-chatbot/internal/application/chat"
	"github.com/s-swart/sara-chatbot/internal/config"
	"github.com/s-swart/sara-chatbot/internal/infrastructure/embedding"
	"github.com/s-swart/sara-chatbot/internal/infrastructure/llm"
	"github.com/s-swart/sara-chatbot/internal/infrastructure/vectorsearch"
	"github.com/s-swart/sara-chatbot/internal/infrastructure/webhook"
	"github.com/s-swart/sara-chatbot/internal/interfaces/http/handler"
	"github.com/s-swart/sara-chatbot/internal/interfaces/http/router"
	"github.com/s-swart/sara-chatbot/internal/interfaces/http/webui"
	einoobs "github.com/s-swart/sara-chatbot/internal/observability/eino"
	"github.com/s-swart/sara-chatbot/pkg/logger"
	"github.com/s-swart/sara-chatbot/pkg/tracer"
)

// Version 版本信息，构建时注入
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件（如果存在）
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
		cfg.Observability.Logging.Output,
	)

	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info("starting chat-svc",
		"version", Version,
		"build_time", BuildTime,
		"env", cfg.App.Env,
	)

	// 初始化追踪
	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName:    cfg.App.Name,
		ServiceVersion: Version,
		Endpoint:       cfg.Observability.Tracing.Endpoint,
		SampleRate:     cfg.Observability.Tracing.SampleRate,
		Enabled:        cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		log.Error("failed to init tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Error("failed to shutdown tracer", "error", err)
		}
	}()

	// 上下文增强是可选能力，凭证缺失时服务降级为直连补全
	embedder, err := embedding.NewEmbedder(ctx, &cfg.Embedding)
	if err != nil {
		logger.Fatal(ctx, "failed to init embedder", err)
	}
	if embedder == nil {
		log.Warn("embedding not configured, context enrichment disabled")
	}

	searchClient, err := vectorsearch.NewClient(&cfg.Search)
	if err != nil {
		logger.Fatal(ctx, "failed to init vector search", err)
	}
	if searchClient == nil {
		log.Warn("vector search not configured, context enrichment disabled")
	}

	// *Client 为 nil 时不能装入接口，否则 EnrichmentEnabled 误判
	var searcher chat.VectorSearcher
	if searchClient != nil {
		searcher = searchClient
	}

	factory := llm.NewEinoFactory(&cfg.LLM)
	completion := llm.NewCompletionClient(factory, &cfg.LLM)
	einoobs.Init(cfg.LLM.DefaultProvider)

	// 缺省 Provider 未配置时温度为零值，由服务层回退默认
	providerCfg, _ := cfg.LLM.Default()
	chatSvc := chat.NewService(
		embedder,
		searcher,
		completion,
		chat.Persona{
			Name:         cfg.Persona.Name,
			SystemPrompt: cfg.Persona.SystemPrompt,
		},
		cfg.Search.MatchThreshold,
		cfg.Search.MatchCount,
		providerCfg.Temperature,
	)

	sink := webhook.NewSink(&cfg.Webhook)
	if cfg.Webhook.URL == "" {
		log.Warn("webhook URL not configured, log delivery will fail")
	}

	widget, err := webui.New(cfg.Persona.Name)
	if err != nil {
		logger.Fatal(ctx, "failed to parse widget template", err)
	}

	r := router.New(cfg, router.Handlers{
		Chat:   handler.NewChatHandler(chatSvc, cfg.App.Verbose),
		Log:    handler.NewLogHandler(sink),
		Health: handler.NewHealthHandler(cfg, chatSvc, Version),
		Widget: widget,
	})

	// 创建 HTTP 服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}

	// 启动服务器
	go func() {
		log.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
