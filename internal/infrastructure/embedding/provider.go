package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/embedding"

	"github.com/s-swart/sara-chatbot/internal/config"
)

// NewEmbedder 按配置选择 Embedding 提供方。
// 凭证缺失时返回 (nil, nil)，调用方据此降级为无上下文模式。
func NewEmbedder(ctx context.Context, cfg *config.EmbeddingConfig) (embedding.Embedder, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		if cfg.APIKey == "" {
			return nil, nil
		}
		return NewEinoEmbedder(ctx, cfg)
	case "http":
		if cfg.Endpoint == "" {
			return nil, nil
		}
		return NewClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}
