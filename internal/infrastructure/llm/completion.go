package llm

import (
	"context"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/s-swart/sara-chatbot/internal/config"
	"github.com/s-swart/sara-chatbot/pkg/errors"
	"github.com/s-swart/sara-chatbot/pkg/metrics"
)

// emptyReplyPlaceholder 上游返回空内容时的兜底回复
const emptyReplyPlaceholder = "..."

// providerGetter 按名称获取 ChatModel，由 EinoFactory 实现
type providerGetter interface {
	Get(ctx context.Context, name string) (model.BaseChatModel, error)
}

// CompletionClient 封装对话补全调用，取首条回复文本
type CompletionClient struct {
	factory   providerGetter
	provider  string
	modelName string
}

// NewCompletionClient 创建补全客户端，绑定默认 Provider
func NewCompletionClient(factory providerGetter, cfg *config.LLMConfig) *CompletionClient {
	modelName := ""
	if p, ok := cfg.Default(); ok {
		modelName = p.Model
	}
	return &CompletionClient{
		factory:   factory,
		provider:  cfg.DefaultProvider,
		modelName: modelName,
	}
}

// Complete 发送消息并返回首条回复文本，空内容以占位符兜底。
// temperature 逐次调用透传给模型。
func (c *CompletionClient) Complete(ctx context.Context, messages []*schema.Message, temperature float32) (string, error) {
	chatModel, err := c.factory.Get(ctx, c.provider)
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(c.provider, c.modelName, "error").Inc()
		return "", errors.Wrap(err, errors.CodeLLMCallFailed, "LLM provider unavailable")
	}

	start := time.Now()
	resp, err := chatModel.Generate(ctx, messages, model.WithTemperature(temperature))
	metrics.LLMCallDuration.WithLabelValues(c.provider, c.modelName).Observe(time.Since(start).Seconds())
	if err != nil {
		if IsQuotaExceededError(err) {
			metrics.LLMCallTotal.WithLabelValues(c.provider, c.modelName, "quota").Inc()
			return "", errors.Wrap(err, errors.CodeQuotaExceeded, "LLM quota exceeded")
		}
		metrics.LLMCallTotal.WithLabelValues(c.provider, c.modelName, "error").Inc()
		return "", errors.Wrap(err, errors.CodeLLMCallFailed, "LLM call failed")
	}
	metrics.LLMCallTotal.WithLabelValues(c.provider, c.modelName, "ok").Inc()

	if resp == nil || resp.Content == "" {
		return emptyReplyPlaceholder, nil
	}
	return resp.Content, nil
}
