package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/s-swart/sara-chatbot/internal/config"
)

// EinoFactory 按 Provider 名称缓存 Eino ChatModel 实例。
// 采样温度由调用方按请求传入，工厂只固化鉴权和模型标识。
type EinoFactory struct {
	cfg    *config.LLMConfig
	models map[string]model.BaseChatModel
	mu     sync.RWMutex
}

// NewEinoFactory 创建 ChatModel 工厂
func NewEinoFactory(cfg *config.LLMConfig) *EinoFactory {
	return &EinoFactory{
		cfg:    cfg,
		models: make(map[string]model.BaseChatModel),
	}
}

// Get 返回名称对应的 ChatModel，name 为空时取默认 Provider。
// 实例在首次使用时构建并缓存，配置缺失或构建失败返回错误。
func (f *EinoFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	if name == "" {
		name = f.cfg.DefaultProvider
	}

	f.mu.RLock()
	m, ok := f.models[name]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// 双重检查，构建期间可能已有并发请求完成初始化
	if m, ok = f.models[name]; ok {
		return m, nil
	}

	m, err := f.build(ctx, name)
	if err != nil {
		return nil, err
	}
	f.models[name] = m
	return m, nil
}

// build 按 Provider 配置构建 OpenAI 兼容的 ChatModel
func (f *EinoFactory) build(ctx context.Context, name string) (model.BaseChatModel, error) {
	providerCfg, ok := f.cfg.Providers[name]
	if !ok {
		return nil, fmt.Errorf("llm provider %q not configured", name)
	}
	if providerCfg.APIKey == "" {
		return nil, fmt.Errorf("llm provider %q has no api_key", name)
	}

	mc := &openai.ChatModelConfig{
		APIKey:  providerCfg.APIKey,
		BaseURL: providerCfg.BaseURL,
		Model:   providerCfg.Model,
		Timeout: providerCfg.Timeout,
	}
	if providerCfg.MaxTokens > 0 {
		mc.MaxTokens = &providerCfg.MaxTokens
	}

	chatModel, err := openai.NewChatModel(ctx, mc)
	if err != nil {
		return nil, fmt.Errorf("create chat model for provider %q: %w", name, err)
	}
	return chatModel, nil
}
