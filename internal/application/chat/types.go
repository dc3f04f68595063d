// Package chat 实现上下文组装与提示词构建管道
package chat

// Persona 助手人设，构建时注入，不受用户输入影响
type Persona struct {
	Name         string
	SystemPrompt string
}

// AskInput 一次聊天请求的输入
type AskInput struct {
	Message   string
	SessionID string

	// DisableEnrichment 为 true 时跳过向量检索，直接走无上下文提示词
	DisableEnrichment bool
}

// AskOutput 一次聊天请求的结果
type AskOutput struct {
	Reply          string
	ContextUsed    bool
	CandidateCount int

	// SkipReason 记录上下文增强被跳过或降级的原因，仅用于诊断
	SkipReason string
}

// SearchQuery 相似度检索参数
type SearchQuery struct {
	Vector []float32

	// Threshold 相似度下限，低于该值的候选由检索服务过滤
	Threshold float64
	// Limit 候选数量上限
	Limit int
}
