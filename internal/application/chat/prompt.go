package chat

import (
	"fmt"

	"github.com/cloudwego/eino/schema"
)

// noMatchPlaceholder 上下文为空时注入提示词的占位文本
const noMatchPlaceholder = "(no strong match)"

// BuildMessages 生成固定的两条消息：system 人设 + 携带上下文的用户提问。
// 上下文为空时以占位文本替换，问题原样拼接。无副作用。
func BuildMessages(systemPrompt, contextBlock, question string) []*schema.Message {
	block := contextBlock
	if block == "" {
		block = noMatchPlaceholder
	}
	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(fmt.Sprintf("Context:\n%s\n\nQuestion: %s", block, question)),
	}
}
