// Package entity 定义领域实体
package entity

import (
	"time"
)

// LogKind 日志记录类型
type LogKind string

const (
	LogKindEmail       LogKind = "email"
	LogKindInteraction LogKind = "interaction"
)

// LogRecord 投递到外部表格 Webhook 的一次性记录。
// Email 与 (UserInput, BotReply) 互斥；时间戳始终由服务端生成，
// 客户端提交的时间一律忽略。写入后不存在读路径。
type LogRecord struct {
	SessionID string    `json:"session_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	UserInput string    `json:"user_input,omitempty"`
	BotReply  string    `json:"bot_reply,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEmailLogRecord 创建邮箱留资记录
func NewEmailLogRecord(sessionID, email string) *LogRecord {
	return &LogRecord{
		SessionID: sessionID,
		Email:     email,
		CreatedAt: time.Now(),
	}
}

// NewInteractionLogRecord 创建一次问答交互记录
func NewInteractionLogRecord(sessionID, userInput, botReply string) *LogRecord {
	return &LogRecord{
		SessionID: sessionID,
		UserInput: userInput,
		BotReply:  botReply,
		CreatedAt: time.Now(),
	}
}

// Kind 返回记录类型，email 优先
func (r *LogRecord) Kind() LogKind {
	if r.Email != "" {
		return LogKindEmail
	}
	return LogKindInteraction
}
