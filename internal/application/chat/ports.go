package chat

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/s-swart/sara-chatbot/internal/domain/entity"
)

// VectorSearcher 外部最近邻检索服务端口。
// 返回的候选顺序不可信，排序由 AssembleContext 统一施加。
type VectorSearcher interface {
	Search(ctx context.Context, q SearchQuery) ([]entity.MatchCandidate, error)
}

// Completer 聊天补全服务端口
type Completer interface {
	Complete(ctx context.Context, messages []*schema.Message, temperature float32) (string, error)
}
