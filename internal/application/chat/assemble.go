package chat

import (
	"sort"
	"strings"

	"github.com/s-swart/sara-chatbot/internal/domain/entity"
)

// contextSeparator 候选内容之间的空行分隔
const contextSeparator = "\n\n"

// AssembleContext 将候选片段按 combinedScore 降序拼接为上下文块。
// 纯函数：同样的输入顺序与分数产生完全一致的输出；分数相同时保持输入顺序；
// 空输入返回空串。内容缺失的候选保留为空段，会产生连续的分隔符。
func AssembleContext(candidates []entity.MatchCandidate) string {
	if len(candidates) == 0 {
		return ""
	}

	ranked := make([]entity.MatchCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CombinedScore() > ranked[j].CombinedScore()
	})

	parts := make([]string, 0, len(ranked))
	for _, c := range ranked {
		parts = append(parts, c.Content)
	}
	return strings.Join(parts, contextSeparator)
}
