// Package entity 定义领域实体
package entity

// MatchCandidate 相似度检索返回的候选片段
type MatchCandidate struct {
	ID           string  `json:"id"`
	Content      string  `json:"content,omitempty"`
	Similarity   float64 `json:"similarity"`
	RecencyScore float64 `json:"recency_score"`
}

// NewMatchCandidate 创建候选片段，recencyScore 缺失时默认 1.0
func NewMatchCandidate(id, content string, similarity float64, recencyScore *float64) MatchCandidate {
	rs := 1.0
	if recencyScore != nil {
		rs = *recencyScore
	}
	return MatchCandidate{
		ID:           id,
		Content:      content,
		Similarity:   similarity,
		RecencyScore: rs,
	}
}

// CombinedScore 排序键：recency 加权的相似度
func (m MatchCandidate) CombinedScore() float64 {
	return m.RecencyScore * m.Similarity
}
