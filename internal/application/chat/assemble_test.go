package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/s-swart/sara-chatbot/internal/domain/entity"
)

func TestAssembleContext_Empty(t *testing.T) {
	assert.Equal(t, "", AssembleContext(nil))
	assert.Equal(t, "", AssembleContext([]entity.MatchCandidate{}))
}

func TestAssembleContext_OrdersByCombinedScoreDesc(t *testing.T) {
	candidates := []entity.MatchCandidate{
		{ID: "a", Content: "low", Similarity: 0.5, RecencyScore: 1.0},
		{ID: "b", Content: "high", Similarity: 0.9, RecencyScore: 1.0},
		{ID: "c", Content: "mid", Similarity: 0.9, RecencyScore: 0.8},
	}

	got := AssembleContext(candidates)

	assert.Equal(t, "high\n\nmid\n\nlow", got)
}

func TestAssembleContext_RecencyWeightsSimilarity(t *testing.T) {
	// b 的相似度更高，但 recency 权重使 a 的综合分更高
	candidates := []entity.MatchCandidate{
		{ID: "a", Content: "recent", Similarity: 0.7, RecencyScore: 1.0},
		{ID: "b", Content: "stale", Similarity: 0.9, RecencyScore: 0.5},
	}

	got := AssembleContext(candidates)

	assert.Equal(t, "recent\n\nstale", got)
}

func TestAssembleContext_StableOnTies(t *testing.T) {
	candidates := []entity.MatchCandidate{
		{ID: "first", Content: "first", Similarity: 0.8, RecencyScore: 1.0},
		{ID: "second", Content: "second", Similarity: 0.8, RecencyScore: 1.0},
		{ID: "third", Content: "third", Similarity: 0.8, RecencyScore: 1.0},
	}

	got := AssembleContext(candidates)

	assert.Equal(t, "first\n\nsecond\n\nthird", got)
}

func TestAssembleContext_MissingContentKeepsEmptySegment(t *testing.T) {
	candidates := []entity.MatchCandidate{
		{ID: "a", Content: "head", Similarity: 0.9, RecencyScore: 1.0},
		{ID: "b", Content: "", Similarity: 0.8, RecencyScore: 1.0},
		{ID: "c", Content: "tail", Similarity: 0.7, RecencyScore: 1.0},
	}

	got := AssembleContext(candidates)

	// 缺失内容的候选保留为空段，产生连续分隔符
	assert.Equal(t, "head\n\n\n\ntail", got)
}

func TestAssembleContext_Deterministic(t *testing.T) {
	candidates := []entity.MatchCandidate{
		{ID: "a", Content: "x", Similarity: 0.6, RecencyScore: 0.9},
		{ID: "b", Content: "y", Similarity: 0.9, RecencyScore: 0.6},
		{ID: "c", Content: "z", Similarity: 0.3, RecencyScore: 1.0},
	}

	first := AssembleContext(candidates)
	second := AssembleContext(candidates)

	assert.Equal(t, first, second)
}

func TestAssembleContext_DoesNotMutateInput(t *testing.T) {
	candidates := []entity.MatchCandidate{
		{ID: "a", Content: "low", Similarity: 0.1, RecencyScore: 1.0},
		{ID: "b", Content: "high", Similarity: 0.9, RecencyScore: 1.0},
	}

	_ = AssembleContext(candidates)

	assert.Equal(t, "a", candidates[0].ID)
	assert.Equal(t, "b", candidates[1].ID)
}
