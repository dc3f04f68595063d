// Package vectorsearch 基于 Supabase RPC 的向量相似度检索
package vectorsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/supabase-community/supabase-go"

	"github.com/s-swart/sara-chatbot/internal/application/chat"
	"github.com/s-swart/sara-chatbot/internal/config"
	"github.com/s-swart/sara-chatbot/internal/domain/entity"
	"github.com/s-swart/sara-chatbot/pkg/errors"
	"github.com/s-swart/sara-chatbot/pkg/metrics"
)

// Client 通过 Supabase PostgREST RPC 调用数据库匹配函数
type Client struct {
	sb      *supabase.Client
	fn      string
	timeout time.Duration
}

// rpcParams 与数据库匹配函数的入参对应
type rpcParams struct {
	QueryEmbedding []float32 `json:"query_embedding"`
	MatchThreshold float64   `json:"match_threshold"`
	MatchCount     int       `json:"match_count"`
}

// matchRow 匹配函数返回的行
type matchRow struct {
	ID           string   `json:"id"`
	Content      string   `json:"content"`
	Similarity   *float64 `json:"similarity"`
	RecencyScore *float64 `json:"recency_score"`
}

// rpcError PostgREST 错误响应体
type rpcError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// NewClient 创建 Supabase 检索客户端。
// URL 或密钥缺失时返回 (nil, nil)，调用方据此降级为无上下文模式。
func NewClient(cfg *config.SearchConfig) (*Client, error) {
	if cfg.URL == "" || cfg.ServiceKey == "" {
		return nil, nil
	}

	sb, err := supabase.NewClient(cfg.URL, cfg.ServiceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	fn := cfg.MatchFunction
	if fn == "" {
		fn = "match_resume_chunks"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{sb: sb, fn: fn, timeout: timeout}, nil
}

// Search 执行向量检索并返回候选片段
func (c *Client) Search(ctx context.Context, q chat.SearchQuery) ([]entity.MatchCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	raw, err := c.call(ctx, rpcParams{
		QueryEmbedding: q.Vector,
		MatchThreshold: q.Threshold,
		MatchCount:     q.Limit,
	})
	metrics.VectorSearchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.VectorSearchTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	candidates, err := decodeMatches(raw)
	if err != nil {
		metrics.VectorSearchTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.VectorSearchTotal.WithLabelValues("ok").Inc()
	return candidates, nil
}

// call 在独立 goroutine 中执行 RPC，postgrest 客户端不接受 ctx
func (c *Client) call(ctx context.Context, body rpcParams) (string, error) {
	done := make(chan string, 1)
	go func() {
		done <- c.sb.Rpc(c.fn, "", body)
	}()

	select {
	case <-ctx.Done():
		return "", errors.Wrap(ctx.Err(), errors.CodeVectorSearchFailed, "vector search timed out")
	case raw := <-done:
		return raw, nil
	}
}

// decodeMatches 解析 RPC 响应体。
// postgrest 客户端在传输失败时返回空串，PostgREST 层错误返回 JSON 对象，
// 成功时返回行数组。
func decodeMatches(raw string) ([]entity.MatchCandidate, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errors.New(errors.CodeVectorSearchFailed, "vector search request failed")
	}

	if strings.HasPrefix(trimmed, "{") {
		var e rpcError
		if err := json.Unmarshal([]byte(trimmed), &e); err == nil && e.Message != "" {
			return nil, errors.New(errors.CodeVectorSearchFailed, "vector search rejected").WithDetail(e.Message)
		}
		return nil, errors.New(errors.CodeVectorSearchFailed, "unexpected vector search response")
	}

	var rows []matchRow
	if err := json.Unmarshal([]byte(trimmed), &rows); err != nil {
		return nil, errors.Wrap(err, errors.CodeVectorSearchFailed, "failed to decode vector search response")
	}

	candidates := make([]entity.MatchCandidate, 0, len(rows))
	for _, row := range rows {
		similarity := 0.0
		if row.Similarity != nil {
			similarity = *row.Similarity
		}
		candidates = append(candidates, entity.NewMatchCandidate(row.ID, row.Content, similarity, row.RecencyScore))
	}
	return candidates, nil
}

var _ chat.VectorSearcher = (*Client)(nil)
