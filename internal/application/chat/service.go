package chat

import (
	"context"
	"strconv"
	"time"

	"github.com/cloudwego/eino/components/embedding"

	"github.com/s-swart/sara-chatbot/internal/domain/entity"
	"github.com/s-swart/sara-chatbot/pkg/errors"
	"github.com/s-swart/sara-chatbot/pkg/logger"
	"github.com/s-swart/sara-chatbot/pkg/metrics"
	"github.com/s-swart/sara-chatbot/pkg/tracer"
)

const (
	defaultMatchThreshold = 0.75
	defaultMatchCount     = 6
	defaultTemperature    = 0.7
)

// Service 编排一次聊天请求：嵌入 -> 检索 -> 组装 -> 构建提示词 -> 补全 -> 格式化。
// 单次执行，无重试；嵌入/检索失败仅降级为零候选，补全失败为终态错误。
type Service struct {
	embedder embedding.Embedder
	searcher VectorSearcher
	llm      Completer
	persona  Persona

	threshold   float64
	limit       int
	temperature float32
}

// NewService 创建聊天服务。embedder 或 searcher 为 nil 表示未配置上下文增强，
// threshold/limit/temperature 非正值时取默认
func NewService(embedder embedding.Embedder, searcher VectorSearcher, llm Completer, persona Persona, threshold float64, limit int, temperature float64) *Service {
	if threshold <= 0 {
		threshold = defaultMatchThreshold
	}
	if limit <= 0 {
		limit = defaultMatchCount
	}
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	return &Service{
		embedder:    embedder,
		searcher:    searcher,
		llm:         llm,
		persona:     persona,
		threshold:   threshold,
		limit:       limit,
		temperature: float32(temperature),
	}
}

// Persona 返回服务绑定的人设
func (s *Service) Persona() Persona {
	return s.persona
}

// EnrichmentEnabled 是否具备上下文增强能力
func (s *Service) EnrichmentEnabled() bool {
	return s != nil && s.embedder != nil && s.searcher != nil
}

// Respond 处理一次用户提问，返回格式化后的回复
func (s *Service) Respond(ctx context.Context, in AskInput) (*AskOutput, error) {
	if in.Message == "" {
		return nil, errors.New(errors.CodeInvalidParam, "message is empty")
	}

	ctx, span := tracer.Start(ctx, "chat.Respond")
	defer span.End()

	out := &AskOutput{}

	contextBlock := ""
	switch {
	case in.DisableEnrichment:
		out.SkipReason = "disabled by request"
		metrics.EnrichmentSkippedTotal.WithLabelValues("request_flag").Inc()
	case !s.EnrichmentEnabled():
		out.SkipReason = "enrichment not configured"
		metrics.EnrichmentSkippedTotal.WithLabelValues("not_configured").Inc()
	default:
		candidates, reason := s.retrieve(ctx, in.Message)
		if reason != "" {
			out.SkipReason = reason
			metrics.EnrichmentSkippedTotal.WithLabelValues("upstream_error").Inc()
		}
		out.CandidateCount = len(candidates)
		metrics.ContextCandidates.Observe(float64(len(candidates)))
		contextBlock = AssembleContext(candidates)
	}
	out.ContextUsed = contextBlock != ""

	messages := BuildMessages(s.persona.SystemPrompt, contextBlock, in.Message)

	start := time.Now()
	cctx, cspan := tracer.Start(ctx, "chat.complete")
	reply, err := s.llm.Complete(cctx, messages, s.temperature)
	cspan.End()
	metrics.ChatStageDuration.WithLabelValues("complete").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ChatRequestsTotal.WithLabelValues("error", strconv.FormatBool(out.ContextUsed)).Inc()
		return nil, err
	}

	out.Reply = FormatReply(s.persona.Name, reply, contextBlock)
	metrics.ChatRequestsTotal.WithLabelValues("ok", strconv.FormatBool(out.ContextUsed)).Inc()
	return out, nil
}

// retrieve 执行嵌入与相似度检索；任何失败只记录告警并以零候选降级
func (s *Service) retrieve(ctx context.Context, question string) ([]entity.MatchCandidate, string) {
	ctx, span := tracer.Start(ctx, "chat.retrieve")
	defer span.End()

	start := time.Now()
	vector, err := s.embedQuestion(ctx, question)
	metrics.ChatStageDuration.WithLabelValues("embed").Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Warn(ctx, "embedding failed, skipping context enrichment", "error", err.Error())
		return nil, err.Error()
	}

	start = time.Now()
	candidates, err := s.searcher.Search(ctx, SearchQuery{
		Vector:    vector,
		Threshold: s.threshold,
		Limit:     s.limit,
	})
	metrics.ChatStageDuration.WithLabelValues("search").Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Warn(ctx, "similarity search failed, skipping context enrichment", "error", err.Error())
		return nil, err.Error()
	}
	return candidates, ""
}

// embedQuestion 生成问题向量，[][]float64 转为检索服务使用的 []float32
func (s *Service) embedQuestion(ctx context.Context, question string) ([]float32, error) {
	v64, err := s.embedder.EmbedStrings(ctx, []string{question})
	if err != nil {
		return nil, err
	}
	if len(v64) == 0 {
		return nil, errors.New(errors.CodeEmbeddingFailed, "empty embedding result")
	}
	vec := v64[0]
	out := make([]float32, 0, len(vec))
	for _, x := range vec {
		out = append(out, float32(x))
	}
	return out, nil
}
