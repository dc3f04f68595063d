package llm

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s-swart/sara-chatbot/internal/config"
	"github.com/s-swart/sara-chatbot/pkg/errors"
)

type stubChatModel struct {
	resp    *schema.Message
	err     error
	got     []*schema.Message
	gotOpts []model.Option
}

func (s *stubChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	s.got = input
	s.gotOpts = opts
	return s.resp, s.err
}

func (s *stubChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, stderrors.New("stream not supported")
}

type stubFactory struct {
	chatModel model.BaseChatModel
	err       error
}

func (s *stubFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	return s.chatModel, s.err
}

func newTestClient(m model.BaseChatModel, factoryErr error) *CompletionClient {
	return NewCompletionClient(
		&stubFactory{chatModel: m, err: factoryErr},
		&config.LLMConfig{
			DefaultProvider: "openai",
			Providers: map[string]config.ProviderConfig{
				"openai": {Model: "gpt-4o-mini"},
			},
		},
	)
}

func TestCompleteReturnsFirstReply(t *testing.T) {
	stub := &stubChatModel{resp: schema.AssistantMessage("Sara has 8 years of experience.", nil)}
	client := newTestClient(stub, nil)

	messages := []*schema.Message{
		schema.SystemMessage("You are Sara's assistant."),
		schema.UserMessage("Context:\nX\n\nQuestion: experience?"),
	}
	reply, err := client.Complete(context.Background(), messages, 0.7)
	require.NoError(t, err)
	assert.Equal(t, "Sara has 8 years of experience.", reply)
	assert.Equal(t, messages, stub.got)

	opts := model.GetCommonOptions(&model.Options{}, stub.gotOpts...)
	require.NotNil(t, opts.Temperature)
	assert.InDelta(t, 0.7, float64(*opts.Temperature), 1e-6)
}

func TestCompleteEmptyContentUsesPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		resp *schema.Message
	}{
		{name: "empty content", resp: schema.AssistantMessage("", nil)},
		{name: "nil message", resp: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(&stubChatModel{resp: tt.resp}, nil)

			reply, err := client.Complete(context.Background(), []*schema.Message{schema.UserMessage("hi")}, 0.7)
			require.NoError(t, err)
			assert.Equal(t, "...", reply)
		})
	}
}

func TestCompleteQuotaErrorClassified(t *testing.T) {
	client := newTestClient(&stubChatModel{err: stderrors.New("429: You exceeded your current Quota")}, nil)

	_, err := client.Complete(context.Background(), []*schema.Message{schema.UserMessage("hi")}, 0.7)
	require.Error(t, err)
	assert.Equal(t, errors.CodeQuotaExceeded, errors.CodeOf(err))
}

func TestCompleteUpstreamErrorClassified(t *testing.T) {
	client := newTestClient(&stubChatModel{err: stderrors.New("connection reset by peer")}, nil)

	_, err := client.Complete(context.Background(), []*schema.Message{schema.UserMessage("hi")}, 0.7)
	require.Error(t, err)
	assert.Equal(t, errors.CodeLLMCallFailed, errors.CodeOf(err))
}

func TestCompleteProviderUnavailable(t *testing.T) {
	client := newTestClient(nil, stderrors.New("provider missing not found in LLM config"))

	_, err := client.Complete(context.Background(), []*schema.Message{schema.UserMessage("hi")}, 0.7)
	require.Error(t, err)
	assert.Equal(t, errors.CodeLLMCallFailed, errors.CodeOf(err))
}

func TestIsQuotaExceededError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "insufficient_quota", err: stderrors.New("error code 429: insufficient_quota"), want: true},
		{name: "upper case", err: stderrors.New("QUOTA EXCEEDED"), want: true},
		{name: "rate limit", err: stderrors.New("rate limit reached"), want: false},
		{name: "timeout", err: stderrors.New("context deadline exceeded"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsQuotaExceededError(tt.err))
		})
	}
}
