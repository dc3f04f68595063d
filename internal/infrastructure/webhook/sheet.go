// Package webhook 将日志记录投递到外部表格 Webhook
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/s-swart/sara-chatbot/internal/config"
	"github.com/s-swart/sara-chatbot/internal/domain/entity"
	"github.com/s-swart/sara-chatbot/pkg/errors"
	"github.com/s-swart/sara-chatbot/pkg/metrics"
)

// Sink 表格 Webhook 的投递端
type Sink struct {
	url        string
	httpClient *http.Client
}

// sheetPayload 投递到表格端点的载荷。email 与 (userInput, botReply) 互斥。
type sheetPayload struct {
	Timestamp string `json:"timestamp"`
	SessionID string `json:"sessionId,omitempty"`
	Email     string `json:"email,omitempty"`
	UserInput string `json:"userInput,omitempty"`
	BotReply  string `json:"botReply,omitempty"`
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
}

// NewSink 创建 Webhook 投递端
func NewSink(cfg *config.WebhookConfig) *Sink {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Sink{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Deliver 投递一条记录。URL 未配置视为配置错误而非静默丢弃。
func (s *Sink) Deliver(ctx context.Context, record *entity.LogRecord) error {
	if s.url == "" {
		return errors.New(errors.CodeConfigMissing, "webhook URL is not configured")
	}

	kind := string(record.Kind())
	body, err := json.Marshal(buildPayload(record))
	if err != nil {
		metrics.WebhookDeliveriesTotal.WithLabelValues(kind, "error").Inc()
		return errors.Wrap(err, errors.CodeLogDeliveryFailed, "failed to marshal log record")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		metrics.WebhookDeliveriesTotal.WithLabelValues(kind, "error").Inc()
		return errors.Wrap(err, errors.CodeLogDeliveryFailed, "failed to create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	metrics.WebhookDeliveryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.WebhookDeliveriesTotal.WithLabelValues(kind, "error").Inc()
		return errors.Wrap(err, errors.CodeLogDeliveryFailed, "webhook delivery failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.WebhookDeliveriesTotal.WithLabelValues(kind, "error").Inc()
		return errors.New(errors.CodeLogDeliveryFailed, "webhook delivery failed").
			WithDetail(fmt.Sprintf("status=%d", resp.StatusCode))
	}

	metrics.WebhookDeliveriesTotal.WithLabelValues(kind, "ok").Inc()
	return nil
}

// buildPayload 按记录类型选择载荷分支，时间戳一律取服务端时间
func buildPayload(record *entity.LogRecord) sheetPayload {
	p := sheetPayload{
		Timestamp: record.CreatedAt.UTC().Format(time.RFC3339),
		SessionID: record.SessionID,
		IP:        record.IPAddress,
		UserAgent: record.UserAgent,
	}
	if record.Kind() == entity.LogKindEmail {
		p.Email = record.Email
		return p
	}
	p.UserInput = record.UserInput
	p.BotReply = record.BotReply
	return p
}
