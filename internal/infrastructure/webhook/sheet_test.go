package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s-swart/sara-chatbot/internal/config"
	"github.com/s-swart/sara-chatbot/internal/domain/entity"
	"github.com/s-swart/sara-chatbot/pkg/errors"
)

func TestDeliverEmailRecord(t *testing.T) {
	var got sheetPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := NewSink(&config.WebhookConfig{URL: srv.URL})

	record := entity.NewEmailLogRecord("sess-1", "a@b.com")
	record.IPAddress = "203.0.113.9"
	record.UserAgent = "widget/1.0"

	require.NoError(t, sink.Deliver(context.Background(), record))

	assert.Equal(t, "a@b.com", got.Email)
	assert.Equal(t, "sess-1", got.SessionID)
	assert.Equal(t, "203.0.113.9", got.IP)
	assert.Equal(t, "widget/1.0", got.UserAgent)
	assert.Empty(t, got.UserInput)
	assert.Empty(t, got.BotReply)

	ts, err := time.Parse(time.RFC3339, got.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}

func TestDeliverInteractionRecord(t *testing.T) {
	var got sheetPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := NewSink(&config.WebhookConfig{URL: srv.URL})

	record := entity.NewInteractionLogRecord("", "Does she know GTM?", "Yes, from her agency years.")
	require.NoError(t, sink.Deliver(context.Background(), record))

	assert.Equal(t, "Does she know GTM?", got.UserInput)
	assert.Equal(t, "Yes, from her agency years.", got.BotReply)
	assert.Empty(t, got.Email)
	assert.Empty(t, got.SessionID)
}

func TestDeliverMissingURL(t *testing.T) {
	sink := NewSink(&config.WebhookConfig{})

	err := sink.Deliver(context.Background(), entity.NewEmailLogRecord("", "a@b.com"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigMissing, errors.CodeOf(err))
}

func TestDeliverServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "sheet exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	sink := NewSink(&config.WebhookConfig{URL: srv.URL})

	err := sink.Deliver(context.Background(), entity.NewEmailLogRecord("", "a@b.com"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeLogDeliveryFailed, errors.CodeOf(err))

	appErr := errors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Detail, "status=502")
}

func TestDeliverUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	sink := NewSink(&config.WebhookConfig{URL: srv.URL, Timeout: time.Second})

	err := sink.Deliver(context.Background(), entity.NewEmailLogRecord("", "a@b.com"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeLogDeliveryFailed, errors.CodeOf(err))
}
