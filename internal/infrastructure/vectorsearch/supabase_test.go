package vectorsearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s-swart/sara-chatbot/internal/application/chat"
	"github.com/s-swart/sara-chatbot/internal/config"
	"github.com/s-swart/sara-chatbot/pkg/errors"
)

func TestNewClientMissingCredentials(t *testing.T) {
	c, err := NewClient(&config.SearchConfig{})
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = NewClient(&config.SearchConfig{URL: "https://example.supabase.co"})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func newTestSearchClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(&config.SearchConfig{
		URL:           srv.URL,
		ServiceKey:    "service-key",
		MatchFunction: "match_resume_chunks",
		Timeout:       2 * time.Second,
	})
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}

func TestSearchDecodesRows(t *testing.T) {
	var gotBody map[string]any
	client := newTestSearchClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/rpc/match_resume_chunks"), "unexpected path %s", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"c1","content":"Led the data platform team.","similarity":0.91,"recency_score":0.8},
			{"id":"c2","content":"Built ETL pipelines.","similarity":0.82}
		]`))
	})

	got, err := client.Search(context.Background(), chat.SearchQuery{
		Vector:    []float32{0.1, 0.2, 0.3},
		Threshold: 0.75,
		Limit:     6,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "Led the data platform team.", got[0].Content)
	assert.InDelta(t, 0.91, got[0].Similarity, 1e-9)
	assert.InDelta(t, 0.8, got[0].RecencyScore, 1e-9)

	// recency_score 缺失默认 1.0
	assert.InDelta(t, 1.0, got[1].RecencyScore, 1e-9)

	assert.InDelta(t, 0.75, gotBody["match_threshold"].(float64), 1e-9)
	assert.InDelta(t, 6, gotBody["match_count"].(float64), 1e-9)
	require.Len(t, gotBody["query_embedding"].([]any), 3)
}

func TestSearchEmptyResult(t *testing.T) {
	client := newTestSearchClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	got, err := client.Search(context.Background(), chat.SearchQuery{Vector: []float32{0.1}, Threshold: 0.75, Limit: 6})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchTimeout(t *testing.T) {
	client := newTestSearchClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	})
	client.timeout = 20 * time.Millisecond

	_, err := client.Search(context.Background(), chat.SearchQuery{Vector: []float32{0.1}, Threshold: 0.75, Limit: 6})
	require.Error(t, err)
	assert.Equal(t, errors.CodeVectorSearchFailed, errors.CodeOf(err))
}

func TestDecodeMatches(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantErr  bool
		wantLen  int
		wantCode errors.ErrorCode
	}{
		{
			name:    "rows",
			raw:     `[{"id":"a","content":"x","similarity":0.9}]`,
			wantLen: 1,
		},
		{
			name:    "empty array",
			raw:     `[]`,
			wantLen: 0,
		},
		{
			name:     "transport failure collapses to empty body",
			raw:      "",
			wantErr:  true,
			wantCode: errors.CodeVectorSearchFailed,
		},
		{
			name:     "postgrest error object",
			raw:      `{"code":"42883","message":"function match_resume_chunks does not exist"}`,
			wantErr:  true,
			wantCode: errors.CodeVectorSearchFailed,
		},
		{
			name:     "malformed payload",
			raw:      `[{"id":`,
			wantErr:  true,
			wantCode: errors.CodeVectorSearchFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeMatches(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestDecodeMatchesMissingSimilarityDefaultsZero(t *testing.T) {
	got, err := decodeMatches(`[{"id":"a","content":"x"}]`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Zero(t, got[0].Similarity)
	assert.Zero(t, got[0].CombinedScore())
}

func TestDecodeMatchesKeepsErrorDetail(t *testing.T) {
	_, err := decodeMatches(`{"message":"permission denied for function match_resume_chunks"}`)
	require.Error(t, err)

	appErr := errors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Detail, "permission denied")
}
