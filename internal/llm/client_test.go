package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"tenderbolt/internal/config"
	"tenderbolt/models"
)

func chatReply(t *testing.T, content string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func TestAnalyzeDocument(t *testing.T) {
	content := `{"summary": "A bridge tender.", "insights": [
		{"type": "requirement", "content": "Contractor must provide insurance", "citation": "p. 3"},
		{"type": "deadline", "content": "Bids due 12/31/2025", "citation": ""},
		{"type": "opinion", "content": "dropped: unknown type"},
		{"type": "risk", "content": ""}
	]}`
	srv := httptest.NewServer(chatReply(t, content))
	defer srv.Close()

	client := NewClient(config.LLMConfig{Endpoint: srv.URL, Model: "test-model", APIKey: "test-key"})
	require.True(t, client.Enabled())

	analysis, err := client.AnalyzeDocument(context.Background(), "doc-1", "rfp.txt", "full text")
	require.NoError(t, err)
	require.Equal(t, "A bridge tender.", analysis.Summary)

	// Unknown types and empty contents are dropped, empty citations fall
	// back to the filename.
	require.Len(t, analysis.Candidates, 2)
	require.Equal(t, models.InsightRequirement, analysis.Candidates[0].Type)
	require.Equal(t, "p. 3", analysis.Candidates[0].Citation)
	require.Equal(t, models.InsightDeadline, analysis.Candidates[1].Type)
	require.Equal(t, "rfp.txt", analysis.Candidates[1].Citation)
	require.Equal(t, "doc-1", analysis.Candidates[1].SourceDocumentID)
}

func TestAnalyzeDocumentFencedJSON(t *testing.T) {
	content := "```json\n{\"summary\": \"S\", \"insights\": [{\"type\": \"risk\", \"content\": \"Penalty clause\"}]}\n```"
	srv := httptest.NewServer(chatReply(t, content))
	defer srv.Close()

	client := NewClient(config.LLMConfig{Endpoint: srv.URL, Model: "test-model", APIKey: "test-key"})

	analysis, err := client.AnalyzeDocument(context.Background(), "doc-1", "rfp.txt", "text")
	require.NoError(t, err)
	require.Len(t, analysis.Candidates, 1)
}

func TestAnalyzeDocumentServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(config.LLMConfig{Endpoint: srv.URL, Model: "test-model", APIKey: "test-key"})

	_, err := client.AnalyzeDocument(context.Background(), "doc-1", "rfp.txt", "text")
	require.Error(t, err)
	require.Contains(t, err.Error(), "quota exceeded")
}

func TestAnalyzeDocumentMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(chatReply(t, "sorry, I cannot help with that"))
	defer srv.Close()

	client := NewClient(config.LLMConfig{Endpoint: srv.URL, Model: "test-model", APIKey: "test-key"})

	_, err := client.AnalyzeDocument(context.Background(), "doc-1", "rfp.txt", "text")
	require.Error(t, err)
}

func TestDisabledClient(t *testing.T) {
	client := NewClient(config.LLMConfig{Endpoint: "https://example.org", Model: "m"})
	require.False(t, client.Enabled())

	_, err := client.AnalyzeDocument(context.Background(), "doc-1", "rfp.txt", "text")
	require.ErrorIs(t, err, ErrDisabled)
}

func TestStripCodeFence(t *testing.T) {
	require.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}
