// Package llm implements document analysis against an OpenAI-compatible
// chat completion API. Calls are not retried; a failed analysis surfaces
// to the caller, which falls back to pattern extraction.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tenderbolt/internal/config"
	"tenderbolt/internal/insight"
	"tenderbolt/models"
)

// ErrDisabled marks a client constructed without an API key.
var ErrDisabled = errors.New("llm client disabled: no api key configured")

const systemPrompt = `You analyze tender and procurement documents. ` +
	`Given a document, respond with JSON only, shaped as ` +
	`{"summary": string, "insights": [{"type": "requirement"|"compliance"|"risk"|"deadline", "content": string, "citation": string}]}. ` +
	`Extract concrete requirements, compliance clauses, risks and deadlines. No prose outside the JSON.`

// Documents are truncated before prompting to keep requests bounded.
const maxPromptChars = 48000

type Client struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a client from configuration.
func NewClient(cfg config.LLMConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Enabled reports whether the client has credentials to work with.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != "" && c.endpoint != "" && c.model != ""
}

// Analysis is the parsed result of one document analysis.
type Analysis struct {
	Summary    string
	Candidates []insight.Candidate
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type analysisPayload struct {
	Summary  string `json:"summary"`
	Insights []struct {
		Type     string `json:"type"`
		Content  string `json:"content"`
		Citation string `json:"citation"`
	} `json:"insights"`
}

// AnalyzeDocument asks the model for insights and a summary of one
// document. Insight entries with unknown types or empty content are
// dropped rather than failing the whole analysis.
func (c *Client) AnalyzeDocument(ctx context.Context, documentID, filename, text string) (*Analysis, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": fmt.Sprintf("Document %q:\n\n%s", filename, text)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal analysis payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyze document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("llm error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, errors.New("llm returned no choices")
	}

	return parseAnalysis(chat.Choices[0].Message.Content, documentID, filename)
}

func parseAnalysis(content, documentID, filename string) (*Analysis, error) {
	var payload analysisPayload
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &payload); err != nil {
		return nil, fmt.Errorf("parse analysis JSON: %w", err)
	}

	a := &Analysis{Summary: strings.TrimSpace(payload.Summary)}
	for _, item := range payload.Insights {
		typ := models.InsightType(strings.ToLower(strings.TrimSpace(item.Type)))
		if !models.ValidInsightType(typ) || strings.TrimSpace(item.Content) == "" {
			continue
		}
		citation := strings.TrimSpace(item.Citation)
		if citation == "" {
			citation = filename
		}
		a.Candidates = append(a.Candidates, insight.Candidate{
			Type:             typ,
			Content:          strings.TrimSpace(item.Content),
			Citation:         citation,
			SourceDocumentID: documentID,
			SourceFilename:   filename,
		})
	}
	return a, nil
}

// stripCodeFence unwraps ```json ... ``` blocks some models emit despite
// the JSON-only instruction.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
