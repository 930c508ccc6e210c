// Package notify posts scoring events to a Slack-style incoming webhook.
// Notifications are best-effort: failures are logged and never surface to
// the request that triggered them.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"tenderbolt/internal/httpx"
	"tenderbolt/internal/logging"
	"tenderbolt/models"
)

type Notifier struct {
	webhookURL string
	client     *httpx.Client
	log        *logging.Logger
}

// New builds a webhook notifier. An empty webhookURL yields a disabled
// notifier whose methods are no-ops.
func New(webhookURL string, client *httpx.Client, log *logging.Logger) *Notifier {
	return &Notifier{webhookURL: webhookURL, client: client, log: log}
}

func (n *Notifier) enabled() bool {
	return n != nil && n.webhookURL != "" && n.client != nil
}

// ScoringCompleted announces a recomputed win probability.
func (n *Notifier) ScoringCompleted(ctx context.Context, t *models.Tender) {
	if !n.enabled() {
		return
	}
	text := fmt.Sprintf("Tender %q scored: win probability %d%% (technical %d, commercial %d, compliance %d, risk %d)",
		t.Title, t.WinProbability, t.TechnicalScore, t.CommercialScore, t.ComplianceScore, t.RiskScore)
	n.post(ctx, text)
}

// InsightsExtracted announces a completed document analysis run.
func (n *Notifier) InsightsExtracted(ctx context.Context, tenderID, filename string, count int) {
	if !n.enabled() {
		return
	}
	n.post(ctx, fmt.Sprintf("Extracted %d insights from %q for tender %s", count, filename, tenderID))
}

func (n *Notifier) post(ctx context.Context, text string) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		n.log.Error("notify: marshal payload", "err", err)
		return
	}
	resp, err := n.client.Post(ctx, n.webhookURL, "application/json", payload)
	if err != nil {
		n.log.Warn("notify: webhook post failed", "err", err)
		return
	}
	resp.Body.Close()
}
