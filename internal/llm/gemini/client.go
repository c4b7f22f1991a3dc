package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fabriciorodias/matriculas-analyzer/internal/common"
	"github.com/fabriciorodias/matriculas-analyzer/internal/llm"
)

// triggerMessage is the final turn that kicks off the analysis after the
// prompt (instructions + document) has been supplied as history.
const triggerMessage = "Pode analisar a certidão fornecida!"

// safetySettings matches the thresholds the analysis was tuned against.
var safetySettings = []map[string]string{
	{"category": "HARM_CATEGORY_HARASSMENT", "threshold": "BLOCK_MEDIUM_AND_ABOVE"},
	{"category": "HARM_CATEGORY_HATE_SPEECH", "threshold": "BLOCK_MEDIUM_AND_ABOVE"},
	{"category": "HARM_CATEGORY_SEXUALLY_EXPLICIT", "threshold": "BLOCK_MEDIUM_AND_ABOVE"},
	{"category": "HARM_CATEGORY_DANGEROUS_CONTENT", "threshold": "BLOCK_MEDIUM_AND_ABOVE"},
}

// Complete implements llm.CompletionBackend over generateContent. Gemini's
// shape is multi-turn: the prompt goes in as a user history entry and a fixed
// trigger message closes the conversation.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.gemini.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"prompt_len", len(prompt),
	)

	body := map[string]any{
		"contents": []map[string]any{
			{"role": "user", "parts": []map[string]string{{"text": prompt}}},
			{"role": "user", "parts": []map[string]string{{"text": triggerMessage}}},
		},
		"generationConfig": map[string]any{
			"temperature":     c.cfg.Temperature,
			"topP":            c.cfg.TopP,
			"maxOutputTokens": c.cfg.MaxOutputTokens,
		},
		"safetySettings": safetySettings,
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model, url.QueryEscape(c.cfg.APIKey))

	raw, status, err := llm.SendJSON(ctx, c.http, endpoint, body, nil, c.logger)
	if err != nil {
		c.logger.Error("llm.gemini.http_error",
			"req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("%w: gemini: %v", common.ErrUpstreamUnavailable, err)
	}

	var gc struct {
		Candidates []struct {
			FinishReason string `json:"finishReason"`
			Content      struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason"`
		} `json:"promptFeedback"`
	}
	if err := json.Unmarshal(raw, &gc); err != nil {
		c.logger.Error("llm.gemini.decode_error", "req_id", rid, "error", err, "raw_bytes", len(raw))
		return "", fmt.Errorf("%w: decode gemini response: %v", common.ErrUpstreamUnavailable, err)
	}

	if gc.PromptFeedback.BlockReason != "" {
		c.logger.Error("llm.gemini.blocked", "req_id", rid, "reason", gc.PromptFeedback.BlockReason)
		return "", fmt.Errorf("%w: gemini blocked prompt: %s", common.ErrUpstreamRejected, gc.PromptFeedback.BlockReason)
	}
	if len(gc.Candidates) == 0 {
		c.logger.Error("llm.gemini.no_candidates", "req_id", rid, "raw_bytes", len(raw))
		return "", fmt.Errorf("%w: no candidates in gemini response", common.ErrUpstreamUnavailable)
	}
	if gc.Candidates[0].FinishReason == "SAFETY" {
		c.logger.Error("llm.gemini.safety_stop", "req_id", rid)
		return "", fmt.Errorf("%w: gemini safety stop", common.ErrUpstreamRejected)
	}

	var b strings.Builder
	for _, p := range gc.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	content := strings.TrimSpace(b.String())

	c.logger.Info("llm.gemini.ok",
		"req_id", rid,
		"content_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}
