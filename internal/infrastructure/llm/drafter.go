package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"JobSniper/internal/config"
	"JobSniper/internal/ports"
)

// Longer descriptions add cost without improving the draft.
const maxSummaryChars = 500

const defaultSystemPrompt = "You write short, confident freelance proposals."

// Drafter writes proposal drafts via an OpenAI-compatible chat API.
type Drafter struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	httpClient   *http.Client
}

var _ ports.Drafter = (*Drafter)(nil)

// NewDrafter builds a client from configuration.
func NewDrafter(cfg config.LLMConfig) *Drafter {
	return &Drafter{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Draft asks the model for a proposal tailored to one posting. Callers are
// expected to substitute their own fallback text on error; Draft never
// fabricates content.
func (d *Drafter) Draft(ctx context.Context, title, summary string) (string, error) {
	if d == nil {
		return "", fmt.Errorf("drafter is nil")
	}
	if d.apiKey == "" || d.endpoint == "" || d.model == "" {
		return "", fmt.Errorf("drafter misconfigured")
	}

	if runes := []rune(summary); len(runes) > maxSummaryChars {
		summary = string(runes[:maxSummaryChars])
	}

	body, err := json.Marshal(map[string]any{
		"model": d.model,
		"messages": []map[string]string{
			{"role": "system", "content": safePrompt(d.systemPrompt)},
			{"role": "user", "content": buildPrompt(title, summary)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal draft payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+d.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request draft: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("llm error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode draft response: %w", err)
	}

	if len(out.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}

	draft := strings.TrimSpace(out.Choices[0].Message.Content)
	if draft == "" {
		return "", fmt.Errorf("blank completion")
	}
	return draft, nil
}

func buildPrompt(title, summary string) string {
	return fmt.Sprintf(`Act as a senior freelance developer with 5+ years of experience.

Write a short, punchy, professional proposal for this job:

JOB TITLE: %s

JOB DESCRIPTION: %s

GUIDELINES:
- Start with understanding their problem
- Keep it under 150 words
- Be confident but not arrogant
- End with a clear call to action
- No generic templates; address THEIR specific problem

Write the proposal now:`, title, summary)
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return defaultSystemPrompt
	}
	return prompt
}
