package extract

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

	"github.com/kilianp07/courseadvisor/auth"
	core "github.com/kilianp07/courseadvisor/core/extract"
	"github.com/kilianp07/courseadvisor/core/logger"
	infralog "github.com/kilianp07/courseadvisor/infra/logger"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-3.5-turbo"
	defaultTimeout = 30 * time.Second
)

const systemPrompt = `You help students choose classes. Read the student's message and return a single JSON object with these fields:
- max_commute_time: maximum commute in minutes (integer)
- preferred_time_slots: list of class start times in 24-hour "HH:MM" format
- preferred_days: list of weekday names
- max_classes_per_day: integer
- min_gap_between_classes: minimum gap between classes in minutes (integer)
- preferred_subjects: list of subject names
- preferred_campus: campus name, optional
- required_credits: number of credits the student needs (integer)
Leave out any field the student did not mention. Do not guess.`

// ChatConfig configures the chat-completion extractor.
type ChatConfig struct {
	BaseURL string        `json:"base_url"`
	Model   string        `json:"model"`
	APIKey  string        `json:"api_key"`
	Timeout time.Duration `json:"timeout"`
	// OAuth replaces the static API key with client-credentials tokens.
	OAuth auth.Conf `json:"oauth"`
}

// SetDefaults fills unset fields.
func (c *ChatConfig) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate requires one way to authenticate.
func (c ChatConfig) Validate() error {
	if c.APIKey == "" && !c.OAuth.Enabled() {
		return errors.New("chat extractor: api_key or oauth is required")
	}
	return nil
}

// ChatExtractor asks a chat-completion endpoint to turn free text into a
// field record.
type ChatExtractor struct {
	cfg    ChatConfig
	client *http.Client
	creds  *auth.ClientCred
	log    logger.Logger
}

// NewChatExtractor validates cfg and returns a ready extractor.
func NewChatExtractor(cfg ChatConfig) (*ChatExtractor, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &ChatExtractor{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    infralog.New("chat-extractor"),
	}
	if cfg.OAuth.Enabled() {
		e.creds = auth.NewClientCred(cfg.OAuth)
	}
	return e, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Extract sends raw to the model and converts the returned JSON. Transport
// failures are returned as errors; unusable model output is ErrNotUnderstood.
func (e *ChatExtractor) Extract(ctx context.Context, raw string) (core.Outcome, error) {
	if strings.TrimSpace(raw) == "" {
		return core.Outcome{}, core.ErrNotUnderstood
	}
	body, err := json.Marshal(chatRequest{
		Model: e.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: raw},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return core.Outcome{}, fmt.Errorf("failed to encode request: %w", err)
	}
	url := strings.TrimRight(e.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return core.Outcome{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err := e.authorize(req); err != nil {
		return core.Outcome{}, fmt.Errorf("failed to set auth header: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return core.Outcome{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.Outcome{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return core.Outcome{}, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, data)
	}

	var cr chatResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return core.Outcome{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return core.Outcome{}, fmt.Errorf("%w: no choices returned", core.ErrNotUnderstood)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(cr.Choices[0].Message.Content), &rec); err != nil {
		e.log.Warnf("model returned non-JSON content: %v", err)
		return core.Outcome{}, fmt.Errorf("%w: %v", core.ErrNotUnderstood, err)
	}
	return core.FromFields(rec)
}

func (e *ChatExtractor) authorize(req *http.Request) error {
	if e.creds != nil {
		return e.creds.SetAuthHeader(req)
	}
	req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	return nil
}
