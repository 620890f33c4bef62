// Package bridge implements the remote suggestion relay: a small HTTP
// server that forwards prompts to a generative-text upstream and answers
// with a bounded list of task suggestions as JSON.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// ErrParseFailed marks an upstream reply whose text contained no JSON
// suggestion array. The server reports it to the caller as a soft failure.
var ErrParseFailed = errors.New("bridge: no suggestion array in model output")

// The upstream is instructed to answer with nothing but a JSON array of
// 1-3 task suggestions, scheduled within the next 7 days.
const systemPromptFormat = `Bạn là một trợ lý học tập thông minh.
Dựa trên input của người dùng, hãy trả về CHỈ JSON dạng mảng các object task suggestion:

[
  {
    "title": "string (tên task ngắn gọn)",
    "description": "string (mô tả chi tiết)",
    "estimatedMinutes": number (thời gian ước tính),
    "priority": "low|medium|high",
    "suggestedSlot": "2026-03-10T20:00:00+07:00" (hoặc null)
  }
]

Yêu cầu:
- Trả về 1-3 task suggestions
- Ưu tiên dựa trên mood: %s
- suggestedSlot nên là khung giờ hợp lý trong 7 ngày tới
- Không viết thêm text ngoài JSON
`

// Generator produces a raw JSON array of task suggestions for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt, mood string) (json.RawMessage, error)
}

// GeminiClient calls the Gemini generateContent API.
type GeminiClient struct {
	APIKey  string
	Model   string
	BaseURL string
	HTTP    *http.Client
}

func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: defaultBaseURL,
		HTTP:    http.DefaultClient,
	}
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) Generate(ctx context.Context, prompt, mood string) (json.RawMessage, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: fmt.Sprintf(systemPromptFormat, mood) + "\nUser input: " + prompt}},
		}},
		GenerationConfig: generationConfig{
			Temperature:      0.7,
			MaxOutputTokens:  800,
			ResponseMimeType: "application/json",
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("bridge: encode upstream request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.BaseURL, c.Model, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("bridge: build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bridge: upstream request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("bridge: read upstream response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("bridge: upstream status %d", res.StatusCode)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("bridge: decode upstream response: %w", err)
	}
	text := ""
	if len(parsed.Candidates) > 0 && len(parsed.Candidates[0].Content.Parts) > 0 {
		text = parsed.Candidates[0].Content.Parts[0].Text
	}
	return extractJSONArray(text)
}

// extractJSONArray pulls the first [...] span out of model output, which may
// be wrapped in prose or code fences despite the instructions.
func extractJSONArray(text string) (json.RawMessage, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, ErrParseFailed
	}
	candidate := json.RawMessage(text[start : end+1])
	if !json.Valid(candidate) {
		return nil, ErrParseFailed
	}
	return candidate, nil
}
