package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/hqpham/studyflow/internal/model"
)

var ErrMalformedResponse = errors.New("assistant: malformed bridge response")

// Request is the payload sent to the remote suggestion bridge.
type Request struct {
	Prompt          string `json:"prompt"`
	Mood            string `json:"mood,omitempty"`
	TaskCount       int    `json:"taskCount,omitempty"`
	HasPendingTasks bool   `json:"hasPendingTasks,omitempty"`
}

// Client is the remote suggestion bridge boundary. Implementations return an
// error for transport failures, non-success statuses, and bodies that do not
// normalize into the strict response shapes; callers fall back locally.
type Client interface {
	// Respond asks the bridge for a full assistant response.
	Respond(ctx context.Context, req Request) (model.AIResponse, error)
	// GenerateSuggestions asks the bridge for task suggestions only.
	GenerateSuggestions(ctx context.Context, prompt, mood string) ([]model.AISuggestion, error)
}

// HTTPClient talks to the bridge over HTTP. No request timeout is imposed
// here; cancellation, if any, comes from the caller's context.
type HTTPClient struct {
	RespondURL string
	SuggestURL string
	HTTP       *http.Client
}

func NewHTTPClient(respondURL, suggestURL string) *HTTPClient {
	return &HTTPClient{
		RespondURL: respondURL,
		SuggestURL: suggestURL,
		HTTP:       http.DefaultClient,
	}
}

func (c *HTTPClient) Respond(ctx context.Context, req Request) (model.AIResponse, error) {
	body, err := c.post(ctx, c.RespondURL, req)
	if err != nil {
		return model.AIResponse{}, err
	}
	return normalizeResponse(body)
}

func (c *HTTPClient) GenerateSuggestions(ctx context.Context, prompt, mood string) ([]model.AISuggestion, error) {
	body, err := c.post(ctx, c.SuggestURL, Request{Prompt: prompt, Mood: mood})
	if err != nil {
		return nil, err
	}
	resp, err := normalizeResponse(body)
	if err != nil {
		return nil, err
	}
	if len(resp.Suggestions) == 0 {
		return nil, fmt.Errorf("%w: no suggestions", ErrMalformedResponse)
	}
	return resp.Suggestions, nil
}

func (c *HTTPClient) post(ctx context.Context, url string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("assistant: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("assistant: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assistant: bridge request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("assistant: bridge status %d", res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("assistant: read bridge response: %w", err)
	}
	return body, nil
}

// Loose wire shapes for the not-fully-trusted bridge payload. Everything is
// validated into the strict model types before internal code touches it.
type wireSuggestion struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	EstimatedMinutes *float64 `json:"estimatedMinutes"`
	Priority         string   `json:"priority"`
	SuggestedSlot    *string  `json:"suggestedSlot"`
}

type wireResponse struct {
	Action      string           `json:"action"`
	Message     string           `json:"message"`
	Suggestions []wireSuggestion `json:"suggestions"`
	Analysis    *model.TaskStats `json:"analysis"`
	Error       string           `json:"error"`
}

// normalizeResponse accepts either a bare {suggestions: [...]} body or a
// full response envelope and converts it to the strict AIResponse shape.
func normalizeResponse(body []byte) (model.AIResponse, error) {
	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return model.AIResponse{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if wire.Error != "" {
		return model.AIResponse{}, fmt.Errorf("assistant: bridge error: %s", wire.Error)
	}

	suggestions := make([]model.AISuggestion, 0, len(wire.Suggestions))
	for _, ws := range wire.Suggestions {
		s, ok := normalizeSuggestion(ws)
		if !ok {
			continue
		}
		suggestions = append(suggestions, s)
	}

	if wire.Action == "" {
		// Suggestions-only body (the generateTask endpoint shape).
		if len(suggestions) == 0 {
			return model.AIResponse{}, fmt.Errorf("%w: empty body", ErrMalformedResponse)
		}
		return model.AIResponse{
			Action:      model.ActionCreateTask,
			Message:     fmt.Sprintf("✅ Đã tạo %d task đề xuất cho bạn!", len(suggestions)),
			Suggestions: suggestions,
		}, nil
	}

	action := model.AIAction(wire.Action)
	if !action.IsValid() {
		return model.AIResponse{}, fmt.Errorf("%w: action %q", ErrMalformedResponse, wire.Action)
	}
	if wire.Message == "" {
		return model.AIResponse{}, fmt.Errorf("%w: missing message", ErrMalformedResponse)
	}
	return model.AIResponse{
		Action:      action,
		Message:     wire.Message,
		Suggestions: suggestions,
		Analysis:    wire.Analysis,
	}, nil
}

// normalizeSuggestion validates one proposal; entries that cannot be made
// well-formed are dropped rather than propagated.
func normalizeSuggestion(ws wireSuggestion) (model.AISuggestion, bool) {
	if ws.Title == "" {
		return model.AISuggestion{}, false
	}
	s := model.AISuggestion{Title: ws.Title, Description: ws.Description}
	if ws.EstimatedMinutes != nil && *ws.EstimatedMinutes > 0 {
		s.EstimatedMinutes = int(*ws.EstimatedMinutes)
	}
	if p := model.SuggestionPriority(ws.Priority); p.IsValid() {
		s.Priority = p
	}
	if ws.SuggestedSlot != nil {
		if ts, ok := model.ParseTime(*ws.SuggestedSlot); ok {
			s.SuggestedSlot = &ts
		}
	}
	return s, true
}
