// Package backend is the HTTP client for the companion backend. The
// backend owns the language model, emotion simulation, and memory; this
// client only speaks its request/response contract.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/auralab/companion/internal/model/emotion"
)

// Client talks to the companion backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend client rooted at baseURL, e.g.
// "http://localhost:8080/api".
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ChatRequest is the payload for POST /chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
	UserID    string `json:"userId,omitempty"`
}

// ChatResponse carries the reply text, the (possibly new) session id, and
// the updated emotion snapshot.
type ChatResponse struct {
	Response  string         `json:"response"`
	SessionID string         `json:"sessionId,omitempty"`
	Emotions  emotion.Vector `json:"emotions,omitempty"`
}

// EndChatRequest is the payload for POST /end-chat.
type EndChatRequest struct {
	SessionID  string         `json:"sessionId"`
	UserID     string         `json:"userId"`
	SurveyData map[string]any `json:"surveyData,omitempty"`
}

// EndChatResponse reports what the backend persisted on session end. It is
// logged, not acted on.
type EndChatResponse struct {
	Success       bool   `json:"success"`
	MemorySaved   bool   `json:"memory_saved"`
	TrackingSaved bool   `json:"tracking_saved"`
	UpdatedMemory string `json:"updated_memory,omitempty"`
}

// ResetResponse is the result of POST /reset.
type ResetResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	EmotionsDeleted bool   `json:"emotions_deleted"`
	MemoryDeleted   bool   `json:"memory_deleted"`
	UserID          string `json:"userId"`
}

// UserConfig is the persisted per-user configuration from GET /config/all.
type UserConfig struct {
	Memory       string         `json:"memory"`
	Emotions     emotion.Vector `json:"emotions"`
	BaseEmotions emotion.Vector `json:"baseEmotions"`
}

// Chat sends a user message and returns the backend reply.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EndChat signals that the conversation is over. Fire-and-forget from the
// caller's point of view; the response is returned only for logging.
func (c *Client) EndChat(ctx context.Context, req EndChatRequest) (*EndChatResponse, error) {
	var resp EndChatResponse
	if err := c.do(ctx, http.MethodPost, "/end-chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reset clears the user's server-side conversation state.
func (c *Client) Reset(ctx context.Context, userID string) (*ResetResponse, error) {
	payload := map[string]string{"userId": userID}
	var resp ResetResponse
	if err := c.do(ctx, http.MethodPost, "/reset", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Emotions fetches the user's current mood vector.
func (c *Client) Emotions(ctx context.Context, userID string) (emotion.Vector, error) {
	var resp struct {
		Emotions emotion.Vector `json:"emotions"`
	}
	if err := c.do(ctx, http.MethodGet, "/config/emotions?userId="+userID, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Emotions, nil
}

// PutEmotions replaces the user's current mood vector.
func (c *Client) PutEmotions(ctx context.Context, userID string, v emotion.Vector) error {
	payload := map[string]any{"userId": userID, "emotions": v}
	return c.do(ctx, http.MethodPut, "/config/emotions", payload, nil)
}

// BaseEmotions fetches the user's persisted base distribution.
func (c *Client) BaseEmotions(ctx context.Context, userID string) (emotion.Vector, error) {
	var resp struct {
		BaseEmotions emotion.Vector `json:"baseEmotions"`
	}
	if err := c.do(ctx, http.MethodGet, "/config/base-emotions?userId="+userID, nil, &resp); err != nil {
		return nil, err
	}
	return resp.BaseEmotions, nil
}

// PutBaseEmotions replaces the user's persisted base distribution.
func (c *Client) PutBaseEmotions(ctx context.Context, userID string, v emotion.Vector) error {
	payload := map[string]any{"userId": userID, "baseEmotions": v}
	return c.do(ctx, http.MethodPut, "/config/base-emotions", payload, nil)
}

// Config fetches the whole persisted user configuration.
func (c *Client) Config(ctx context.Context, userID string) (*UserConfig, error) {
	var resp UserConfig
	if err := c.do(ctx, http.MethodGet, "/config/all?userId="+userID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do performs one JSON round trip. Non-2xx statuses and undecodable bodies
// are both terminal failures for the call.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", method, path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %s", method, path, decodeErrorMessage(resp))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeErrorMessage(resp *http.Response) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return resp.Status
}
