package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "http://localhost:11434"
	chatTimeout      = 60 * time.Second
	streamingTimeout = 300 * time.Second
	maxRetries       = 3
	initialBackoff   = 500 * time.Millisecond
)

// Client communicates with the model backend over HTTP.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// New creates a Client for the given base URL and model. An empty base
// URL falls back to the local default.
func New(baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 0,
		},
	}
}

// Model returns the configured model identifier. Reported by the health
// endpoint.
func (c *Client) Model() string { return c.model }

// chatRequest is the JSON body for POST /api/chat.
type chatRequest struct {
	Model    string       `json:"model"`
	Messages []Message    `json:"messages"`
	Stream   bool         `json:"stream"`
	Tools    []Tool       `json:"tools,omitempty"`
	Options  *chatOptions `json:"options,omitempty"`
}

type chatOptions struct {
	NumPredict int `json:"num_predict,omitempty"`
}

// chatChunk is one line of the backend's response, streamed or not.
type chatChunk struct {
	Message    Message `json:"message"`
	Done       bool    `json:"done"`
	DoneReason string  `json:"done_reason,omitempty"`

	PromptEvalCount int `json:"prompt_eval_count,omitempty"`
	EvalCount       int `json:"eval_count,omitempty"`
}

// Chat sends a non-streaming completion and returns the assistant's text.
// Used by delegated extraction and warm-up, not by turn generation.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return "", err
	}

	resp, err := c.post(ctx, body, chatTimeout)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var chunk chatChunk
	if err := json.NewDecoder(resp.Body).Decode(&chunk); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	return chunk.Message.Content, nil
}

// Stream runs one generation pass, emitting text deltas and tool calls to
// emit as they arrive, and returns the assembled result. It never buffers
// the full response before the first emit. A nil emit collects silently.
// Stream does not emit EventFinish; the caller owns stream termination
// because one logical turn may span several generation passes.
func (c *Client) Stream(ctx context.Context, req Request, emit func(Event)) (*Result, error) {
	messages := make([]Message, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, Message{Role: "system", Content: req.System})
	}
	messages = append(messages, req.Messages...)

	cr := chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
		Tools:    req.Tools,
	}
	if req.MaxTokens > 0 {
		cr.Options = &chatOptions{NumPredict: req.MaxTokens}
	}

	body, err := json.Marshal(cr)
	if err != nil {
		return nil, err
	}

	resp, err := c.post(ctx, body, streamingTimeout)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var (
		content strings.Builder
		result  Result
	)
	dec := json.NewDecoder(resp.Body)
	for {
		var chunk chatChunk
		if err := dec.Decode(&chunk); err == io.EOF {
			break
		} else if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("decoding stream chunk: %w", err)
		}

		if chunk.Message.Content != "" {
			content.WriteString(chunk.Message.Content)
			if emit != nil {
				emit(Event{Kind: EventTextDelta, Text: chunk.Message.Content})
			}
		}
		for i := range chunk.Message.ToolCalls {
			tc := chunk.Message.ToolCalls[i]
			result.ToolCalls = append(result.ToolCalls, tc)
			if emit != nil {
				emit(Event{Kind: EventToolCall, ToolCall: &tc})
			}
		}

		if chunk.Done {
			result.Finish = Finish{
				Reason:       chunk.DoneReason,
				InputTokens:  chunk.PromptEvalCount,
				OutputTokens: chunk.EvalCount,
			}
			break
		}
	}

	result.Content = content.String()
	return &result, nil
}

// post issues the chat request, retrying with exponential backoff when the
// backend answers 429. Other failures are returned as-is.
func (c *Client) post(ctx context.Context, body []byte, timeout time.Duration) (*http.Response, error) {
	var lastErr error
	for attempt := range maxRetries {
		resp, err := c.doPost(ctx, body, timeout)
		if err == nil {
			return resp, nil
		}
		if !isRateLimit(err) {
			return nil, err
		}
		lastErr = err
		if attempt < maxRetries-1 {
			backoff := time.Duration(float64(initialBackoff) * math.Pow(2, float64(attempt)))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return nil, fmt.Errorf("rate limited after %d retries: %w", maxRetries, lastErr)
}

func (c *Client) doPost(ctx context.Context, body []byte, timeout time.Duration) (*http.Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("chat request: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		cancel()
		return nil, &rateLimitError{status: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("chat: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelOnClose ties the per-request context to the response body so the
// timeout is released when the caller finishes reading.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	c.cancel()
	return c.ReadCloser.Close()
}

type rateLimitError struct {
	status int
}

func (e *rateLimitError) Error() string {
	return fmt.Sprintf("rate limited (HTTP %d)", e.status)
}

func isRateLimit(err error) bool {
	_, ok := err.(*rateLimitError)
	return ok
}
