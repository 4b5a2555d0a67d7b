// Package llm provides a minimal client for OpenAI-compatible chat completion
// APIs and the content generator that produces task artifacts with it.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"
)

const defaultTimeout = 120 * time.Second

// Client is a short-lived handle to an OpenAI-compatible completion API.
// Construct one per task invocation; it holds no mutable state.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewClient creates a completion client. baseURL should point at the API root
// (e.g. "https://api.openai.com/v1"); model is the fixed model identifier used
// for every request.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("llm client requires a base URL")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("llm client requires an API key")
	}
	if model == "" {
		return nil, fmt.Errorf("llm client requires a model")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete submits a single user-role message and returns the first choice's
// content verbatim. Callers are responsible for trimming and post-processing.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}

	req, err := c.newRequest(ctx, "POST", "/chat/completions", body)
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := c.doRequest(req, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("completion API error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion API returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}
	u.Path = path.Join(u.Path, endpoint)

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", "AppForge/1.0")

	return req, nil
}

func (c *Client) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		// Surface a bounded amount of the body; API error payloads are small.
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("completion API error: %s: %s", resp.Status, string(b))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}
