package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/fp-foodie-finder/server/internal/metrics"

	"github.com/pkg/errors"
)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type conversation struct {
	Messages     []message `json:"messages"`
	WebAccess    bool      `json:"web_access"`
	SystemPrompt string    `json:"system_prompt"`
	Temperature  float64   `json:"temperature"`
	TopK         int       `json:"top_k"`
	TopP         float64   `json:"top_p"`
	MaxTokens    int       `json:"max_tokens"`
}

// Client talks to the RapidAPI hosted chat completion endpoint.
type Client struct {
	url  string
	key  string
	host string
	http *http.Client
}

func NewClient(url, key, host string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{url: url, key: key, host: host, http: hc}
}

// Ask sends input as a single user turn and returns the upstream result
// field as is.
func (c *Client) Ask(ctx context.Context, input string) (json.RawMessage, error) {
	body, err := json.Marshal(conversation{
		Messages:    []message{{Role: "user", Content: input}},
		Temperature: 0.9,
		TopK:        5,
		TopP:        0.9,
		MaxTokens:   256,
	})
	if err != nil {
		return nil, errors.Wrap(err, "assistant: encode")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "assistant: request")
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.key)
	req.Header.Set("X-RapidAPI-Host", c.host)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ProxyCalls.WithLabelValues("assistant", "error").Inc()
		return nil, errors.Wrap(err, "assistant: call")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		metrics.ProxyCalls.WithLabelValues("assistant", "upstream_error").Inc()
		return nil, errors.Errorf("assistant: upstream status %d", resp.StatusCode)
	}
	var out struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.ProxyCalls.WithLabelValues("assistant", "upstream_error").Inc()
		return nil, errors.Wrap(err, "assistant: decode")
	}
	if len(out.Result) == 0 {
		out.Result = json.RawMessage("null")
	}
	metrics.ProxyCalls.WithLabelValues("assistant", "ok").Inc()
	return out.Result, nil
}
