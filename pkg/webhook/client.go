package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrDisabled is returned when no webhook URL is configured
var ErrDisabled = errors.New("webhook disabled")

// Message is the chat payload; Slack, Google Chat and Mattermost all accept a top-level text
type Message struct {
	Text string `json:"text"`
}

// Client posts messages to a chat incoming-webhook
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient 새 클라이언트 생성. url이 비어 있으면 Send는 ErrDisabled 반환
func NewClient(url string) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Enabled reports whether a webhook URL is configured
func (c *Client) Enabled() bool {
	return c.url != ""
}

// Send posts msg once; any non-2xx answer is an error.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook rejected message: status=%d", resp.StatusCode)
	}
	return nil
}
