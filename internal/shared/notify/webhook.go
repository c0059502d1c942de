// Package notify posts stage-transition events to an external webhook.
// The shop uses this to feed a wall display; delivery is best effort.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// StageEvent is the payload posted on every flask stage change.
type StageEvent struct {
	FlaskID   uint      `json:"flask_id"`
	FlaskNo   string    `json:"flask_no"`
	MetalName string    `json:"metal_name"`
	FromStage string    `json:"from_stage"`
	ToStage   string    `json:"to_stage"`
	PostedBy  string    `json:"posted_by"`
	At        time.Time `json:"at"`
}

// Client posts events to a single webhook URL.
type Client struct {
	url    string
	client *resty.Client
}

func NewClient(url string) *Client {
	return &Client{
		url: url,
		client: resty.New().
			SetTimeout(5 * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(500 * time.Millisecond),
	}
}

// SendStageEvent posts one event. Non-2xx responses are reported as errors so
// the caller can log them; nothing is retried beyond the client policy.
func (c *Client) SendStageEvent(ctx context.Context, ev StageEvent) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(ev).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("post stage event: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("stage event webhook returned %d", resp.StatusCode())
	}
	return nil
}
