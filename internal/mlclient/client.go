// Package mlclient is an HTTP client for the content classification sidecar.
package mlclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sparkmatch/engine/internal/domain"
	"github.com/sparkmatch/engine/internal/mltransport"
)

// ErrUnavailable indicates the classification service is unreachable.
var ErrUnavailable = errors.New("classification service unavailable")

// Client is an HTTP client for the content classification service.
type Client struct {
	baseURL string
	timeout time.Duration
}

// ClassifyResponse is the response body from /classify.
type ClassifyResponse struct {
	Flagged          bool     `json:"flagged"`
	Reason           string   `json:"reason"`
	Categories       []string `json:"categories"`
	Confidence       float64  `json:"confidence"`
	ProcessingTimeMs int64    `json:"processing_time_ms"`
}

// NewClient creates a classification client. timeout bounds each call; zero
// uses the transport default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, timeout: timeout}
}

// Classify sends text to the classification service and maps the response to
// a moderation decision. Any transport or decode failure is returned to the
// caller, which decides the fail-open policy.
func (c *Client) Classify(ctx context.Context, text string) (*domain.ModerationDecision, error) {
	req := &mltransport.ClassifyRequest{Text: text}
	var result ClassifyResponse
	if err := mltransport.DoClassify(ctx, c.baseURL, c.timeout, req, &result); err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	return &domain.ModerationDecision{
		Flagged:    result.Flagged,
		Reason:     result.Reason,
		Categories: result.Categories,
	}, nil
}

// Health checks if the classification service is healthy.
func (c *Client) Health(ctx context.Context) error {
	reachable, _, _, err := mltransport.DoHealth(ctx, c.baseURL, c.timeout)
	if err != nil {
		if !reachable {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return err
	}
	return nil
}
