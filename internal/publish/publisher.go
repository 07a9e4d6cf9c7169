// Package publish posts final content to the external platform.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Result is the platform's verdict on one post attempt.
type Result struct {
	StatusCode int
	Success    bool
}

// Publisher issues a single POST per alert. There is no retry: a missed
// post costs less than a duplicated or flooded one.
type Publisher struct {
	url       string
	apiKey    string
	community string
	client    *http.Client
	logger    *zap.Logger
}

// NewPublisher builds a Publisher for the platform endpoint.
func NewPublisher(url, apiKey, community string, timeout time.Duration, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		url:       url,
		apiKey:    apiKey,
		community: community,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

type postRequest struct {
	Community string `json:"submolt"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

// Publish posts the content and interprets the response. Any transport
// error maps to StatusCode 0, Success false.
func (p *Publisher) Publish(ctx context.Context, title, content string) Result {
	body, err := json.Marshal(postRequest{
		Community: p.community,
		Title:     title,
		Content:   content,
	})
	if err != nil {
		p.logger.Error("publish marshal failed", zap.Error(err))
		return Result{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		p.logger.Error("publish request build failed", zap.Error(err))
		return Result{}
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn("publish transport error", zap.Error(err))
		return Result{}
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok {
		p.logger.Warn("publish rejected", zap.Int("status", resp.StatusCode))
	}
	return Result{StatusCode: resp.StatusCode, Success: ok}
}
