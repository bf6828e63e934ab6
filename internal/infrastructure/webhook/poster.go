package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"TopicWatcher/internal/domain"
	"TopicWatcher/internal/ports"
)

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("endpoint returned %s", e.Status)
	}
	return fmt.Sprintf("endpoint returned %s: %s", e.Status, e.Body)
}

// Poster forwards topics to an HTTP endpoint as JSON.
type Poster struct {
	endpoint string
	source   string
	client   *http.Client
	now      func() time.Time
}

var _ ports.TopicPoster = (*Poster)(nil)

// NewPoster builds a poster; source labels every payload.
func NewPoster(endpoint, source string, client *http.Client) *Poster {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Poster{
		endpoint: endpoint,
		source:   source,
		client:   client,
		now:      time.Now,
	}
}

type payload struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// Post sends one topic and returns the response status code. A transport
// failure returns status 0.
func (p *Poster) Post(ctx context.Context, topic domain.Topic) (int, error) {
	if p.endpoint == "" {
		return 0, fmt.Errorf("webhook endpoint is not configured")
	}

	body, err := json.Marshal(payload{
		URL:       topic.Link,
		Title:     topic.Title,
		Source:    p.source,
		Timestamp: p.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return 0, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return resp.StatusCode, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
