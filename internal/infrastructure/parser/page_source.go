package parser

import (
	"context"
	"fmt"
	"log/slog"

	"TopicWatcher/internal/domain"
	"TopicWatcher/internal/ports"
)

// PageSource implements TopicSource by fetching one page and extracting topics.
type PageSource struct {
	pageURL   string
	fetcher   ports.PageFetcher
	extractor ports.TopicExtractor
	logger    *slog.Logger
}

var _ ports.TopicSource = (*PageSource)(nil)

// NewPageSource wires the fetch and extraction collaborators to a page URL.
func NewPageSource(pageURL string, fetcher ports.PageFetcher, extractor ports.TopicExtractor, log *slog.Logger) *PageSource {
	return &PageSource{
		pageURL:   pageURL,
		fetcher:   fetcher,
		extractor: extractor,
		logger:    log,
	}
}

// FetchTopics downloads the listing page and returns its topics.
func (s *PageSource) FetchTopics(ctx context.Context) ([]domain.Topic, error) {
	if s.fetcher == nil || s.extractor == nil {
		return nil, fmt.Errorf("page source is not configured")
	}

	s.debug("fetch page", "url", s.pageURL)
	markup, err := s.fetcher.Fetch(ctx, s.pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.pageURL, err)
	}

	topics, err := s.extractor.Extract(markup)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", s.pageURL, err)
	}

	s.debug("page produced topics", "url", s.pageURL, "count", len(topics))
	return topics, nil
}

func (s *PageSource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
