package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"TopicWatcher/internal/domain"
	"TopicWatcher/internal/ports"
)

// Selectors describe where topics live in the listing markup.
type Selectors struct {
	Item      string
	Link      string
	TopicPath string
}

// DefaultSelectors matches the forum thumbnail grid layout.
func DefaultSelectors() Selectors {
	return Selectors{
		Item:      ".tthumb_grid_item",
		Link:      ".tthumb_gal_title a",
		TopicPath: "/topic/",
	}
}

// TopicExtractor pulls (link, title) pairs out of listing markup.
type TopicExtractor struct {
	sel Selectors
}

var _ ports.TopicExtractor = (*TopicExtractor)(nil)

// NewTopicExtractor fills empty selector fields with defaults.
func NewTopicExtractor(sel Selectors) *TopicExtractor {
	def := DefaultSelectors()
	if sel.Item == "" {
		sel.Item = def.Item
	}
	if sel.Link == "" {
		sel.Link = def.Link
	}
	if sel.TopicPath == "" {
		sel.TopicPath = def.TopicPath
	}
	return &TopicExtractor{sel: sel}
}

// Extract returns topics in page order. Entries with an empty link, an
// empty title or a link outside the topic path are dropped.
func (e *TopicExtractor) Extract(markup string) ([]domain.Topic, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	topics := make([]domain.Topic, 0)
	doc.Find(e.sel.Item).Each(func(_ int, item *goquery.Selection) {
		if topic, ok := e.parseItem(item); ok {
			topics = append(topics, topic)
		}
	})

	return topics, nil
}

func (e *TopicExtractor) parseItem(item *goquery.Selection) (domain.Topic, bool) {
	a := item.Find(e.sel.Link).First()
	link, _ := a.Attr("href")
	link = strings.TrimSpace(link)
	title := strings.TrimSpace(a.Text())

	if link == "" || title == "" || !strings.Contains(link, e.sel.TopicPath) {
		return domain.Topic{}, false
	}

	return domain.Topic{Link: link, Title: title}, true
}
