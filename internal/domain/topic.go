package domain

import (
	"net/http"
	"strings"
)

// KeySeparator joins link and title inside a topic key. Changing it
// invalidates every key persisted by earlier runs.
const KeySeparator = "|"

// Topic is one listing entry discovered on the monitored page.
type Topic struct {
	Link  string
	Title string
}

// Key derives the de-duplication identity of a topic.
func Key(t Topic) string {
	return t.Link + KeySeparator + strings.TrimSpace(t.Title)
}

// Key is a shorthand for Key(t).
func (t Topic) Key() string {
	return Key(t)
}

// DeliveryOutcome is the per-topic result of a delivery attempt.
type DeliveryOutcome struct {
	Topic      Topic
	StatusCode int
	Err        error
}

// Delivered reports whether the downstream endpoint accepted the topic.
func (o DeliveryOutcome) Delivered() bool {
	return o.Err == nil && o.StatusCode >= 200 && o.StatusCode < 300
}

// RateLimited reports whether the endpoint answered with 429.
func (o DeliveryOutcome) RateLimited() bool {
	return o.StatusCode == http.StatusTooManyRequests
}
