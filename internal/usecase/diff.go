package usecase

import (
	"TopicWatcher/internal/domain"
	"TopicWatcher/internal/seen"
)

// Diff returns the topics of current whose keys are absent from set, in
// page order, and commits their keys into set as it goes. A topic listed
// twice on the same page is reported once.
func Diff(current []domain.Topic, set *seen.Set) []domain.Topic {
	fresh := make([]domain.Topic, 0)
	for _, topic := range current {
		if set.Add(topic.Key()) {
			fresh = append(fresh, topic)
		}
	}
	return fresh
}
