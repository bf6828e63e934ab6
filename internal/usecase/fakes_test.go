package usecase

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"TopicWatcher/internal/domain"
	"TopicWatcher/internal/seen"
)

type fakeSource struct {
	mu     sync.Mutex
	pages  [][]domain.Topic
	err    error
	calls  int
	block  chan struct{}
	inside chan struct{}
}

func (f *fakeSource) FetchTopics(ctx context.Context) ([]domain.Topic, error) {
	if f.inside != nil {
		f.inside <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if len(f.pages) == 0 {
		return nil, nil
	}
	page := f.pages[0]
	if len(f.pages) > 1 {
		f.pages = f.pages[1:]
	}
	f.calls++
	return page, nil
}

type fakePoster struct {
	mu       sync.Mutex
	statuses map[string]int
	posted   []domain.Topic
}

func (f *fakePoster) Post(_ context.Context, topic domain.Topic) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posted = append(f.posted, topic)

	status, ok := f.statuses[topic.Link]
	if !ok {
		return http.StatusOK, nil
	}
	switch {
	case status == 0:
		return 0, errors.New("connection refused")
	case status >= http.StatusBadRequest:
		return status, errors.New(http.StatusText(status))
	default:
		return status, nil
	}
}

type memStore struct {
	mu      sync.Mutex
	keys    []string
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load(context.Context) (*seen.Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return seen.New(m.keys...), nil
}

func (m *memStore) Save(_ context.Context, set *seen.Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.keys = set.Keys()
	return nil
}

type sleepRecorder struct {
	mu     sync.Mutex
	pauses []time.Duration
}

func (s *sleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.pauses = append(s.pauses, d)
	s.mu.Unlock()
	return ctx.Err()
}

func topic(n, title string) domain.Topic {
	return domain.Topic{Link: "/topic/" + n + "/", Title: title}
}
