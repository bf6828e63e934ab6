package ports

import (
	"context"
	"time"

	"TopicWatcher/internal/domain"
	"TopicWatcher/internal/seen"
)

// PageFetcher returns the raw markup of a listing page.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// TopicExtractor turns listing markup into topics in page order.
type TopicExtractor interface {
	Extract(markup string) ([]domain.Topic, error)
}

// TopicSource pulls the current topics of the monitored page.
type TopicSource interface {
	FetchTopics(ctx context.Context) ([]domain.Topic, error)
}

// TopicPoster forwards a single topic downstream and reports the status code.
type TopicPoster interface {
	Post(ctx context.Context, topic domain.Topic) (int, error)
}

// SeenStore persists the set of already reported topic keys.
type SeenStore interface {
	Load(ctx context.Context) (*seen.Set, error)
	Save(ctx context.Context, set *seen.Set) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
