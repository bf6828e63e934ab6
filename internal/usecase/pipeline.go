package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"TopicWatcher/internal/domain"
	"TopicWatcher/internal/ports"
	"TopicWatcher/internal/seen"
)

// ErrCycleInProgress is returned when a cycle is requested while another runs.
var ErrCycleInProgress = errors.New("cycle already in progress")

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source    ports.TopicSource
	Store     ports.SeenStore
	Deliverer *Deliverer
	Logger    *slog.Logger
}

// CycleReport summarises one fetch, diff, deliver and save pass.
type CycleReport struct {
	Found       int
	New         int
	Delivered   int
	Failed      int
	RateLimited int
	Saved       bool
	Outcomes    []domain.DeliveryOutcome
}

// Pipeline implements the topic change-detection workflow. It owns the
// seen set; at most one cycle touches it at a time.
type Pipeline struct {
	source    ports.TopicSource
	store     ports.SeenStore
	deliverer *Deliverer
	logger    *slog.Logger

	running sync.Mutex
	seen    *seen.Set
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:    deps.Source,
		store:     deps.Store,
		deliverer: deps.Deliverer,
		logger:    deps.Logger,
	}
}

// Load reads the persisted seen set. Store failures degrade to an empty set.
func (p *Pipeline) Load(ctx context.Context) {
	p.running.Lock()
	defer p.running.Unlock()
	p.load(ctx)
}

func (p *Pipeline) load(ctx context.Context) {
	if p.store == nil {
		p.seen = seen.New()
		return
	}

	set, err := p.store.Load(ctx)
	if err != nil || set == nil {
		p.warn("cannot load seen topics, starting fresh", "error", err)
		set = seen.New()
	}
	p.seen = set
}

// SeenCount returns the size of the in-memory seen set.
func (p *Pipeline) SeenCount() int {
	p.running.Lock()
	defer p.running.Unlock()
	if p.seen == nil {
		return 0
	}
	return p.seen.Len()
}

// RunCycle performs one cycle. It returns ErrCycleInProgress without doing
// anything if another cycle is running. Fetch failures wrap domain.ErrFetch
// and leave the seen set unchanged; save failures wrap domain.ErrPersistence.
func (p *Pipeline) RunCycle(ctx context.Context) (CycleReport, error) {
	var report CycleReport

	if !p.running.TryLock() {
		return report, ErrCycleInProgress
	}
	defer p.running.Unlock()

	if p.seen == nil {
		p.load(ctx)
	}
	if p.source == nil {
		return report, fmt.Errorf("%w: no topic source configured", domain.ErrFetch)
	}

	topics, err := p.source.FetchTopics(ctx)
	if err != nil {
		return report, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	report.Found = len(topics)

	fresh := Diff(topics, p.seen)
	report.New = len(fresh)
	if len(fresh) == 0 {
		p.info("no new topics detected", "found", report.Found, "seen", p.seen.Len())
		return report, nil
	}
	p.info("new topics detected", "found", report.Found, "new", report.New)

	if p.deliverer != nil {
		report.Outcomes = p.deliverer.Deliver(ctx, fresh)
		for _, o := range report.Outcomes {
			switch {
			case o.Delivered():
				report.Delivered++
			case o.RateLimited():
				report.RateLimited++
				report.Failed++
			default:
				report.Failed++
			}
		}
	}

	if p.store == nil {
		return report, nil
	}

	// The keys are already committed; persist them even if ctx was cancelled
	// during delivery.
	if err := p.store.Save(context.WithoutCancel(ctx), p.seen); err != nil {
		if !errors.Is(err, domain.ErrPersistence) {
			err = fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		return report, err
	}
	report.Saved = true

	return report, nil
}

func (p *Pipeline) info(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
