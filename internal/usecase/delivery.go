package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"TopicWatcher/internal/domain"
	"TopicWatcher/internal/ports"
)

const (
	// DefaultPacing is the pause between two consecutive posts.
	DefaultPacing = 4 * time.Second
	// DefaultCooldown is added to the pacing after a 429 response.
	DefaultCooldown = 10 * time.Second
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the production SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DelivererConfig tunes pacing and the rate-limit cooldown.
type DelivererConfig struct {
	Pacing   time.Duration
	Cooldown time.Duration
	Sleep    SleepFunc
	Logger   *slog.Logger
}

// Deliverer forwards topics one by one with fixed pacing. Every topic is
// attempted exactly once; failures are neither retried nor rolled back.
type Deliverer struct {
	poster   ports.TopicPoster
	pacing   time.Duration
	cooldown time.Duration
	sleep    SleepFunc
	logger   *slog.Logger
}

// NewDeliverer wires a poster; zero durations fall back to the defaults.
func NewDeliverer(poster ports.TopicPoster, cfg DelivererConfig) *Deliverer {
	if cfg.Pacing <= 0 {
		cfg.Pacing = DefaultPacing
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	if cfg.Sleep == nil {
		cfg.Sleep = Sleep
	}
	return &Deliverer{
		poster:   poster,
		pacing:   cfg.Pacing,
		cooldown: cfg.Cooldown,
		sleep:    cfg.Sleep,
		logger:   cfg.Logger,
	}
}

// Deliver posts topics sequentially in order and returns one outcome per
// topic. If ctx is cancelled the remaining topics are reported as failed
// with the context error.
func (d *Deliverer) Deliver(ctx context.Context, topics []domain.Topic) []domain.DeliveryOutcome {
	outcomes := make([]domain.DeliveryOutcome, 0, len(topics))

	for i, topic := range topics {
		if i > 0 {
			pause := d.pacing
			if outcomes[i-1].RateLimited() {
				pause += d.cooldown
				d.warn("rate limit hit, cooling down", "pause", pause.String())
			}
			if err := d.sleep(ctx, pause); err != nil {
				return append(outcomes, abandoned(topics[i:], err)...)
			}
		}

		outcome := d.post(ctx, topic)
		outcomes = append(outcomes, outcome)
		d.report(outcome)
	}

	return outcomes
}

func (d *Deliverer) post(ctx context.Context, topic domain.Topic) domain.DeliveryOutcome {
	if d.poster == nil {
		return domain.DeliveryOutcome{Topic: topic, Err: fmt.Errorf("%w: no poster configured", domain.ErrDelivery)}
	}

	status, err := d.poster.Post(ctx, topic)
	outcome := domain.DeliveryOutcome{Topic: topic, StatusCode: status}

	switch {
	case status == http.StatusTooManyRequests:
		if err == nil {
			err = errors.New(http.StatusText(status))
		}
		outcome.Err = fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	case err != nil:
		outcome.Err = fmt.Errorf("%w: %w", domain.ErrDelivery, err)
	case status < http.StatusOK || status >= http.StatusMultipleChoices:
		outcome.Err = fmt.Errorf("%w: unexpected status %d", domain.ErrDelivery, status)
	}

	return outcome
}

func abandoned(topics []domain.Topic, cause error) []domain.DeliveryOutcome {
	out := make([]domain.DeliveryOutcome, 0, len(topics))
	for _, topic := range topics {
		out = append(out, domain.DeliveryOutcome{
			Topic: topic,
			Err:   fmt.Errorf("%w: %w", domain.ErrDelivery, cause),
		})
	}
	return out
}

func (d *Deliverer) report(o domain.DeliveryOutcome) {
	if d.logger == nil {
		return
	}
	if o.Delivered() {
		d.logger.Info("topic sent", "title", o.Topic.Title, "link", o.Topic.Link, "status", o.StatusCode)
		return
	}
	d.logger.Error("topic delivery failed", "title", o.Topic.Title, "link", o.Topic.Link, "status", o.StatusCode, "error", o.Err)
}

func (d *Deliverer) warn(msg string, args ...interface{}) {
	if d.logger != nil {
		d.logger.Warn(msg, args...)
	}
}
