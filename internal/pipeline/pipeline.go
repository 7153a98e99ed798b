// Package pipeline drives raw events through normalization and matching and
// fans each match out to every registered consumer.
//
// Consumers see every match in the order events were pushed. The pipeline is
// synchronous: Push returns once every consumer has observed the event.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"controlreport/internal/match"
	"controlreport/internal/outcome"
	"controlreport/internal/telemetry"
)

// ErrClosed is returned by Push and Close once the pipeline has been closed.
var ErrClosed = errors.New("pipeline closed")

// Counter names recorded in the telemetry registry.
const (
	CounterReceived  = "outcomes.received"
	CounterMatched   = "outcomes.matched"
	CounterUnmatched = "outcomes.unmatched"
	CounterAnonymous = "outcomes.anonymous"
)

// Consumer observes matches in arrival order. Finish is called exactly once,
// after the last Observe.
type Consumer interface {
	Observe(m match.Match)
	Finish() error
}

// Source yields raw events until it returns io.EOF.
type Source interface {
	Next() (outcome.RawEvent, error)
}

// Options carries optional collaborators. Zero values get defaults.
type Options struct {
	Logger    *zap.Logger
	Telemetry *telemetry.Registry
	Now       func() time.Time
}

// Stats summarizes a closed pipeline.
type Stats struct {
	Received  int
	Matched   int
	Unmatched int
	Anonymous int
	Duration  time.Duration
}

// Pipeline is not safe for concurrent use.
type Pipeline struct {
	matcher   *match.Matcher
	consumers []Consumer
	log       *zap.Logger
	reg       *telemetry.Registry
	now       func() time.Time

	started time.Time
	stats   Stats
	closed  bool
}

// New constructs a Pipeline. Consumers are fed in the order given.
func New(m *match.Matcher, consumers []Consumer, opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Telemetry == nil {
		opts.Telemetry = telemetry.NewRegistry()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{
		matcher:   m,
		consumers: consumers,
		log:       opts.Logger,
		reg:       opts.Telemetry,
		now:       opts.Now,
		started:   opts.Now(),
	}
}

// Push normalizes ev, matches it and hands the match to each consumer.
func (p *Pipeline) Push(ev outcome.RawEvent) error {
	if p.closed {
		return ErrClosed
	}
	rec := outcome.Build(ev)
	m := p.matcher.Match(rec)

	p.stats.Received++
	p.reg.Counter(CounterReceived).Inc()
	if m.Matched() {
		p.stats.Matched++
		p.reg.Counter(CounterMatched).Inc()
	} else {
		p.stats.Unmatched++
		p.reg.Counter(CounterUnmatched).Inc()
	}
	if m.Anonymous() {
		p.stats.Anonymous++
		p.reg.Counter(CounterAnonymous).Inc()
	}

	p.log.Debug("outcome",
		zap.String("id", rec.ID),
		zap.String("status", string(rec.Status)),
		zap.Bool("matched", m.Matched()),
		zap.String("rule", m.Rule),
	)

	for _, c := range p.consumers {
		c.Observe(m)
	}
	return nil
}

// Close finishes every consumer once and returns the run statistics. All
// consumers are finished even if one fails; their errors are combined.
func (p *Pipeline) Close() (Stats, error) {
	if p.closed {
		return p.stats, ErrClosed
	}
	p.closed = true
	p.stats.Duration = p.now().Sub(p.started)

	var err error
	for _, c := range p.consumers {
		err = multierr.Append(err, c.Finish())
	}

	p.log.Info("pipeline closed",
		zap.Int("received", p.stats.Received),
		zap.Int("matched", p.stats.Matched),
		zap.Int("unmatched", p.stats.Unmatched),
		zap.Int("anonymous", p.stats.Anonymous),
		zap.Duration("duration", p.stats.Duration),
		zap.Error(err),
	)
	if err != nil {
		return p.stats, fmt.Errorf("finish consumers: %w", err)
	}
	return p.stats, nil
}

// Run drains src and closes the pipeline at io.EOF. Cancellation is checked
// between events and leaves the pipeline open: nothing is flushed, so any
// output already written stays a valid prefix of the full report.
func (p *Pipeline) Run(ctx context.Context, src Source) (Stats, error) {
	for {
		select {
		case <-ctx.Done():
			p.log.Warn("run canceled", zap.Int("received", p.stats.Received))
			return p.stats, ctx.Err()
		default:
		}

		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			return p.Close()
		}
		if err != nil {
			return p.stats, fmt.Errorf("read event: %w", err)
		}
		if err := p.Push(ev); err != nil {
			return p.stats, err
		}
	}
}
