// Package scheduler runs the recurring channel posts on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

type Kind string

const (
	KindQOTD Kind = "qotd"
	KindWTP  Kind = "wtp"
)

// Job is one scheduled post. Errors are logged, never retried.
type Job func(ctx context.Context) error

const DefaultJobTimeout = 2 * time.Minute

var parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

type entry struct {
	id       cron.EntryID
	spec     string
	schedule cron.Schedule
	job      Job
}

// Poster keeps at most one cron entry per Kind.
type Poster struct {
	mu       sync.Mutex
	cron     *cron.Cron
	location *time.Location
	entries  map[Kind]entry
	timeout  time.Duration
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

type PosterOpt func(p *Poster)

func WithTimeout(d time.Duration) PosterOpt {
	return func(p *Poster) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func WithClock(now func() time.Time) PosterOpt {
	return func(p *Poster) {
		p.now = now
	}
}

func New(location *time.Location, opts ...PosterOpt) *Poster {
	if location == nil {
		location = time.Local
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Poster{
		location: location,
		entries:  make(map[Kind]entry),
		timeout:  DefaultJobTimeout,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(p)
	}

	log := cronLogger{}
	p.cron = cron.New(
		cron.WithParser(parser),
		cron.WithLocation(location),
		cron.WithLogger(log),
		cron.WithChain(cron.Recover(log)),
	)
	return p
}

// Start schedules job under kind, replacing whatever was scheduled for it
// before. An invalid spec leaves the previous entry in place.
func (p *Poster) Start(kind Kind, spec string, job Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	schedule, err := parser.Parse(spec)
	if err != nil {
		return fmt.Errorf("invalid %s schedule %q: %w", kind, spec, err)
	}

	if old, ok := p.entries[kind]; ok {
		p.cron.Remove(old.id)
		delete(p.entries, kind)
	}

	id := p.cron.Schedule(schedule, cron.FuncJob(func() { p.run(kind, job) }))
	p.entries[kind] = entry{id: id, spec: spec, schedule: schedule, job: job}

	slog.Info("Scheduled job",
		slog.String("type", "sys"),
		slog.String("kind", string(kind)),
		slog.String("spec", spec),
		slog.String("location", p.location.String()))
	return nil
}

// Reschedule moves the job already scheduled for kind onto a new spec.
func (p *Poster) Reschedule(kind Kind, spec string) error {
	p.mu.Lock()
	e, ok := p.entries[kind]
	p.mu.Unlock()
	if !ok {
		return fmt.Errorf("no job scheduled for %s", kind)
	}
	return p.Start(kind, spec, e.job)
}

// Remove unschedules kind. It reports whether anything was scheduled.
func (p *Poster) Remove(kind Kind) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	old, ok := p.entries[kind]
	if !ok {
		return false
	}
	p.cron.Remove(old.id)
	delete(p.entries, kind)
	return true
}

// Trigger runs the job scheduled for kind immediately, outside the schedule.
func (p *Poster) Trigger(ctx context.Context, kind Kind) error {
	p.mu.Lock()
	e, ok := p.entries[kind]
	p.mu.Unlock()
	if !ok {
		return fmt.Errorf("no job scheduled for %s", kind)
	}
	return e.job(ctx)
}

// Next returns the next fire time for kind in the poster's location.
func (p *Poster) Next(kind Kind) (time.Time, bool) {
	p.mu.Lock()
	e, ok := p.entries[kind]
	p.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return e.schedule.Next(p.now().In(p.location)), true
}

// Spec returns the cron spec currently scheduled for kind.
func (p *Poster) Spec(kind Kind) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[kind]
	return e.spec, ok
}

func (p *Poster) Kinds() []Kind {
	p.mu.Lock()
	defer p.mu.Unlock()

	kinds := make([]Kind, 0, len(p.entries))
	for k := range p.entries {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func (p *Poster) Location() *time.Location {
	return p.location
}

// Run starts the cron loop in its own goroutine.
func (p *Poster) Run() {
	p.cron.Start()
}

// Stop cancels running jobs and waits for them to return or ctx to end.
func (p *Poster) Stop(ctx context.Context) {
	p.cancel()
	done := p.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		slog.Warn("Scheduler stop timed out", slog.String("type", "sys"))
	}
}

func (p *Poster) run(kind Kind, job Job) {
	ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		slog.Error("Scheduled job failed",
			slog.String("type", "sys"),
			slog.String("kind", string(kind)),
			slog.Duration("took", time.Since(start)),
			slog.Any("error", err))
		return
	}
	slog.Info("Scheduled job completed",
		slog.String("type", "sys"),
		slog.String("kind", string(kind)),
		slog.Duration("took", time.Since(start)))
}

// cronLogger routes cron's own messages into slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, append([]any{slog.String("type", "sys")}, keysAndValues...)...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append([]any{slog.String("type", "sys"), slog.Any("error", err)}, keysAndValues...)...)
}
