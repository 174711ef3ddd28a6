// Package schedule runs recurring background jobs such as the periodic
// stock export.
//
//	s := schedule.New()
//	s.Every(time.Hour).Name("export").WithoutOverlapping().Run(exportJob)
//	s.Cron("0 3 * * *").Name("nightly").Run(job)
//	go s.Start(ctx)
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/inventory/pkg/logger"
)

// Task is one run of a job. ctx is cancelled when the scheduler stops.
type Task func(ctx context.Context) error

type entry struct {
	id        string
	interval  time.Duration
	cron      []string
	task      Task
	noOverlap bool

	mu       sync.Mutex
	lastRun  time.Time
	lastTick string
	running  bool
}

// Builder configures one job before Run registers it.
type Builder struct {
	s *Scheduler
	e *entry
}

// Scheduler dispatches due jobs once per tick.
type Scheduler struct {
	mu      sync.Mutex
	entries []*entry
	tick    time.Duration
	wg      sync.WaitGroup
}

func New() *Scheduler { return &Scheduler{tick: time.Second} }

// Every runs the job at a fixed interval, the first time on the first tick.
func (s *Scheduler) Every(d time.Duration) *Builder {
	return &Builder{s: s, e: &entry{interval: d}}
}

// Cron runs the job when a 5-field expression (min hour dom mon dow)
// matches the current UTC minute. Each field is *, n, */step, a-b or a
// comma list of those.
func (s *Scheduler) Cron(expr string) *Builder {
	return &Builder{s: s, e: &entry{cron: strings.Fields(expr)}}
}

func (b *Builder) Name(id string) *Builder {
	b.e.id = id
	return b
}

// WithoutOverlapping skips a run while the previous one is still going.
func (b *Builder) WithoutOverlapping() *Builder {
	b.e.noOverlap = true
	return b
}

// Run validates the schedule and registers fn.
func (b *Builder) Run(fn Task) error {
	if b.e.cron != nil {
		if err := ValidateCron(strings.Join(b.e.cron, " ")); err != nil {
			return err
		}
	} else if b.e.interval <= 0 {
		return fmt.Errorf("schedule: interval must be positive, got %s", b.e.interval)
	}
	b.e.task = fn

	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	if b.e.id == "" {
		b.e.id = fmt.Sprintf("job-%d", len(b.s.entries)+1)
	}
	b.s.entries = append(b.s.entries, b.e)
	return nil
}

// Start blocks, dispatching due jobs until ctx is done, then waits for
// running jobs to return.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return
		case now := <-ticker.C:
			for _, e := range s.snapshot() {
				if e.due(now.UTC()) {
					s.dispatch(ctx, e)
				}
			}
		}
	}
}

// List describes the registered jobs.
func (s *Scheduler) List() []string {
	out := make([]string, 0)
	for _, e := range s.snapshot() {
		freq := strings.Join(e.cron, " ")
		if freq == "" {
			freq = "every " + e.interval.String()
		}
		out = append(out, fmt.Sprintf("%s  [%s]", e.id, freq))
	}
	return out
}

func (s *Scheduler) snapshot() []*entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entry(nil), s.entries...)
}

func (e *entry) due(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cron != nil {
		// Ticks are sub-minute; fire once per matching minute.
		minute := now.Format("200601021504")
		if minute == e.lastTick || !matchCron(e.cron, now) {
			return false
		}
		e.lastTick = minute
		return true
	}
	return e.lastRun.IsZero() || now.Sub(e.lastRun) >= e.interval
}

func (s *Scheduler) dispatch(ctx context.Context, e *entry) {
	e.mu.Lock()
	if e.noOverlap && e.running {
		e.mu.Unlock()
		logger.Warn("schedule: previous run still active, skipping", "job", e.id)
		return
	}
	e.running = true
	e.lastRun = time.Now().UTC()
	e.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("schedule: job panicked", "job", e.id, "panic", r)
			}
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
		}()

		start := time.Now()
		if err := e.task(ctx); err != nil {
			logger.Error("schedule: job failed", "job", e.id, "error", err)
			return
		}
		logger.Info("schedule: job finished", "job", e.id, "took", time.Since(start).String())
	}()
}

// ─────────────────────────────────────────────
// Cron expressions
// ─────────────────────────────────────────────

var cronBounds = [5][2]int{{0, 59}, {0, 23}, {1, 31}, {1, 12}, {0, 6}}

// ValidateCron reports whether expr is a 5-field expression this package
// understands.
func ValidateCron(expr string) error {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return fmt.Errorf("schedule: cron %q: want 5 fields, got %d", expr, len(fields))
	}
	for i, f := range fields {
		for _, part := range strings.Split(f, ",") {
			if _, err := parsePart(part, cronBounds[i][0], cronBounds[i][1]); err != nil {
				return fmt.Errorf("schedule: cron %q: %w", expr, err)
			}
		}
	}
	return nil
}

func matchCron(fields []string, t time.Time) bool {
	vals := [5]int{t.Minute(), t.Hour(), t.Day(), int(t.Month()), int(t.Weekday())}
	for i, f := range fields {
		if !matchField(f, vals[i], cronBounds[i][0], cronBounds[i][1]) {
			return false
		}
	}
	return true
}

func matchField(field string, val, lo, hi int) bool {
	for _, part := range strings.Split(field, ",") {
		m, err := parsePart(part, lo, hi)
		if err == nil && m(val) {
			return true
		}
	}
	return false
}

func parsePart(part string, lo, hi int) (func(int) bool, error) {
	switch {
	case part == "*":
		return func(int) bool { return true }, nil

	case strings.HasPrefix(part, "*/"):
		step, err := strconv.Atoi(part[2:])
		if err != nil || step <= 0 {
			return nil, fmt.Errorf("bad step %q", part)
		}
		return func(v int) bool { return (v-lo)%step == 0 }, nil

	case strings.Contains(part, "-"):
		a, b, _ := strings.Cut(part, "-")
		from, err1 := strconv.Atoi(a)
		to, err2 := strconv.Atoi(b)
		if err1 != nil || err2 != nil || from < lo || to > hi || from > to {
			return nil, fmt.Errorf("bad range %q", part)
		}
		return func(v int) bool { return v >= from && v <= to }, nil

	default:
		n, err := strconv.Atoi(part)
		if err != nil || n < lo || n > hi {
			return nil, fmt.Errorf("bad value %q", part)
		}
		return func(v int) bool { return v == n }, nil
	}
}
