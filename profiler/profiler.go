// Package profiler records per-frame filter timings and runtime memory figures
// and reports them through slog.
package profiler

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"
)

// Stats summarizes a series of samples.
type Stats struct {
	Name  string  `json:"name"`
	Count int64   `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}

// tracker keeps a bounded window of samples plus lifetime extremes.
type tracker struct {
	values []float64
	sum    float64
	min    float64
	max    float64
	count  int64
}

func (t *tracker) add(v float64, maxSamples int) {
	if t.count == 0 || v < t.min {
		t.min = v
	}
	if t.count == 0 || v > t.max {
		t.max = v
	}
	t.count++
	t.values = append(t.values, v)
	t.sum += v
	if len(t.values) > maxSamples {
		t.sum -= t.values[0]
		t.values = t.values[1:]
	}
}

func (t *tracker) stats(name string) Stats {
	s := Stats{Name: name, Count: t.count, Min: t.min, Max: t.max}
	if len(t.values) > 0 {
		s.Mean = t.sum / float64(len(t.values))
	}
	return s
}

// Options configures a Profiler.
type Options struct {
	// ReportInterval is how often Start emits a report (default: 5s).
	ReportInterval time.Duration
	// MaxSamples bounds the window used for means (default: 600).
	MaxSamples int
	// Logger receives reports (default: slog.Default()).
	Logger *slog.Logger
}

// Profiler collects operation timings and custom metrics. It is safe for
// concurrent use.
type Profiler struct {
	reportInterval time.Duration
	maxSamples     int
	logger         *slog.Logger

	mu         sync.Mutex
	metrics    map[string]*tracker
	operations map[string]*tracker
	startTime  time.Time

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// New creates a Profiler with defaults applied.
//
// Arguments:
// - opts: Profiler options; zero values select defaults.
//
// Returns:
// - A ready Profiler. Call Start for periodic reports.
func New(opts Options) *Profiler {
	if opts.ReportInterval <= 0 {
		opts.ReportInterval = 5 * time.Second
	}
	if opts.MaxSamples <= 0 {
		opts.MaxSamples = 600
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Profiler{
		reportInterval: opts.ReportInterval,
		maxSamples:     opts.MaxSamples,
		logger:         opts.Logger,
		metrics:        make(map[string]*tracker),
		operations:     make(map[string]*tracker),
		startTime:      time.Now(),
	}
}

// Start emits a report every ReportInterval until ctx is done or Stop is
// called. Calling Start twice is a no-op.
func (p *Profiler) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true

	ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(p.reportInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.Report()
			}
		}
	}()
}

// Stop halts periodic reporting and waits for the reporter to exit.
func (p *Profiler) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel := p.cancel
	p.mu.Unlock()

	cancel()
	p.wg.Wait()
}

// RecordMetric records a custom metric value, such as a PSNR.
func (p *Profiler) RecordMetric(name string, value float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.metrics[name]
	if !ok {
		t = &tracker{}
		p.metrics[name] = t
	}
	t.add(value, p.maxSamples)
}

// RecordDuration records one run of an operation.
func (p *Profiler) RecordDuration(name string, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.operations[name]
	if !ok {
		t = &tracker{}
		p.operations[name] = t
	}
	t.add(float64(d), p.maxSamples)
}

// StartOperation starts timing an operation and returns the function that
// stops it.
//
// @example
//
//	done := prof.StartOperation("bilateral")
//	f.Execute()
//	done()
func (p *Profiler) StartOperation(name string) func() {
	start := time.Now()
	return func() {
		p.RecordDuration(name, time.Since(start))
	}
}

// Operation returns timing statistics in nanoseconds for name.
func (p *Profiler) Operation(name string) (Stats, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.operations[name]
	if !ok {
		return Stats{}, false
	}
	return t.stats(name), true
}

// Metric returns statistics for a custom metric.
func (p *Profiler) Metric(name string) (Stats, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.metrics[name]
	if !ok {
		return Stats{}, false
	}
	return t.stats(name), true
}

// Report logs memory figures, every operation and every metric.
func (p *Profiler) Report() {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	p.mu.Lock()
	ops := snapshot(p.operations)
	metrics := snapshot(p.metrics)
	uptime := time.Since(p.startTime)
	p.mu.Unlock()

	p.logger.Info("profiler report",
		"uptime", uptime.Truncate(time.Millisecond),
		"goroutines", runtime.NumGoroutine(),
		"heap_alloc", mem.HeapAlloc,
		"gc_cycles", mem.NumGC,
	)
	for _, s := range ops {
		p.logger.Info("operation timing",
			"name", s.Name,
			"count", s.Count,
			"avg", time.Duration(s.Mean),
			"min", time.Duration(s.Min),
			"max", time.Duration(s.Max),
		)
	}
	for _, s := range metrics {
		p.logger.Info("metric",
			"name", s.Name,
			"count", s.Count,
			"avg", s.Mean,
			"min", s.Min,
			"max", s.Max,
		)
	}
}

func snapshot(m map[string]*tracker) []Stats {
	out := make([]Stats, 0, len(m))
	for name, t := range m {
		out = append(out, t.stats(name))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
