package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jwalitptl/care-console/pkg/logger"
	"github.com/jwalitptl/care-console/pkg/metrics"
)

// Pinger is the backend call the probe makes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status is the outcome of the last probe.
type Status struct {
	Up        bool
	CheckedAt time.Time
	Err       string
}

// BackendProbeWorker checks on a cron schedule that the backend answers, and
// remembers the result for the readiness endpoint.
type BackendProbeWorker struct {
	pinger   Pinger
	schedule string
	timeout  time.Duration
	logger   *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	mu     sync.RWMutex
	status Status
}

func NewBackendProbeWorker(pinger Pinger, schedule string, timeout time.Duration, log *logger.Logger, m *metrics.Metrics) *BackendProbeWorker {
	if schedule == "" {
		schedule = "@every 30s"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BackendProbeWorker{
		pinger:   pinger,
		schedule: schedule,
		timeout:  timeout,
		logger:   log,
		metrics:  m,
		now:      time.Now,
	}
}

// Start probes once, then on schedule until ctx is done.
func (w *BackendProbeWorker) Start(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(w.schedule, func() { w.Probe(ctx) }); err != nil {
		return fmt.Errorf("invalid probe schedule %q: %w", w.schedule, err)
	}

	w.Probe(ctx)
	c.Start()

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return nil
}

func (w *BackendProbeWorker) Probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	err := w.pinger.Ping(ctx)
	status := Status{Up: err == nil, CheckedAt: w.now()}
	if err != nil {
		status.Err = err.Error()
		w.logger.Warn("backend probe failed", "error", err.Error())
	}

	w.mu.Lock()
	wasUp := w.status.Up
	w.status = status
	w.mu.Unlock()

	if status.Up && !wasUp {
		w.logger.Info("backend reachable")
	}
	if w.metrics != nil {
		if status.Up {
			w.metrics.BackendUp.Set(1)
		} else {
			w.metrics.BackendUp.Set(0)
		}
	}
}

func (w *BackendProbeWorker) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}
