package cvwatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hireloop/hireloop/internal/gateway"
	"github.com/hireloop/hireloop/internal/observability"
)

type Fetcher interface {
	CVStatus(ctx context.Context, userID string) (gateway.CVStatusResult, error)
}

// Watcher turns the backend's poll-only CV status endpoint into a stream of
// status updates. Each Start call owns exactly one timer; the run ends on
// the first of a terminal status, a cancelled context, or a Stop call.
type Watcher struct {
	fetcher  Fetcher
	interval time.Duration
	log      *slog.Logger
	prom     *observability.Prom
}

func New(fetcher Fetcher, interval time.Duration, log *slog.Logger, prom *observability.Prom) *Watcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &Watcher{
		fetcher:  fetcher,
		interval: interval,
		log:      log,
		prom:     prom,
	}
}

// Run is one live subscription. Updates delivers every observed status and
// closes after the terminal one.
type Run struct {
	updates  chan Status
	cancel   context.CancelFunc
	stopOnce sync.Once
}

// Updates yields one status per poll tick. The channel closes when the run
// ends, after delivering any terminal status.
func (r *Run) Updates() <-chan Status {
	return r.updates
}

// Stop cancels the run. Safe to call more than once and after the run has
// already finished on its own.
func (r *Run) Stop() {
	r.stopOnce.Do(r.cancel)
}

// Start begins polling for the given user. The caller must consume Updates
// or Stop the run; ties to ctx so a disconnected subscriber cannot leak the
// timer.
func (w *Watcher) Start(ctx context.Context, userID string) *Run {
	ctx, cancel := context.WithCancel(ctx)

	run := &Run{
		updates: make(chan Status, 1),
		cancel:  cancel,
	}

	if w.prom != nil {
		w.prom.WatchersActive.Inc()
	}

	go w.loop(ctx, userID, run)

	return run
}

func (w *Watcher) loop(ctx context.Context, userID string, run *Run) {
	defer close(run.updates)
	defer run.cancel()

	if w.prom != nil {
		defer w.prom.WatchersActive.Dec()
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.observeResult("cancelled")
			return

		case <-ticker.C:
			res, err := w.fetcher.CVStatus(ctx, userID)

			if ctx.Err() != nil {
				// a slow fetch can race cancellation; discard its result
				w.observeResult("cancelled")
				return
			}

			status := Resolve(res, err)

			select {
			case run.updates <- status:
			case <-ctx.Done():
				w.observeResult("cancelled")
				return
			}

			if status.Terminal() {
				if err != nil && w.log != nil {
					w.log.Warn("cv status poll ended with error", "user_id", userID, "err", err)
				}

				w.observeResult(string(status))
				return
			}
		}
	}
}

func (w *Watcher) observeResult(result string) {
	if w.prom != nil {
		w.prom.WatchResults.WithLabelValues(result).Inc()
	}
}
