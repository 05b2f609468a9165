package detect

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nillion-vault/vault-engine/pkg/models"
)

// PageSource supplies the current page snapshot on demand. Snapshots are
// re-captured on every pass because mutations invalidate earlier ones.
type PageSource interface {
	Snapshot() *Page
}

// PageSourceFunc adapts a function to the PageSource interface.
type PageSourceFunc func() *Page

func (f PageSourceFunc) Snapshot() *Page { return f() }

// DeliverFunc receives the candidates of the single delivered pass.
type DeliverFunc func(ctx context.Context, candidates []models.FieldCandidate)

// Watcher drives continuous detection: one initial pass after a settle
// delay, then a fresh pass per observed structural mutation. Candidates are
// delivered downstream at most once per page load no matter how many passes
// fire.
type Watcher struct {
	detector *Detector
	source   PageSource
	settle   time.Duration
	deliver  DeliverFunc
	logger   *zap.Logger

	delivered bool
}

// NewWatcher creates a Watcher. The settle delay lets client-rendered forms
// finish mounting before the initial pass.
func NewWatcher(detector *Detector, source PageSource, settle time.Duration, deliver DeliverFunc, logger *zap.Logger) *Watcher {
	return &Watcher{
		detector: detector,
		source:   source,
		settle:   settle,
		deliver:  deliver,
		logger:   logger.Named("watcher"),
	}
}

// Run blocks, consuming the mutation stream until the context is cancelled
// or the stream closes. Each mutation event triggers a detection pass.
// Watcher is driven from a single goroutine per page load.
func (w *Watcher) Run(ctx context.Context, mutations <-chan struct{}) {
	timer := time.NewTimer(w.settle)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			w.pass(ctx)
		case _, ok := <-mutations:
			if !ok {
				return
			}
			w.pass(ctx)
		}
	}
}

// pass runs one detection cycle. Detection itself is side-effect-free;
// delivery is gated so downstream sees candidates at most once.
func (w *Watcher) pass(ctx context.Context) {
	candidates := w.detector.Detect(w.source.Snapshot())
	if len(candidates) == 0 {
		return
	}
	if w.delivered {
		return
	}
	w.delivered = true

	w.logger.Debug("Delivering candidates", zap.Int("count", len(candidates)))
	w.deliver(ctx, candidates)
}
