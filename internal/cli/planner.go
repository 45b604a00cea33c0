package cli

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowplan/pkg/release"
)

// heartbeat is the minimum interval between "still searching" log lines.
const heartbeat = 10 * time.Second

// plannerLogger turns dual planner progress callbacks into log lines: the
// first split scored, every improvement, and a periodic heartbeat while the
// best value stands still.
type plannerLogger struct {
	logger  *log.Logger
	mu      sync.Mutex
	start   time.Time
	lastLog time.Time
	best    uint64
	started bool
}

// newPlannerLogger creates a planner logger using the logger from ctx.
func newPlannerLogger(ctx context.Context) *plannerLogger {
	return &plannerLogger{
		logger: loggerFromContext(ctx),
		start:  time.Now(),
	}
}

// Progress returns the callback to install as release.DualPlanner.Progress.
func (p *plannerLogger) Progress() release.ProgressFunc {
	return p.onProgress
}

// onProgress is called by the dual planner with the masks scored so far,
// the total number of masks, and the best combined release.
func (p *plannerLogger) onProgress(done, total, best uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case !p.started:
		p.logger.Infof("Initial: %d pressure (%d/%d splits)", best, done, total)
		p.started = true
		p.lastLog = time.Now()
	case best > p.best:
		p.logger.Infof("Improved: %d pressure (↑%d)", best, best-p.best)
		p.lastLog = time.Now()
	case done == total:
		p.logger.Debugf("Scored all %d splits in %s", total, time.Since(p.start).Round(time.Millisecond))
	default:
		if time.Since(p.lastLog) >= heartbeat {
			elapsed := time.Since(p.start).Truncate(time.Second)
			pct := float64(done) / float64(total) * 100
			p.logger.Infof("Searching... %v elapsed, %.0f%% of splits, best %d", elapsed, pct, best)
			p.lastLog = time.Now()
		}
	}
	p.best = best
}
