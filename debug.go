package trellis

import (
	"time"
)

// debugStats holds per-frame scheduler and batcher metrics.
// Only collected when Surface.debug is true.
type debugStats struct {
	tasks   int
	stepped int
	queued  int
	flushed int
}

func (s *Surface) debugFrame(now time.Time) {
	if !s.debug {
		s.debugScheduled = false
		return
	}
	s.debugLog(debugStats{
		tasks:   s.scheduler.Len(),
		stepped: s.scheduler.lastStepped,
		queued:  s.batcher.Len(),
		flushed: s.batcher.lastFlushed,
	})
	s.frames.RequestFrame(s.debugFrame)
}

// debugLog writes frame stats to the package logger.
func (s *Surface) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	logger().Debug("frame",
		"tasks", stats.tasks,
		"stepped", stats.stepped,
		"queued", stats.queued,
		"flushed", stats.flushed)
}

// debugMaxSubscribers is the subscriber count above which a position warns
// about a likely leaked subscription.
const debugMaxSubscribers = 1000

func debugCheckSubscribers(p *Position, n int) {
	if n > debugMaxSubscribers {
		logger().Warn("position has many subscribers",
			"position", p.id, "subscribers", n, "threshold", debugMaxSubscribers)
	}
}
