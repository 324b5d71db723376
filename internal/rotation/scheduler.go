package rotation

import (
	"context"
	"log/slog"
	"time"
)

const checkInterval = time.Hour

// Scheduler fires a rotation when the ISO week rolls over. It observes
// boundaries rather than remembering them durably: a daemon restarted
// mid-week simply waits for the next boundary.
type Scheduler struct {
	engine   *Engine
	logger   *slog.Logger
	lastYear int
	lastWeek int
}

func NewScheduler(e *Engine, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	year, week := e.CurrentWeek()
	return &Scheduler{engine: e, logger: logger, lastYear: year, lastWeek: week}
}

// Run blocks until ctx is cancelled, checking hourly for a week change.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) tick() {
	year, week := s.engine.CurrentWeek()
	if year == s.lastYear && week == s.lastWeek {
		return
	}
	s.logger.Info("week boundary reached", "year", year, "week", week)
	s.engine.Rotate()
	s.lastYear, s.lastWeek = year, week
}
