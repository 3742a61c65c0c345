package group

import (
	"github.com/mzabolocki/bycycle/logging"
)

// Progress receives per-unit completion events from a dispatch call.
// Implementations are driven from a single collector goroutine, so they
// need not be safe for concurrent use. A nil Progress in Options
// disables reporting without changing any computed result.
type Progress interface {
	// Start announces the total number of units before any completes.
	Start(total int)
	// Advance reports one completed unit.
	Advance()
	// Done announces that every unit has completed.
	Done()
}

// LogProgress reports dispatch progress through the library logger at
// debug level, with a summary line on completion.
type LogProgress struct {
	logger logging.Logger
	total  int
	count  int
}

// NewLogProgress creates a progress reporter backed by the global logger.
func NewLogProgress() *LogProgress {
	return &LogProgress{
		logger: logging.WithFields(logging.Fields{
			"component": "group_progress",
		}),
	}
}

func (p *LogProgress) Start(total int) {
	p.total = total
	p.count = 0
	p.logger.Debug("dispatch started", logging.Fields{"total_signals": total})
}

func (p *LogProgress) Advance() {
	p.count++
	p.logger.Debug("signal completed", logging.Fields{
		"completed": p.count,
		"total":     p.total,
	})
}

func (p *LogProgress) Done() {
	p.logger.Info("dispatch finished", logging.Fields{
		"completed": p.count,
		"total":     p.total,
	})
}
