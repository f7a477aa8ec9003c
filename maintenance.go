package dailydiet

import (
	"context"
	"fmt"
	"sort"

	"github.com/lborres/dailydiet/core"
	"github.com/lborres/dailydiet/pkg/logging"
	"github.com/robfig/cron/v3"
)

const DefaultJanitorSchedule = "@every 1m"

// Janitor periodically purges expired entries from in-memory caches and
// logs cache statistics.
type Janitor struct {
	cron   *cron.Cron
	caches map[string]core.StatsReporter
	logger logging.Logger
}

// NewJanitor schedules a sweep of dd's caches. schedule accepts standard
// cron specs and descriptors such as "@every 30s".
func NewJanitor(dd *DailyDiet, schedule string) (*Janitor, error) {
	if schedule == "" {
		schedule = DefaultJanitorSchedule
	}

	logger := dd.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	j := &Janitor{
		cron:   cron.New(cron.WithChain(cron.Recover(cronLogger{logger}))),
		caches: dd.Caches,
		logger: logger.With("component", "janitor"),
	}

	if _, err := j.cron.AddFunc(schedule, j.Sweep); err != nil {
		return nil, fmt.Errorf("invalid janitor schedule %q: %w", schedule, err)
	}
	return j, nil
}

func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop halts scheduling and waits for a running sweep to finish or ctx to end.
func (j *Janitor) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Sweep runs one purge pass over every cache, in name order.
func (j *Janitor) Sweep() {
	ctx := context.Background()

	names := make([]string, 0, len(j.caches))
	for name := range j.caches {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		c := j.caches[name]

		removed := 0
		if p, ok := c.(core.Purger); ok {
			removed = p.Purge()
		}

		stats := c.Stats()
		j.logger.Debug(ctx, "cache swept",
			"cache", name,
			"purged", removed,
			"size", stats.Size,
			"hits", stats.Hits,
			"misses", stats.Misses,
			"evictions", stats.Evictions,
			"expired", stats.Expired,
		)
	}
}

// cronLogger adapts logging.Logger to cron.Logger.
type cronLogger struct {
	log logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(context.Background(), msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(context.Background(), msg, append(keysAndValues, "error", err)...)
}
